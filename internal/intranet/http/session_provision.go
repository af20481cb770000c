package http

import (
	"net/http"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/service"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/intranetsdk"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// ProvisionHandler is the first-sign-in entry point. The identity comes
// entirely from the verified token; the request carries no body. On a
// completely empty directory the caller becomes the owner.
type ProvisionHandler struct {
	BootstrapService *service.BootstrapService
	SessionService   *service.SessionService
}

func (h *ProvisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromCtx(ctx)
	if !ok || claims.Subject == "" {
		intranetsdk.ErrInvalidToken.WriteError(w)
		return
	}

	result, err := h.BootstrapService.EnsureUser(ctx, domain.Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	})
	if err != nil {
		log.Warn("provision failed", "identity_id", claims.Subject, "err", err)
		writeServiceError(w, err)
		return
	}

	view, err := h.SessionService.Context(ctx, result.User.ID)
	if err != nil {
		log.Warn("failed to load session context", "identity_id", result.User.ID, "err", err)
		writeServiceError(w, err)
		return
	}

	response := intranetsdk.ProvisionResponse{
		User:        toUserResponse(result.User),
		Created:     result.Created,
		WasPromoted: result.WasPromoted,
		Permissions: permissionStrings(view.Permissions),
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}
