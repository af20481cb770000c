package http

import (
	"encoding/json"
	"net/http"

	"github.com/atriumhq/atrium/internal/intranet/service"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/intranetsdk"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// SetupOwnerHandler runs the one-time setup flow. Unauthenticated because
// no owner exists yet to authenticate; once one does, the service refuses
// every further attempt.
type SetupOwnerHandler struct {
	BootstrapService *service.BootstrapService
}

func (h *SetupOwnerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req intranetsdk.SetupOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.BootstrapService.CreateOwner(ctx, service.CreateOwnerRequest{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		log.Warn("owner setup rejected", "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
