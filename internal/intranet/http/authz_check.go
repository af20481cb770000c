package http

import (
	"encoding/json"
	"net/http"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/service"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/intranetsdk"
)

// AuthzCheckHandler lets pages ask "may I do this" before rendering a
// protected element. A denial is a 200 with allowed=false; only malformed
// requests and auth failures are errors.
type AuthzCheckHandler struct {
	AuthzService *service.AuthzService
}

func (h *AuthzCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identityID := httpx.IdentityIDFromCtx(ctx)
	if identityID == "" {
		intranetsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req intranetsdk.AuthzCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	requirement, err := toRequirement(req)
	if err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	decision := h.AuthzService.Authorize(ctx, identityID, requirement)

	response := intranetsdk.AuthzCheckResponse{Allowed: decision.Allowed}
	if !decision.Allowed {
		response.Reason = decision.Reason.String()
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}

// toRequirement converts the wire clauses. Unknown role names are a client
// error rather than an implicit deny, so callers learn about typos.
func toRequirement(req intranetsdk.AuthzCheckRequest) (service.Requirement, error) {
	out := service.Requirement{Action: req.Action}

	for _, p := range req.Permissions {
		out.Permissions = append(out.Permissions, domain.Permission(p))
	}

	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return service.Requirement{}, err
		}
		out.Role = &role
	}

	for _, name := range req.AllowedRoles {
		role, err := domain.ParseRole(name)
		if err != nil {
			return service.Requirement{}, err
		}
		out.AllowedRoles = append(out.AllowedRoles, role)
	}

	return out, nil
}
