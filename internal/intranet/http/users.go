package http

import (
	"encoding/json"
	"net/http"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/service"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/intranetsdk"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// UsersHandler serves the directory endpoints. Reads need directory.view,
// mutations need manage_users, except that a user may always edit their
// own profile with profile.edit.
type UsersHandler struct {
	AuthzService   *service.AuthzService
	UserService    *service.UserService
	SessionService *service.SessionService
}

func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identityID := httpx.IdentityIDFromCtx(ctx)
	if identityID == "" {
		intranetsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, identityID)
	if err != nil {
		log.Warn("failed to load caller record", "identity_id", identityID, "err", err)
		writeServiceError(w, err)
		return
	}

	view, err := h.SessionService.Context(ctx, identityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := intranetsdk.MeResponse{
		User:        toUserResponse(user),
		Permissions: permissionStrings(view.Permissions),
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.require(w, r, service.Requirement{
		Permissions: []domain.Permission{domain.PermDirectoryView},
		Action:      "users.list",
	}) {
		return
	}

	var (
		users []domain.User
		err   error
	)
	if roleName := r.URL.Query().Get("role"); roleName != "" {
		role, parseErr := domain.ParseRole(roleName)
		if parseErr != nil {
			intranetsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		users, err = h.UserService.ListByRole(ctx, role)
	} else {
		users, err = h.UserService.ListAll(ctx)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := intranetsdk.UsersListResponse{
		Users: make([]intranetsdk.UserResponse, len(users)),
		Total: len(users),
	}
	for i, u := range users {
		response.Users[i] = toUserResponse(u)
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.require(w, r, service.Requirement{
		Permissions: []domain.Permission{domain.PermDirectoryView},
		Action:      "users.get",
	}) {
		return
	}

	user, err := h.UserService.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := r.PathValue("id")

	// Self-service edits ride on profile.edit; editing anyone else is a
	// directory management operation.
	requirement := service.Requirement{
		Permissions: []domain.Permission{domain.PermManageUsers},
		Action:      "users.update_profile",
	}
	if targetID == httpx.IdentityIDFromCtx(ctx) {
		requirement.Permissions = []domain.Permission{domain.PermProfileEdit}
	}
	if !h.require(w, r, requirement) {
		return
	}

	var req intranetsdk.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	update := domain.ProfileUpdate{
		DisplayName: req.DisplayName,
		Department:  req.Department,
		Phone:       req.Phone,
		AvatarURL:   req.AvatarURL,
	}
	if err := h.UserService.UpdateProfile(ctx, targetID, update); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !h.require(w, r, service.Requirement{
		Permissions: []domain.Permission{domain.PermManageUsers},
		Action:      "users.change_role",
	}) {
		return
	}

	var req intranetsdk.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	targetID := r.PathValue("id")
	if err := h.UserService.ChangeRole(ctx, targetID, role); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Info("role changed",
		"target_id", targetID,
		"role", role.String(),
		"actor_id", httpx.IdentityIDFromCtx(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !h.require(w, r, service.Requirement{
		Permissions: []domain.Permission{domain.PermManageUsers},
		Action:      "users.set_status",
	}) {
		return
	}

	var req intranetsdk.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	status := domain.ParseStatus(req.Status)
	if status == domain.StatusUnknown {
		intranetsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	targetID := r.PathValue("id")
	if err := h.UserService.SetStatus(ctx, targetID, status); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Info("status changed",
		"target_id", targetID,
		"status", status.String(),
		"actor_id", httpx.IdentityIDFromCtx(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

// require evaluates the requirement for the authenticated caller and writes
// the error response on failure. Returns true when the request may proceed.
func (h *UsersHandler) require(w http.ResponseWriter, r *http.Request, requirement service.Requirement) bool {
	identityID := httpx.IdentityIDFromCtx(r.Context())
	if identityID == "" {
		intranetsdk.ErrInvalidToken.WriteError(w)
		return false
	}

	decision := h.AuthzService.Authorize(r.Context(), identityID, requirement)
	if decision.Allowed {
		return true
	}
	if decision.Reason == service.ReasonUnavailable {
		intranetsdk.ErrUnavailable.WriteError(w)
		return false
	}
	intranetsdk.ErrAccessDenied.WriteError(w)
	return false
}
