package http

import (
	"errors"
	"net/http"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/service"
	"github.com/atriumhq/atrium/pkg/intranetsdk"
)

func toUserResponse(u domain.User) intranetsdk.UserResponse {
	return intranetsdk.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role.String(),
		Status:      u.Status.String(),
		Department:  u.Department,
		Phone:       u.Phone,
		AvatarURL:   u.AvatarURL,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func permissionStrings(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// writeServiceError maps service-layer sentinels onto wire errors.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		intranetsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrEmailInUse):
		intranetsdk.ErrEmailInUse.WriteError(w)
	case errors.Is(err, service.ErrWeakCredential):
		intranetsdk.ErrWeakPassword.WriteError(w)
	case errors.Is(err, service.ErrAlreadyInitialized):
		intranetsdk.ErrAlreadyInitialized.WriteError(w)
	case errors.Is(err, service.ErrOwnerRoleProtected):
		intranetsdk.ErrOwnerProtected.WriteError(w)
	case errors.Is(err, service.ErrInvalidIdentity):
		intranetsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrStoreUnavailable):
		intranetsdk.ErrUnavailable.WriteError(w)
	default:
		intranetsdk.ErrServerError.WriteError(w)
	}
}
