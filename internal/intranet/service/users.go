package service

import (
	"context"
	"errors"
	"strings"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/store"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// Invalidator drops any cached authorization view for an identity. The
// session layer implements it; user mutations call it so the next
// authorization check observes the fresh record.
type Invalidator interface {
	Invalidate(identityID string)
}

// UserService is the administrative surface over the user directory:
// profile edits, role changes, status toggles and explicit account
// creation. Owner-affecting transitions are NOT handled here — they belong
// to BootstrapService.
type UserService struct {
	Store    store.Store
	Sessions Invalidator
}

// GetUserByID fetches a directory record by identity id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

// ListAll returns every directory record.
func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.Store.Users().ListAll(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return users, nil
}

// ListByRole returns the records holding exactly the given role.
func (s *UserService) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users, err := s.Store.Users().ListByRole(ctx, role)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return users, nil
}

// CreateUser is the explicit administrative "add an account" operation.
// The new account never gets the owner role through this path.
func (s *UserService) CreateUser(ctx context.Context, identity domain.Identity, role domain.Role) (domain.User, error) {
	if err := validateIdentity(identity); err != nil {
		return domain.User{}, err
	}
	if !role.Valid() || role == domain.RoleOwner {
		return domain.User{}, ErrInvalidIdentity
	}

	user := domain.User{
		ID:          identity.ID,
		Email:       strings.TrimSpace(identity.Email),
		DisplayName: strings.TrimSpace(identity.DisplayName),
		Role:        role,
		Status:      domain.StatusActive,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inUse, err := tx.Users().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if inUse {
			return ErrEmailInUse
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		if errors.Is(err, ErrEmailInUse) || errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailInUse
		}
		return domain.User{}, mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("user created",
		"identity_id", user.ID,
		"role", role.String(),
	)
	return user, nil
}

// UpdateProfile applies the non-nil profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error {
	if err := s.Store.Users().UpdateProfile(ctx, userID, p); err != nil {
		return mapStoreErr(err)
	}
	s.invalidate(userID)
	return nil
}

// ChangeRole moves a user between the non-owner tiers. Promotion to owner
// goes through BootstrapService.PromoteToOwner, and the last remaining
// owner cannot be demoted here (the system must never end up ownerless
// by accident).
func (s *UserService) ChangeRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() || role == domain.RoleOwner {
		return ErrInvalidIdentity
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if current.Role == domain.RoleOwner {
			return ErrOwnerRoleProtected
		}
		return tx.Users().UpdateRole(ctx, userID, role)
	})
	if err != nil {
		if errors.Is(err, ErrOwnerRoleProtected) {
			return err
		}
		return mapStoreErr(err)
	}

	s.invalidate(userID)
	slogx.FromContext(ctx).Info("role changed", "identity_id", userID, "role", role.String())
	return nil
}

// SetStatus activates or deactivates an account. Deactivation keeps the
// record and role but strips all permissions until reactivated.
func (s *UserService) SetStatus(ctx context.Context, userID string, status domain.Status) error {
	if status != domain.StatusActive && status != domain.StatusInactive {
		return ErrInvalidIdentity
	}
	if err := s.Store.Users().UpdateStatus(ctx, userID, status); err != nil {
		return mapStoreErr(err)
	}
	s.invalidate(userID)
	return nil
}

func (s *UserService) invalidate(userID string) {
	if s.Sessions != nil {
		s.Sessions.Invalidate(userID)
	}
}
