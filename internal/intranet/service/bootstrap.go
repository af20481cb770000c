package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/metrics"
	"github.com/atriumhq/atrium/internal/intranet/store"
	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/idx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// ownerDepartment is assigned to the first user promoted during bootstrap.
const ownerDepartment = "Executive"

// BootstrapService owns the transition of an empty directory into one with
// exactly one owner. Every write that could violate owner uniqueness runs
// inside a store transaction behind a single-writer gate, and the owner
// insert itself is conditional, so two concurrent first-sign-ins can never
// both promote. The gate serializes this process's bootstrap attempts; the
// conditional insert and the schema's partial unique index cover writers in
// other processes.
type BootstrapService struct {
	Store store.Store

	// mu is the critical section for all owner-uniqueness-affecting writes.
	mu sync.Mutex
}

// ProvisionResult reports what EnsureUser did for an identity.
type ProvisionResult struct {
	User        domain.User
	Created     bool // a new directory record was written
	WasPromoted bool // the new record is the system owner
}

// EnsureUser is the first-sign-in entry point. It is idempotent: an
// identity that already has a record gets it back (with last_login
// stamped) and is never re-created or re-promoted.
//
// For an identity with no record, the decision runs inside one write
// transaction: if the directory is completely empty — zero owners AND zero
// users, so a populated-but-ownerless directory never auto-promotes — the
// identity becomes the owner via a conditional insert; otherwise it becomes
// an ordinary agent.
func (s *BootstrapService) EnsureUser(ctx context.Context, identity domain.Identity) (ProvisionResult, error) {
	l := slogx.FromContext(ctx)

	if err := validateIdentity(identity); err != nil {
		return ProvisionResult{}, err
	}

	// Fast path: record already exists.
	existing, err := s.Store.Users().GetUserByID(ctx, identity.ID)
	if err == nil {
		if err := s.Store.Users().StampLastLogin(ctx, existing.ID); err != nil {
			l.Warn("failed to stamp last login", "identity_id", identity.ID, "err", err)
		}
		metrics.RecordBootstrap("existing")
		return ProvisionResult{User: existing}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return ProvisionResult{}, mapStoreErr(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result ProvisionResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		owners, err := tx.Users().CountByRole(ctx, domain.RoleOwner)
		if err != nil {
			return err
		}
		total, err := tx.Users().CountUsers(ctx)
		if err != nil {
			return err
		}

		user := domain.User{
			ID:          identity.ID,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
			Status:      domain.StatusActive,
		}

		if owners == 0 && total == 0 {
			user.Department = ownerDepartment
			created, err := tx.Users().CreateOwnerIfAbsent(ctx, user)
			if err != nil {
				return err
			}
			if created {
				user.Role = domain.RoleOwner
				result = ProvisionResult{User: user, Created: true, WasPromoted: true}
				return nil
			}
			// Lost the race to a concurrent first sign-in; fall through
			// and join as a regular member.
			user.Department = ""
		}

		inUse, err := tx.Users().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if inUse {
			return ErrEmailInUse
		}

		user.Role = domain.RoleAgent
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		result = ProvisionResult{User: user, Created: true}
		return nil
	})

	if errors.Is(err, store.ErrAlreadyExists) {
		// A concurrent call provisioned this identity between our read and
		// the insert. Idempotence: hand back whatever it created.
		existing, getErr := s.Store.Users().GetUserByID(ctx, identity.ID)
		if getErr == nil {
			metrics.RecordBootstrap("existing")
			return ProvisionResult{User: existing}, nil
		}
		return ProvisionResult{}, ErrEmailInUse
	}
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return ProvisionResult{}, err
		}
		return ProvisionResult{}, mapStoreErr(err)
	}

	if result.WasPromoted {
		metrics.RecordBootstrap("promoted")
		l.Info("first sign-in promoted to owner",
			"identity_id", identity.ID,
			"email", identity.Email,
		)
	} else {
		metrics.RecordBootstrap("member")
		l.Info("provisioned new member", "identity_id", identity.ID)
	}
	return result, nil
}

// CreateOwnerRequest carries the manual setup form inputs.
type CreateOwnerRequest struct {
	Email       string
	DisplayName string
	Password    string
}

// CreateOwner handles the explicit setup flow ("create the owner account").
// The no-owner predicate is re-checked at write time through the
// conditional insert; a form rendered before another setup attempt
// completed cannot create a second owner.
func (s *BootstrapService) CreateOwner(ctx context.Context, req CreateOwnerRequest) (domain.User, error) {
	l := slogx.FromContext(ctx)

	identity := domain.Identity{
		ID:          idx.New().String(),
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if err := validateIdentity(identity); err != nil {
		return domain.User{}, err
	}
	if err := cryptox.CheckStrength(req.Password); err != nil {
		return domain.User{}, ErrWeakCredential
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		l.Error("failed to hash owner password", "err", err)
		return domain.User{}, mapStoreErr(err)
	}

	user := domain.User{
		ID:           identity.ID,
		Email:        identity.Email,
		DisplayName:  identity.DisplayName,
		Status:       domain.StatusActive,
		Department:   ownerDepartment,
		PasswordHash: hash,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		inUse, err := tx.Users().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if inUse {
			return ErrEmailInUse
		}

		created, err := tx.Users().CreateOwnerIfAbsent(ctx, user)
		if err != nil {
			return err
		}
		if !created {
			return ErrAlreadyInitialized
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailInUse) || errors.Is(err, ErrAlreadyInitialized) {
			return domain.User{}, err
		}
		return domain.User{}, mapStoreErr(err)
	}

	user.Role = domain.RoleOwner
	l.Info("owner account created via setup flow", "identity_id", user.ID)
	return user, nil
}

// PromoteToOwner raises an existing identity to owner. Only legal while the
// system has no owner; any concurrent or previous owner creation makes this
// fail with ErrAlreadyInitialized, checked inside the same transaction as
// the role write (with the schema's partial unique index as the backstop).
func (s *BootstrapService) PromoteToOwner(ctx context.Context, identityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		owners, err := tx.Users().CountByRole(ctx, domain.RoleOwner)
		if err != nil {
			return err
		}
		if owners > 0 {
			return ErrAlreadyInitialized
		}
		return tx.Users().UpdateRole(ctx, identityID, domain.RoleOwner)
	})

	switch {
	case err == nil:
		slogx.FromContext(ctx).Info("identity promoted to owner", "identity_id", identityID)
		return nil
	case errors.Is(err, ErrAlreadyInitialized):
		return err
	case errors.Is(err, store.ErrAlreadyExists):
		// The partial unique index caught a racing owner write.
		return ErrAlreadyInitialized
	default:
		return mapStoreErr(err)
	}
}

func validateIdentity(identity domain.Identity) error {
	if strings.TrimSpace(identity.ID) == "" {
		return ErrInvalidIdentity
	}
	email := strings.TrimSpace(identity.Email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidIdentity
	}
	return nil
}
