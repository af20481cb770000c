package service

import (
	"errors"
	"fmt"

	"github.com/atriumhq/atrium/internal/intranet/store"
)

var (
	// ErrAlreadyInitialized is returned when an owner-creating operation
	// runs against a system that already has its owner.
	ErrAlreadyInitialized = errors.New("system already has an owner")

	// ErrEmailInUse is returned when an account creation would reuse an
	// existing email (compared case-insensitively).
	ErrEmailInUse = errors.New("email address already in use")

	// ErrWeakCredential is returned when a supplied password fails the
	// strength policy.
	ErrWeakCredential = errors.New("credential does not meet strength requirements")

	// ErrInvalidIdentity is returned when the identity descriptor is
	// missing required fields or malformed.
	ErrInvalidIdentity = errors.New("invalid identity descriptor")

	// ErrStoreUnavailable wraps infrastructure failures from the user
	// directory. Transient; callers may retry.
	ErrStoreUnavailable = errors.New("user directory unavailable")

	// ErrUserNotFound is returned by operations addressing a specific
	// directory record that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrOwnerRoleProtected is returned when a role change would touch the
	// owner role outside the bootstrap protocol.
	ErrOwnerRoleProtected = errors.New("owner role can only change through the bootstrap protocol")
)

// mapStoreErr passes expected store outcomes through and wraps everything
// else as ErrStoreUnavailable so callers can tell "no" apart from "broken".
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
