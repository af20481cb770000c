package store

import (
	"context"
	"errors"

	"github.com/atriumhq/atrium/internal/intranet/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and transaction scoping so multi-step invariant-critical writes
// (owner bootstrap) stay atomic.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run the bootstrap critical section.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a directory record by identity id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a record up by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new record. Returns ErrAlreadyExists when the
	// identity id or the email (case-insensitive) is already taken.
	CreateUser(ctx context.Context, u domain.User) error

	// CreateOwnerIfAbsent inserts u with role=owner only if no owner record
	// exists. Returns true when the insert happened. The check and the
	// insert are a single atomic statement, so two concurrent callers can
	// never both succeed.
	CreateOwnerIfAbsent(ctx context.Context, u domain.User) (bool, error)

	// UpdateProfile applies the non-nil fields of p and bumps updated_at.
	UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error

	// UpdateRole changes the role and bumps updated_at.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// UpdateStatus toggles active/inactive and bumps updated_at.
	UpdateStatus(ctx context.Context, userID string, status domain.Status) error

	// StampLastLogin records the sign-in time without touching updated_at.
	StampLastLogin(ctx context.Context, userID string) error

	// ListAll returns every directory record ordered by creation date.
	ListAll(ctx context.Context) ([]domain.User, error)

	// ListByRole returns the records holding exactly the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// ExistsByEmail reports whether any record holds the email,
	// case-insensitively.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountUsers returns the total number of records.
	CountUsers(ctx context.Context) (int64, error)

	// CountByRole returns how many records hold the given role.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
