package sqlite

import (
	"context"
	"testing"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/store"
	"github.com/atriumhq/atrium/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser(role domain.Role, email string) domain.User {
	return domain.User{
		ID:          idx.New().String(),
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		Status:      domain.StatusActive,
	}
}

func TestUsersCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleAgent, "alice@example.com")
	u.Department = "Sales"
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.RoleAgent, got.Role)
	require.Equal(t, domain.StatusActive, got.Status)
	require.Equal(t, "Sales", got.Department)
	require.Nil(t, got.LastLogin)
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersEmailUniquenessIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, testUser(domain.RoleAgent, "bob@example.com")))

	err := s.Users().CreateUser(ctx, testUser(domain.RoleAgent, "Bob@Example.COM"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	exists, err := s.Users().ExistsByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestCreateOwnerIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := testUser(domain.RoleOwner, "founder@example.com")
	created, err := s.Users().CreateOwnerIfAbsent(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	// Second conditional insert observes the existing owner and does nothing.
	second := testUser(domain.RoleOwner, "usurper@example.com")
	created, err = s.Users().CreateOwnerIfAbsent(ctx, second)
	require.NoError(t, err)
	require.False(t, created)

	owners, err := s.Users().ListByRole(ctx, domain.RoleOwner)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	require.Equal(t, first.ID, owners[0].ID)
}

func TestOwnerUniquenessEnforcedBySchema(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, testUser(domain.RoleOwner, "founder@example.com")))

	// A direct insert of a second owner trips the partial unique index.
	err := s.Users().CreateUser(ctx, testUser(domain.RoleOwner, "second@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// So does promoting someone else via UpdateRole.
	admin := testUser(domain.RoleAdmin, "admin@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, admin))
	err = s.Users().UpdateRole(ctx, admin.ID, domain.RoleOwner)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleAgent, "carol@example.com")
	u.Department = "Support"
	u.Phone = "555-0100"
	require.NoError(t, s.Users().CreateUser(ctx, u))

	dept := "Engineering"
	require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, domain.ProfileUpdate{
		Department: &dept,
	}))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Engineering", got.Department)
	require.Equal(t, "555-0100", got.Phone, "untouched fields keep their value")

	err = s.Users().UpdateProfile(ctx, "missing", domain.ProfileUpdate{Department: &dept})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatusAndLastLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := testUser(domain.RoleManager, "dave@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdateStatus(ctx, u.ID, domain.StatusInactive))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, got.Status)

	require.NoError(t, s.Users().StampLastLogin(ctx, u.ID))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
}

func TestCountsAndListing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, testUser(domain.RoleOwner, "o@example.com")))
	require.NoError(t, s.Users().CreateUser(ctx, testUser(domain.RoleAgent, "a1@example.com")))
	require.NoError(t, s.Users().CreateUser(ctx, testUser(domain.RoleAgent, "a2@example.com")))

	total, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	owners, err := s.Users().CountByRole(ctx, domain.RoleOwner)
	require.NoError(t, err)
	require.EqualValues(t, 1, owners)

	agents, err := s.Users().ListByRole(ctx, domain.RoleAgent)
	require.NoError(t, err)
	require.Len(t, agents, 2)

	all, err := s.Users().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sentinel := store.ErrAlreadyExists
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, testUser(domain.RoleAgent, "tx@example.com")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.Users().GetUserByEmail(ctx, "tx@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
