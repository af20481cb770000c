package service

import (
	"context"
	"sync"
	"testing"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/pkg/idx"
	"github.com/stretchr/testify/require"
)

// recordingInvalidator captures which identities had their cached
// authorization dropped.
type recordingInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingInvalidator) Invalidate(identityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, identityID)
}

func (r *recordingInvalidator) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func TestUserServiceCreateUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	t.Run("creates a member with the given role", func(t *testing.T) {
		u, err := svc.CreateUser(ctx, domain.Identity{
			ID: idx.New().String(), Email: "new@example.com", DisplayName: "New Hire",
		}, domain.RoleManager)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, u.Role)
		require.Equal(t, domain.StatusActive, u.Status)
	})

	t.Run("refuses to mint owners", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, domain.Identity{
			ID: idx.New().String(), Email: "boss@example.com", DisplayName: "Boss",
		}, domain.RoleOwner)
		require.ErrorIs(t, err, ErrInvalidIdentity)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, domain.Identity{
			ID: idx.New().String(), Email: "new@example.com", DisplayName: "Dup",
		}, domain.RoleAgent)
		require.ErrorIs(t, err, ErrEmailInUse)
	})
}

func TestUserServiceChangeRole(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inv := &recordingInvalidator{}
	svc := &UserService{Store: st, Sessions: inv}

	agent := seedUser(t, st, domain.RoleAgent, domain.StatusActive, "agent@example.com")
	owner := seedUser(t, st, domain.RoleOwner, domain.StatusActive, "owner@example.com")

	t.Run("changes between non-owner tiers", func(t *testing.T) {
		require.NoError(t, svc.ChangeRole(ctx, agent.ID, domain.RoleManager))

		got, err := st.Users().GetUserByID(ctx, agent.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, got.Role)
		require.Contains(t, inv.seen(), agent.ID)
	})

	t.Run("cannot assign the owner role", func(t *testing.T) {
		require.ErrorIs(t, svc.ChangeRole(ctx, agent.ID, domain.RoleOwner), ErrInvalidIdentity)
	})

	t.Run("cannot demote the owner", func(t *testing.T) {
		require.ErrorIs(t, svc.ChangeRole(ctx, owner.ID, domain.RoleAdmin), ErrOwnerRoleProtected)
	})

	t.Run("missing user", func(t *testing.T) {
		require.ErrorIs(t, svc.ChangeRole(ctx, "nobody", domain.RoleAdmin), ErrUserNotFound)
	})
}

func TestUserServiceUpdateProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inv := &recordingInvalidator{}
	svc := &UserService{Store: st, Sessions: inv}

	u := seedUser(t, st, domain.RoleAgent, domain.StatusActive, "agent@example.com")

	dept := "Support"
	phone := "+61 2 5550 1234"
	require.NoError(t, svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{
		Department: &dept,
		Phone:      &phone,
	}))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Support", got.Department)
	require.Equal(t, "+61 2 5550 1234", got.Phone)
	require.Equal(t, u.DisplayName, got.DisplayName, "untouched fields survive a partial update")
	require.Contains(t, inv.seen(), u.ID)
}

func TestUserServiceSetStatus(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inv := &recordingInvalidator{}
	svc := &UserService{Store: st, Sessions: inv}

	u := seedUser(t, st, domain.RoleManager, domain.StatusActive, "mgr@example.com")

	require.NoError(t, svc.SetStatus(ctx, u.ID, domain.StatusInactive))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, got.Status)
	require.Equal(t, domain.RoleManager, got.Role, "deactivation keeps the role for later reactivation")
	require.Contains(t, inv.seen(), u.ID)
}

func TestUserServiceListing(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	seedUser(t, st, domain.RoleAgent, domain.StatusActive, "a@example.com")
	seedUser(t, st, domain.RoleAgent, domain.StatusActive, "b@example.com")
	seedUser(t, st, domain.RoleManager, domain.StatusActive, "c@example.com")

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	agents, err := svc.ListByRole(ctx, domain.RoleAgent)
	require.NoError(t, err)
	require.Len(t, agents, 2)
}
