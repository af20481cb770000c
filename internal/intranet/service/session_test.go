package service

import (
	"context"
	"testing"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/stretchr/testify/require"
)

func TestSessionContextCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st, Audit: NopAuditSink{}}
	sessions := NewSessionService(authz)

	u := seedUser(t, st, domain.RoleAgent, domain.StatusActive, "agent@example.com")

	view, err := sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAgent, view.Role)
	require.False(t, view.HasPermission(domain.PermManageUsers))
	require.True(t, view.HasPermission(domain.PermCRMAccess))

	// A role change is invisible until the session is invalidated.
	require.NoError(t, st.Users().UpdateRole(ctx, u.ID, domain.RoleAdmin))

	cached, err := sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAgent, cached.Role)

	sessions.Invalidate(u.ID)

	fresh, err := sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, fresh.Role)
	require.True(t, fresh.HasPermission(domain.PermManageUsers))
}

func TestSessionReflectsPromotionThroughUserService(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st, Audit: NopAuditSink{}}
	sessions := NewSessionService(authz)
	users := &UserService{Store: st, Sessions: sessions}

	u := seedUser(t, st, domain.RoleAgent, domain.StatusActive, "agent@example.com")

	before, err := sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, before.HasPermission(domain.PermTimeOffManage))

	require.NoError(t, users.ChangeRole(ctx, u.ID, domain.RoleManager))

	after, err := sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, after.Role)
	require.True(t, after.HasPermission(domain.PermTimeOffManage))
}

func TestSessionDeactivationEmptiesPermissions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st, Audit: NopAuditSink{}}
	sessions := NewSessionService(authz)
	users := &UserService{Store: st, Sessions: sessions}

	u := seedUser(t, st, domain.RoleAdmin, domain.StatusActive, "admin@example.com")

	view, err := sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, view.Permissions)

	require.NoError(t, users.SetStatus(ctx, u.ID, domain.StatusInactive))

	view, err = sessions.Context(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, view.Role)
	require.Empty(t, view.Permissions)
	require.False(t, view.HasPermission(domain.PermCRMAccess))
}

func TestSessionUnknownIdentity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := NewSessionService(&AuthzService{Store: st, Audit: NopAuditSink{}})

	view, err := sessions.Context(ctx, "ghost")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnknown, view.Role)
	require.Empty(t, view.Permissions)
}
