package service

import (
	"context"
	"sync"
	"time"

	"github.com/atriumhq/atrium/internal/intranet/domain"
)

// AuthorizationContext is the derived, ephemeral view of what an identity
// may currently do. It is recomputed whenever the underlying record or the
// bound identity changes; nothing here is persisted.
type AuthorizationContext struct {
	IdentityID  string
	Role        domain.Role
	Permissions []domain.Permission
	LoadedAt    time.Time
}

// HasPermission checks the cached permission set.
func (c AuthorizationContext) HasPermission(p domain.Permission) bool {
	for _, held := range c.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// SessionService caches per-identity AuthorizationContexts between
// authorization checks and drops them when the identity provider reports a
// change or a directory mutation lands. There is deliberately no singleton
// "current user" here: callers pass the identity on every call.
type SessionService struct {
	Authz *AuthzService

	mu       sync.RWMutex
	contexts map[string]AuthorizationContext
}

func NewSessionService(authz *AuthzService) *SessionService {
	return &SessionService{
		Authz:    authz,
		contexts: make(map[string]AuthorizationContext),
	}
}

// Context returns the cached authorization view for the identity,
// recomputing it from the directory when absent.
func (s *SessionService) Context(ctx context.Context, identityID string) (AuthorizationContext, error) {
	s.mu.RLock()
	cached, ok := s.contexts[identityID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	return s.refresh(ctx, identityID)
}

// Invalidate drops the cached view; the next Context call recomputes it.
// Called on identity-change notifications and after any mutation of the
// identity's record, so a promotion is visible to the very next check in
// the same session.
func (s *SessionService) Invalidate(identityID string) {
	s.mu.Lock()
	delete(s.contexts, identityID)
	s.mu.Unlock()
}

// OnIdentityChanged is the hook the identity-binding collaborator calls
// when the signed-in principal changes (sign-in, sign-out, token refresh
// for a different account).
func (s *SessionService) OnIdentityChanged(identityID string) {
	s.Invalidate(identityID)
}

func (s *SessionService) refresh(ctx context.Context, identityID string) (AuthorizationContext, error) {
	role, perms, err := s.Authz.GetPermissions(ctx, identityID)
	if err != nil {
		return AuthorizationContext{}, err
	}

	view := AuthorizationContext{
		IdentityID:  identityID,
		Role:        role,
		Permissions: perms,
		LoadedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.contexts[identityID] = view
	s.mu.Unlock()
	return view, nil
}
