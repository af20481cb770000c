package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/atriumhq/atrium/internal/intranet/domain"
	"github.com/atriumhq/atrium/internal/intranet/metrics"
	"github.com/atriumhq/atrium/internal/intranet/policy"
	"github.com/atriumhq/atrium/internal/intranet/store"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// DenyReason explains a negative authorization decision.
type DenyReason int

const (
	ReasonNone DenyReason = iota

	// ReasonUnknownIdentity: no directory record exists for the caller.
	ReasonUnknownIdentity

	// ReasonInactive: the record exists but is deactivated.
	ReasonInactive

	// ReasonMissingPermission: none of the required permissions are held.
	ReasonMissingPermission

	// ReasonRoleTooLow: the caller neither matches nor outranks the
	// required role.
	ReasonRoleTooLow

	// ReasonRoleNotAllowed: the caller's role is not in the allowed-roles
	// list. Exact membership; outranking does not apply here.
	ReasonRoleNotAllowed

	// ReasonUnavailable: the directory could not be read. Denied, but
	// distinguishable so callers can surface a transient failure.
	ReasonUnavailable
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnknownIdentity:
		return "unknown_identity"
	case ReasonInactive:
		return "inactive"
	case ReasonMissingPermission:
		return "missing_permission"
	case ReasonRoleTooLow:
		return "role_too_low"
	case ReasonRoleNotAllowed:
		return "role_not_allowed"
	case ReasonUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Requirement is the caller-supplied description of what a protected action
// needs. Every present clause must pass; within the Permissions list a
// single held permission suffices (ANY-match). AllowedRoles is exact
// membership — an owner does NOT automatically pass an allowed-roles list
// that omits owner, while the single Role clause is satisfied by any role
// that matches or outranks it. Both behaviors existed in the intranet pages
// this replaces; keeping them separate clauses makes the asymmetry explicit
// instead of accidental.
type Requirement struct {
	// Permissions that would each individually satisfy this clause.
	Permissions []domain.Permission

	// Role the caller must hold or outrank.
	Role *domain.Role

	// AllowedRoles the caller's role must be a member of, exactly.
	AllowedRoles []domain.Role

	// Action names what is being attempted, for the audit trail only.
	Action string
}

// Decision is the outcome of an authorization check. Denial is a normal
// result, never an error.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

var allowed = Decision{Allowed: true}

func denied(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// AuthzService answers "may this identity perform this action". It reads
// the directory record fresh on every call so decisions always reflect the
// latest role/status mutation.
type AuthzService struct {
	Store store.Store
	Audit AuditSink
}

// GetPermissions resolves the caller's role and permission set. A missing
// record or an inactive record yields an empty set and no error; only
// infrastructure failures surface as errors.
func (s *AuthzService) GetPermissions(ctx context.Context, identityID string) (domain.Role, []domain.Permission, error) {
	u, err := s.Store.Users().GetUserByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RoleUnknown, nil, nil
		}
		return domain.RoleUnknown, nil, mapStoreErr(err)
	}
	if u.Status != domain.StatusActive {
		return u.Role, nil, nil
	}
	return u.Role, policy.PermissionsFor(u.Role), nil
}

// Authorize evaluates req against the identity's current directory record.
// It never returns an error: store failures fail closed with a
// distinguishable reason, and every denial is reported to the audit sink
// without blocking the decision.
func (s *AuthzService) Authorize(ctx context.Context, identityID string, req Requirement) Decision {
	decision, role := s.evaluate(ctx, identityID, req)

	metrics.RecordDecision(decision.Allowed, decision.Reason.String())

	if !decision.Allowed {
		s.reportDenied(identityID, role, req, decision)
	}
	return decision
}

// evaluate returns the decision plus the role it observed, so the audit
// trail records who was denied without a second directory read.
func (s *AuthzService) evaluate(ctx context.Context, identityID string, req Requirement) (Decision, domain.Role) {
	u, err := s.Store.Users().GetUserByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return denied(ReasonUnknownIdentity), domain.RoleUnknown
		}
		slogx.FromContext(ctx).Error("authz: directory read failed", "identity_id", identityID, "err", err)
		return denied(ReasonUnavailable), domain.RoleUnknown
	}

	if u.Status != domain.StatusActive {
		return denied(ReasonInactive), u.Role
	}

	if len(req.Permissions) > 0 && !policy.ValidateAccess(u.Role, req.Permissions) {
		return denied(ReasonMissingPermission), u.Role
	}

	if req.Role != nil {
		if u.Role != *req.Role && !policy.Outranks(u.Role, *req.Role) {
			return denied(ReasonRoleTooLow), u.Role
		}
	}

	if len(req.AllowedRoles) > 0 && !slices.Contains(req.AllowedRoles, u.Role) {
		return denied(ReasonRoleNotAllowed), u.Role
	}

	return allowed, u.Role
}

// reportDenied ships the event to the audit sink on its own goroutine.
// Auditing must never delay or fail an authorization decision.
func (s *AuthzService) reportDenied(identityID string, role domain.Role, req Requirement, decision Decision) {
	if s.Audit == nil {
		return
	}

	event := AuditEvent{
		IdentityID: identityID,
		Action:     req.Action,
		Role:       role,
		Reason:     decision.Reason,
		At:         time.Now().UTC(),
	}
	go s.Audit.RecordDenied(event)
}
