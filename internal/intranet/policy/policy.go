// Package policy is the static role/permission table and its predicates.
// Everything here is pure: no I/O, no errors. Unknown roles or permissions
// always deny.
package policy

import "github.com/atriumhq/atrium/internal/intranet/domain"

// rolePermissions enumerates each role's grants independently. The sets are
// not required to nest; a higher role satisfies a *role* requirement via
// Outranks, but only holds the permissions listed for it here.
var rolePermissions = map[domain.Role][]domain.Permission{
	domain.RoleAgent: {
		domain.PermCRMAccess,
		domain.PermDirectoryView,
		domain.PermProfileEdit,
		domain.PermMessagingSend,
		domain.PermPayrollView,
		domain.PermTimeClockUse,
		domain.PermTrainingView,
	},
	domain.RoleManager: {
		domain.PermCRMAccess,
		domain.PermCRMReports,
		domain.PermDirectoryView,
		domain.PermProfileEdit,
		domain.PermMessagingSend,
		domain.PermPayrollView,
		domain.PermTimeClockUse,
		domain.PermTimeOffManage,
		domain.PermTrainingView,
		domain.PermTrainingManage,
	},
	domain.RoleAdmin: {
		domain.PermCRMAccess,
		domain.PermCRMReports,
		domain.PermManageUsers,
		domain.PermDirectoryView,
		domain.PermProfileEdit,
		domain.PermMessagingSend,
		domain.PermPayrollView,
		domain.PermTimeClockUse,
		domain.PermTimeOffManage,
		domain.PermTrainingView,
		domain.PermTrainingManage,
		domain.PermSettingsManage,
	},
	domain.RoleOwner: {
		domain.PermCRMAccess,
		domain.PermCRMReports,
		domain.PermManageUsers,
		domain.PermDirectoryView,
		domain.PermProfileEdit,
		domain.PermMessagingSend,
		domain.PermPayrollView,
		domain.PermTimeClockUse,
		domain.PermTimeOffManage,
		domain.PermTrainingView,
		domain.PermTrainingManage,
		domain.PermSettingsManage,
	},
}

// rank gives each role its position in the hierarchy. Higher outranks lower.
var rank = map[domain.Role]int{
	domain.RoleAgent:   1,
	domain.RoleManager: 2,
	domain.RoleAdmin:   3,
	domain.RoleOwner:   4,
}

// PermissionsFor returns the permission set granted to role. The returned
// slice is a copy; callers may mutate it freely. An unknown role yields nil.
func PermissionsFor(role domain.Role) []domain.Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]domain.Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether role is granted perm by the static table.
func HasPermission(role domain.Role, perm domain.Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Outranks reports whether a sits strictly above b in the role hierarchy.
// It is non-reflexive: Outranks(admin, admin) is false. Callers that want
// "same role or higher" combine it with an equality check.
func Outranks(a, b domain.Role) bool {
	ra, ok := rank[a]
	if !ok {
		return false
	}
	rb, ok := rank[b]
	if !ok {
		return false
	}
	return ra > rb
}

// ValidateAccess reports whether role holds at least one of the required
// permissions. The semantics are deliberately ANY-match: a page that lists
// several permissions is accessible to anyone holding any one of them.
// An empty requirement list grants nothing.
func ValidateAccess(role domain.Role, required []domain.Permission) bool {
	for _, p := range required {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}
