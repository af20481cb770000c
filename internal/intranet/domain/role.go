package domain

import (
	"fmt"
	"strings"
)

// Role is the coarse privilege tier assigned to a user. Roles form a strict
// hierarchy (owner > admin > manager > agent) used for outranking checks,
// but most authorization decisions are permission-set lookups.
type Role int

const (
	RoleUnknown Role = iota
	RoleAgent
	RoleManager
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleAgent:
		return "agent"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	return r >= RoleAgent && r <= RoleOwner
}

// ParseRole maps a stored or wire-level role name back to a Role.
// Unrecognised names return RoleUnknown and an error so callers can
// fail closed rather than guessing.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agent":
		return RoleAgent, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	default:
		return RoleUnknown, fmt.Errorf("domain: unknown role %q", s)
	}
}

// Permission is a fine-grained capability token checked independently of
// the role hierarchy.
type Permission string

const (
	PermCRMAccess      Permission = "crm.access"
	PermCRMReports     Permission = "crm.reports"
	PermManageUsers    Permission = "manage_users"
	PermDirectoryView  Permission = "directory.view"
	PermProfileEdit    Permission = "profile.edit"
	PermMessagingSend  Permission = "messaging.send"
	PermPayrollView    Permission = "hr.payroll.view"
	PermTimeClockUse   Permission = "hr.timeclock.use"
	PermTimeOffManage  Permission = "hr.timeoff.manage"
	PermTrainingView   Permission = "training.view"
	PermTrainingManage Permission = "training.manage"
	PermSettingsManage Permission = "settings.manage"
)
