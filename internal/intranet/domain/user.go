package domain

import "time"

// Status marks whether a user may currently exercise any permissions.
// Deactivated users keep their record (and role) but are authorized
// for nothing until reactivated.
type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusInactive
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ParseStatus maps a stored status name back to a Status.
func ParseStatus(s string) Status {
	switch s {
	case "active":
		return StatusActive
	case "inactive":
		return StatusInactive
	default:
		return StatusUnknown
	}
}

// User is the persisted directory record for one authenticated identity.
// The ID is issued by the external identity provider and is stable; at most
// one record exists per identity, and at most one record system-wide may
// hold RoleOwner.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	Status       Status
	Department   string
	Phone        string
	AvatarURL    string
	PasswordHash string // argon2id encoded; empty for provider-managed accounts
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated principal descriptor handed to us by the
// identity provider. It carries no authority by itself; authority comes
// from the directory record it maps to.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

// ProfileUpdate carries the optional profile fields a user (or an admin)
// may change. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Department  *string
	Phone       *string
	AvatarURL   *string
}
