package intranetsdk

import "time"

// UserResponse is the wire form of a directory record. The password hash
// never leaves the server.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Department  string     `json:"department,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UsersListResponse wraps a directory listing.
type UsersListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// ProvisionResponse reports the outcome of a first-sign-in provision call.
type ProvisionResponse struct {
	User        UserResponse `json:"user"`
	Created     bool         `json:"created"`
	WasPromoted bool         `json:"was_promoted"`
	Permissions []string     `json:"permissions"`
}

// SetupOwnerRequest carries the one-time setup form.
type SetupOwnerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// MeResponse describes the authenticated caller plus their effective
// authorization context.
type MeResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// AuthzCheckRequest asks whether the caller may perform an action. All
// present clauses must pass; the permissions list is satisfied by any one
// held permission, the single role by holding or outranking it, and the
// allowed-roles list by exact membership.
type AuthzCheckRequest struct {
	Permissions  []string `json:"permissions,omitempty"`
	Role         string   `json:"role,omitempty"`
	AllowedRoles []string `json:"allowed_roles,omitempty"`
	Action       string   `json:"action,omitempty"`
}

// AuthzCheckResponse is the evaluator's answer. Reason is empty when
// allowed.
type AuthzCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// UpdateProfileRequest carries a partial profile update. Absent fields are
// left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Department  *string `json:"department,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// ChangeRoleRequest assigns a new non-owner role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// SetStatusRequest toggles a record between active and inactive.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// HealthChecks reports the state of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
