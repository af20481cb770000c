package intranetsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/atriumhq/atrium/pkg/httpx"
)

// API error codes returned in the "error" field of error responses.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeAccessDenied       = "access_denied"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeEmailInUse         = "email_in_use"
	ErrorCodeWeakPassword       = "weak_password"
	ErrorCodeAlreadyInitialized = "already_initialized"
	ErrorCodeOwnerProtected     = "owner_protected"
	ErrorCodeServerError        = "server_error"
	ErrorCodeUnavailable        = "temporarily_unavailable"
)

// APIError is the wire form of every non-2xx response. It implements the
// error interface so the SDK client can return it directly.
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest covers malformed bodies and missing parameters.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidToken is returned when the bearer token is missing or fails
	// verification.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "missing or invalid access token",
	}

	// ErrAccessDenied is returned when the authenticated caller lacks the
	// role or permission the endpoint requires.
	ErrAccessDenied = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccessDenied,
		Description: "the caller is not permitted to perform this action",
	}

	// ErrNotFound is returned when the referenced user does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "no such user",
	}

	// ErrEmailInUse is returned when the email already belongs to another
	// directory record.
	ErrEmailInUse = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailInUse,
		Description: "a user with this email already exists",
	}

	// ErrWeakPassword is returned by the setup flow when the password does
	// not meet the strength policy.
	ErrWeakPassword = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeWeakPassword,
		Description: "password does not meet the strength requirements",
	}

	// ErrAlreadyInitialized is returned when the setup flow runs against a
	// system that already has an owner.
	ErrAlreadyInitialized = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyInitialized,
		Description: "the system already has an owner",
	}

	// ErrOwnerProtected is returned when a role change targets the owner.
	ErrOwnerProtected = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeOwnerProtected,
		Description: "the owner role cannot be changed through this endpoint",
	}

	// ErrServerError is the catch-all for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrUnavailable is returned when the directory store cannot be reached.
	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "the service is temporarily unavailable",
	}
)
