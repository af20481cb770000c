package cryptox

import (
	"errors"
	"unicode"
)

// MinPasswordLength applies to the manual owner-setup flow only; everyday
// sign-in is handled by the external identity provider.
const MinPasswordLength = 12

var ErrWeakPassword = errors.New("cryptox: password does not meet strength requirements")

// CheckStrength validates that a credential is long enough and mixes
// character classes. Returns ErrWeakPassword when it does not.
func CheckStrength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
