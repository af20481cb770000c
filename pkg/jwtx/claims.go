// Package jwtx verifies the identity tokens minted by the company identity
// provider. The intranet backend never mints end-user tokens itself; it
// only needs to check a bearer token and pull the identity descriptor out
// of it.
package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims

	/* Cross-service custom fields */

	// Email the identity provider verified for this account.
	Email string `json:"email,omitempty"`

	// DisplayName is the human-readable name shown across the intranet.
	DisplayName string `json:"display_name,omitempty"`
}

// NewIdentityClaims builds minimally-correct claims. Used by tests and the
// dev token tool; production tokens come from the identity provider.
func NewIdentityClaims(
	subject, email, displayName string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		DisplayName: displayName,
	}
}

// ValidateExpiry checks exp/nbf against the current time.
func (c Claims) ValidateExpiry() error {
	now := time.Now()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
