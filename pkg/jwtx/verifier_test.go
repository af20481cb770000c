package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-0123456789")

func mintToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := SignHS256(claims, testSecret)
	require.NoError(t, err)
	return token
}

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	v := NewHS256Verifier(testSecret, "intranet-idp")
	claims := NewIdentityClaims(
		"user-123", "alice@example.com", "Alice",
		time.Minute, "intranet-idp", nil, time.Now(),
	)

	got, err := v.Verify(mintToken(t, claims))
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", got.DisplayName)
	require.NoError(t, got.ValidateExpiry())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	claims := NewIdentityClaims("u", "u@example.com", "U", time.Minute, "intranet-idp", nil, time.Now())
	token, err := SignHS256(claims, []byte("some-other-secret"))
	require.NoError(t, err)

	_, err = NewHS256Verifier(testSecret, "intranet-idp").Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	claims := NewIdentityClaims(
		"u", "u@example.com", "U",
		time.Minute, "intranet-idp", nil, time.Now().Add(-time.Hour),
	)

	_, err := NewHS256Verifier(testSecret, "intranet-idp").Verify(mintToken(t, claims))
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	claims := NewIdentityClaims("u", "u@example.com", "U", time.Minute, "rogue-issuer", nil, time.Now())

	_, err := NewHS256Verifier(testSecret, "intranet-idp").Verify(mintToken(t, claims))
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewHS256Verifier(testSecret, "intranet-idp").Verify("definitely.not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)
}
