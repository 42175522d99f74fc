package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("super-secret", time.Hour)

	raw, err := issuer.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	userID, err := issuer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("super-secret", time.Hour).WithNow(func() time.Time { return issued })

	raw, err := issuer.Issue(42)
	require.NoError(t, err)

	issuer.WithNow(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = issuer.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("secret-one", time.Hour).Issue(42)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-two", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("super-secret", time.Hour)
	_, err := issuer.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
