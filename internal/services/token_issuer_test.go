package services

import (
	"testing"
	"time"

	"fitfinder-backend/internal/clock"
	fitfinder_errors "fitfinder-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var issuedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestIssuer(t *testing.T, clk clock.Clock) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, "HS256", 60*time.Minute, clk)
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuerExpiryBoundary(t *testing.T) {
	clk := clock.NewMock(issuedAt)
	issuer := newTestIssuer(t, clk)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	clk.Set(issuedAt.Add(59 * time.Minute))
	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	clk.Set(issuedAt.Add(60*time.Minute - time.Second))
	_, err = issuer.Verify(token)
	assert.NoError(t, err)

	clk.Set(issuedAt.Add(60*time.Minute + time.Second))
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, fitfinder_errors.ErrInvalidCredentials)

	clk.Set(issuedAt.Add(61 * time.Minute))
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, fitfinder_errors.ErrInvalidCredentials)
}

func TestTokenIssuerClaims(t *testing.T) {
	clk := clock.NewMock(issuedAt)
	issuer := newTestIssuer(t, clk)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, err := issuer.Issue("alice")
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "jti makes every token unique")
}

func TestTokenIssuerRejectsForeignSignature(t *testing.T) {
	clk := clock.NewMock(issuedAt)
	issuer := newTestIssuer(t, clk)

	forger, err := NewTokenIssuer("ffffffffffffffffffffffffffffffff", "HS256", time.Hour, clk)
	require.NoError(t, err)
	forged, err := forger.Issue("alice")
	require.NoError(t, err)

	_, err = issuer.Verify(forged)
	assert.ErrorIs(t, err, fitfinder_errors.ErrInvalidCredentials)
}

func TestTokenIssuerRejectsNoneAlgorithm(t *testing.T) {
	clk := clock.NewMock(issuedAt)
	issuer := newTestIssuer(t, clk)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(unsigned)
	assert.ErrorIs(t, err, fitfinder_errors.ErrInvalidCredentials)
}

func TestTokenIssuerRejectsMissingSubject(t *testing.T) {
	clk := clock.NewMock(issuedAt)
	issuer := newTestIssuer(t, clk)

	token, err := issuer.Issue("")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, fitfinder_errors.ErrInvalidCredentials)
}

func TestTokenIssuerEmptyToken(t *testing.T) {
	issuer := newTestIssuer(t, clock.NewMock(issuedAt))
	_, err := issuer.Verify("")
	assert.ErrorIs(t, err, fitfinder_errors.ErrNotAuthenticated)
}

func TestNewTokenIssuerRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewTokenIssuer(testSecret, "RS256", time.Hour, nil)
	assert.Error(t, err)
}
