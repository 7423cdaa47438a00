package services

import (
	"fmt"
	"time"

	"fitfinder-backend/internal/clock"
	fitfinder_errors "fitfinder-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and verifies stateless session tokens. Tokens are not
// stored anywhere, so a token stays valid until it expires.
type TokenIssuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenIssuer(secret, algorithm string, ttl time.Duration, clk clock.Clock) (*TokenIssuer, error) {
	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if clk == nil {
		clk = clock.New()
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		clock:  clk,
	}, nil
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a token for subject that expires ttl after now.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := i.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the token subject.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fitfinder_errors.ErrNotAuthenticated
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fitfinder_errors.ErrInvalidCredentials
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{i.method.Alg()}),
	)
	if err != nil {
		return "", fitfinder_errors.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", fitfinder_errors.ErrInvalidCredentials
	}
	return claims.Subject, nil
}
