package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the claims carried by an access token.
type Claims struct {
	AccountID uuid.UUID `json:"-"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies signed, time-bounded bearer tokens.
type TokenService interface {
	// Issue creates a signed token for the account.
	Issue(accountID uuid.UUID) (string, error)

	// Verify checks signature and expiry and returns the account the token was issued to.
	// It returns domain errors ErrTokenExpired or ErrTokenInvalid.
	Verify(token string) (uuid.UUID, error)

	// TTL returns the lifetime of issued tokens.
	TTL() time.Duration
}
