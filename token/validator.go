package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the client-readable fields embedded in a bearer token.
// They are advisory: the backend re-checks everything on each request.
type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

type rawClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Validate decodes tokenStr without verifying its signature and checks
// expiry against the wall clock. Malformed tokens, tokens without an exp
// claim, and expired tokens all yield ok == false. Validate never panics
// and has no side effects; callers clear storage themselves when invalid.
func Validate(tokenStr string) (Claims, bool) {
	return ValidateAt(tokenStr, time.Now())
}

// ValidateAt is Validate against an explicit clock.
func ValidateAt(tokenStr string, now time.Time) (Claims, bool) {
	if tokenStr == "" {
		return Claims{}, false
	}

	var raw rawClaims
	if _, _, err := parser.ParseUnverified(tokenStr, &raw); err != nil {
		return Claims{}, false
	}

	// A token the backend cannot expire is treated as malformed.
	if raw.ExpiresAt == nil {
		return Claims{}, false
	}
	if !raw.ExpiresAt.Time.After(now) {
		return Claims{}, false
	}

	claims := Claims{
		UserID:    raw.Subject,
		Role:      raw.Role,
		ExpiresAt: raw.ExpiresAt.Time,
	}
	if raw.IssuedAt != nil {
		claims.IssuedAt = raw.IssuedAt.Time
	}

	return claims, true
}
