package platform

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is the bearer credential issued at sign-in. Raw is passed through
// untouched; Subject and ExpiresAt are read from the JWT payload without
// verifying the signature, only to size the local session.
type Token struct {
	Raw       string
	Subject   string
	ExpiresAt time.Time
}

// hasuraClaims is the claim namespace the platform's GraphQL engine uses.
type hasuraClaims struct {
	UserID string `json:"x-hasura-user-id"`
}

type platformClaims struct {
	jwt.RegisteredClaims
	Hasura hasuraClaims `json:"https://hasura.io/jwt/claims"`
}

// ParseToken extracts the subject and expiry when raw is a JWT. Opaque or
// malformed tokens are kept as-is with zero metadata.
func ParseToken(raw string) Token {
	t := Token{Raw: raw}

	var claims platformClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return t
	}

	t.Subject = claims.Subject
	if t.Subject == "" {
		t.Subject = claims.Hasura.UserID
	}
	if claims.ExpiresAt != nil {
		t.ExpiresAt = claims.ExpiresAt.Time
	}
	return t
}

// UserID returns the numeric subject, or 0 when it is absent or not a number.
func (t Token) UserID() int64 {
	id, err := strconv.ParseInt(t.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Lifetime returns how long a session holding the token may live: the time
// left until expiry, capped at max. Tokens without expiry get max.
func (t Token) Lifetime(now time.Time, max time.Duration) time.Duration {
	if t.ExpiresAt.IsZero() {
		return max
	}
	left := t.ExpiresAt.Sub(now)
	if left > max {
		return max
	}
	if left < 0 {
		return 0
	}
	return left
}
