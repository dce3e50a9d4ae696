// Package session keeps the platform token of a signed-in user server-side,
// keyed by an opaque random ID stored in the browser cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// CookieName is the cookie that carries the session ID.
const CookieName = "xpdash_session"

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Login     string    `json:"login"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TTL is the time left before expiry, never negative.
func (s Session) TTL(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Store persists sessions. Get returns ErrNotFound for unknown or expired IDs.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

// NewID returns 32 random bytes, hex encoded.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// New builds a session for token that lives for ttl from now.
func New(token, login string, userID int64, now time.Time, ttl time.Duration) (Session, error) {
	id, err := NewID()
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:        id,
		Token:     token,
		Login:     login,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
