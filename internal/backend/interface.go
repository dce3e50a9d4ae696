// Package backend builds the session store selected by configuration.
package backend

import (
	"context"

	"xpdash/internal/session"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the session store and an optional cleanup function.
type Result struct {
	Store   session.Store
	Cleanup CleanupFunc
	// Ping reports backend health for /readyz. Nil means always ready.
	Ping func(ctx context.Context) error
}

// Factory creates session stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// BackendType names a session store implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	RedisBackend  BackendType = "redis"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, RedisBackend:
		return true
	default:
		return false
	}
}
