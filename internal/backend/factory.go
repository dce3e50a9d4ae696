package backend

import (
	"context"
	"fmt"
	"log/slog"

	"xpdash/internal/cache"
	"xpdash/internal/session"
)

// DefaultFactory implements Factory. Memory stores are registered with the
// cache manager, when one is given, so expired sessions get swept.
type DefaultFactory struct {
	logger   *slog.Logger
	cacheMgr *cache.Manager
}

func NewFactory(logger *slog.Logger, cacheMgr *cache.Manager) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, cacheMgr: cacheMgr}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RedisBackend:
		return f.createRedisBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := session.NewRedisStore(ctx, config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis session store: %w", err)
	}

	f.logger.Info("Initialized redis session backend")

	return &Result{
		Store:   store,
		Cleanup: store.Close,
		Ping:    store.Ping,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	maxSessions := config.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	store := session.NewMemoryStore(maxSessions, config.SessionTTL)
	if f.cacheMgr != nil {
		f.cacheMgr.Register("sessions", store.Cache())
	}

	f.logger.Info("Initialized memory session backend", "max_sessions", maxSessions, "ttl", config.SessionTTL)

	return &Result{Store: store}, nil
}
