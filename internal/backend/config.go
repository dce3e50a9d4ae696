package backend

import (
	"fmt"
	"time"

	"xpdash/internal/config"
)

// defaultMaxSessions bounds the memory store.
const defaultMaxSessions = 10000

// Config holds what the factory needs to build a session store.
type Config struct {
	Type BackendType

	// Memory
	MaxSessions int
	SessionTTL  time.Duration

	// Redis
	RedisURL string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	bt := BackendType(appConfig.SessionBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid session backend in config: %s", appConfig.SessionBackend)
	}

	return Config{
		Type:        bt,
		MaxSessions: defaultMaxSessions,
		SessionTTL:  appConfig.SessionTTL,
		RedisURL:    appConfig.RedisURL,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type %q: must be one of %v", c.Type, GetBackendTypeStrings())
	}

	switch c.Type {
	case RedisBackend:
		if c.RedisURL == "" {
			return fmt.Errorf("redis URL is required for redis backend")
		}
	case MemoryBackend:
		if c.SessionTTL <= 0 {
			return fmt.Errorf("session TTL must be positive for memory backend")
		}
	}
	return nil
}

// GetBackendTypeStrings returns all valid backend type strings.
func GetBackendTypeStrings() []string {
	return []string{MemoryBackend.String(), RedisBackend.String()}
}
