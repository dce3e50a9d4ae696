package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAuthEndpoint    = "https://01.gritlab.ax/api/auth/signin"
	DefaultGraphQLEndpoint = "https://01.gritlab.ax/api/graphql-engine/v1/graphql"
)

type Config struct {
	// HTTP Server
	Port         string
	CookieSecure bool
	LogLevel     string

	// Platform
	AuthEndpoint    string
	GraphQLEndpoint string
	UpstreamTimeout time.Duration

	// Sessions
	SessionBackend string
	SessionTTL     time.Duration
	RedisURL       string

	// Profile cache
	ProfileCacheSize int
	ProfileCacheTTL  time.Duration

	// Charts
	ChartWidth  int
	ChartHeight int

	// Login rate limit
	LoginRatePerMinute int

	// CIDRs whose X-Forwarded-For is trusted
	TrustedProxies []string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Snapshot worker
	SQLiteDBPath      string
	SnapshotRetention time.Duration
	PruneSchedule     string

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		AuthEndpoint:    getEnv("AUTH_ENDPOINT", DefaultAuthEndpoint),
		GraphQLEndpoint: getEnv("GRAPHQL_ENDPOINT", DefaultGraphQLEndpoint),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		RedisURL:       getEnv("REDIS_URL", ""),

		ProfileCacheSize: getEnvInt("PROFILE_CACHE_SIZE", 200),
		ProfileCacheTTL:  getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),

		ChartWidth:  getEnvInt("CHART_WIDTH", 1000),
		ChartHeight: getEnvInt("CHART_HEIGHT", 400),

		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "xpdash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "profile_snapshots"),

		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/xpdash.db"),
		SnapshotRetention: getEnvDuration("SNAPSHOT_RETENTION", 90*24*time.Hour),
		PruneSchedule:     getEnv("PRUNE_SCHEDULE", "@hourly"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Snapshots"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	for name, raw := range map[string]string{"auth endpoint": c.AuthEndpoint, "GraphQL endpoint": c.GraphQLEndpoint} {
		if u, err := url.Parse(raw); err != nil || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be an absolute URL", name, raw))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid %s scheme '%s': must be 'http' or 'https'", name, u.Scheme))
		}
	}

	if c.UpstreamTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid upstream timeout %v: must be at least 1 second", c.UpstreamTimeout))
	}

	validBackends := []string{"memory", "redis"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SessionBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}
	if c.SessionBackend == "redis" && c.RedisURL == "" {
		errors = append(errors, "REDIS_URL is required when using redis session backend")
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if c.ProfileCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid profile cache size %d: must be at least 1", c.ProfileCacheSize))
	}
	if c.ProfileCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid profile cache TTL %v: must not be negative", c.ProfileCacheTTL))
	}

	if c.ChartWidth < 100 || c.ChartWidth > 4000 {
		errors = append(errors, fmt.Sprintf("invalid chart width %d: must be between 100 and 4000", c.ChartWidth))
	}
	if c.ChartHeight < 100 || c.ChartHeight > 4000 {
		errors = append(errors, fmt.Sprintf("invalid chart height %d: must be between 100 and 4000", c.ChartHeight))
	}

	if c.LoginRatePerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid login rate %d: must be at least 1 per minute", c.LoginRatePerMinute))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the settings only the snapshot worker needs.
func (c *Config) ValidateWorker() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the snapshot worker")
	}
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}
	if c.SnapshotRetention < time.Hour {
		errors = append(errors, fmt.Sprintf("invalid snapshot retention %v: must be at least 1 hour", c.SnapshotRetention))
	}
	if strings.TrimSpace(c.PruneSchedule) == "" {
		errors = append(errors, "prune schedule cannot be empty")
	}
	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errors = append(errors, "Google Sheet name is required when a spreadsheet ID is provided")
	}

	if len(errors) > 0 {
		return fmt.Errorf("worker configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
