package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides the domain-level log events
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogLogin records a sign-in attempt. Passwords never reach this method.
func (sl *StructuredLogger) LogLogin(ctx context.Context, login, clientIP string, err error) {
	fields := NewFields().
		WithOperation(OpLogin).
		WithComponent(ComponentAuth).
		WithClientIP(clientIP)
	fields[FieldLogin] = login
	fields[FieldSuccess] = err == nil

	if err != nil {
		sl.logger.Logger.WarnContext(ctx, "Sign-in failed", fields.WithError(err).ToSlice()...)
		return
	}
	sl.logger.Logger.InfoContext(ctx, "Sign-in succeeded", fields.ToSlice()...)
}

// LogProfileLoaded records a successful profile fetch
func (sl *StructuredLogger) LogProfileLoaded(ctx context.Context, login string, totalXP int64, projects, exercises int, cacheHit bool) {
	fields := NewFields().
		WithProfile(login, totalXP, projects, exercises).
		WithOperation(OpFetch).
		WithComponent(ComponentProfile)
	fields[FieldCacheHit] = cacheHit

	sl.logger.Logger.InfoContext(ctx, "Profile loaded", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.Logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
