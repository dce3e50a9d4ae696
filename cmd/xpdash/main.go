package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"xpdash/internal/amqp"
	"xpdash/internal/backend"
	"xpdash/internal/cache"
	"xpdash/internal/cli"
	apphttp "xpdash/internal/http"
	"xpdash/internal/log"
	"xpdash/internal/middleware/ratelimit"
	"xpdash/internal/middleware/security"
	"xpdash/internal/platform"
	"xpdash/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	cacheMgr := cache.NewManager()
	defer cacheMgr.Stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid session backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger, cacheMgr).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize session backend", log.FieldError, err.Error(), "backend", backendCfg.Type.String())
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Session backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	// Snapshot publishing is optional; the dashboard works without a broker.
	var publisher services.SnapshotPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, snapshots will not be published", log.FieldError, err.Error())
		} else {
			publisher = amqpClient
			defer amqpClient.Close()
		}
	}

	auth := platform.NewAuthenticator(cfg.AuthEndpoint, nil, cfg.UpstreamTimeout)
	gql := platform.NewGraphQLClient(cfg.GraphQLEndpoint, nil, cfg.UpstreamTimeout)
	profiles := services.NewProfileService(gql, publisher, cfg.ProfileCacheSize, cfg.ProfileCacheTTL)
	profiles.SetFetchTimeout(cfg.UpstreamTimeout)
	cacheMgr.Register("profiles", profiles.Cache())
	cacheMgr.StartCleanup(time.Minute)

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Error("Invalid trusted proxy", "cidr", cidr, log.FieldError, err.Error())
			os.Exit(1)
		}
	}

	readyChecks := map[string]apphttp.ReadyCheck{}
	if result.Ping != nil {
		readyChecks["sessions"] = result.Ping
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:         ":" + cfg.Port,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
		ChartWidth:   cfg.ChartWidth,
		ChartHeight:  cfg.ChartHeight,
	}, apphttp.Deps{
		Auth:         auth,
		Profiles:     profiles,
		Sessions:     result.Store,
		Logger:       logger,
		LoginLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.LoginRatePerMinute}),
		Detector:     detector,
		ReadyChecks:  readyChecks,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err.Error())
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	})

	logger.Info("Starting xpdash server",
		"port", cfg.Port,
		"session_backend", backendCfg.Type.String(),
		"snapshots", publisher != nil,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully", "suspicious_requests", detector.SuspiciousCount())
}
