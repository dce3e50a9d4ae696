// Package http serves the dashboard: the login and profile pages, the SVG
// chart partials the page refetches on resize, and a JSON view of the same
// data.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"xpdash/internal/log"
	"xpdash/internal/middleware/ratelimit"
	"xpdash/internal/middleware/security"
	"xpdash/internal/middleware/trace"
	"xpdash/internal/platform"
	"xpdash/internal/services"
	"xpdash/internal/session"
	appweb "xpdash/web"
)

// Authenticator exchanges credentials for a platform token.
type Authenticator interface {
	SignIn(ctx context.Context, login, password string) (platform.Token, error)
}

// DashboardProvider builds dashboards and forgets cached profiles.
type DashboardProvider interface {
	Dashboard(ctx context.Context, sess session.Session, width, height int, parts services.Part) (services.Dashboard, error)
	Invalidate(sessionID string)
}

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Options struct {
	Addr         string
	CookieSecure bool
	SessionTTL   time.Duration
	ChartWidth   int
	ChartHeight  int
}

type Deps struct {
	Auth         Authenticator
	Profiles     DashboardProvider
	Sessions     session.Store
	Logger       *log.Logger
	LoginLimiter *ratelimit.Limiter
	Detector     *security.Detector
	ReadyChecks  map[string]ReadyCheck
}

type Server struct {
	http.Server
	opts      Options
	deps      Deps
	templates *template.Template
	logger    *log.Logger
	events    *log.StructuredLogger
	now       func() time.Time

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires every route. A template
// parse failure is returned since no page could render without them.
func NewServer(opts Options, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	if deps.Detector == nil {
		deps.Detector = security.NewDetector()
	}
	if deps.LoginLimiter == nil {
		deps.LoginLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	logger := deps.Logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		opts:      opts,
		deps:      deps,
		templates: t,
		logger:    logger,
		events:    log.NewStructuredLogger(deps.Logger.WithComponent(log.ComponentAuth)),
		now:       time.Now,
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	page := func(h http.HandlerFunc) http.Handler { return security.NoStore(h) }
	loginLimit := deps.LoginLimiter.Middleware(deps.Detector.ExtractClientIP, s.handleLoginLimited)

	mux.Handle("GET /{$}", page(s.handleIndex))
	mux.Handle("POST /login", loginLimit(page(s.handleLogin)))
	mux.Handle("POST /logout", page(s.handleLogout))
	mux.Handle("GET /ui/charts/projects", page(s.handleProjectsChart))
	mux.Handle("GET /ui/charts/exercises", page(s.handleExercisesChart))
	mux.Handle("GET /api/dashboard", page(s.handleDashboardAPI))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(deps.Logger, deps.Detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracer.Middleware(s.flagSuspicious(headers.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// flagSuspicious logs probing requests; they are still served normally.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.deps.Detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the login limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.deps.LoginLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, check := range s.deps.ReadyChecks {
		if err := check(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "check", name, log.FieldError, err.Error())
			http.Error(w, "not ready: "+name, http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
