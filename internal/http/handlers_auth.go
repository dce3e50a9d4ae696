package http

import (
	"errors"
	"net/http"
	"time"

	"xpdash/internal/log"
	"xpdash/internal/platform"
	"xpdash/internal/services"
	"xpdash/internal/session"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgSignInUnavailable  = "Sign-in is unavailable right now. Please try again."
	msgTooManyAttempts    = "Too many sign-in attempts. Please wait a minute."
	msgSessionExpired     = "Your session has expired. Please sign in again."
	msgProfileError       = "Error loading profile."
)

type loginPage struct {
	Login string
	Error string
}

// handleIndex shows the dashboard for a valid session and the login page
// otherwise.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		s.render(w, r, http.StatusOK, "login.html", loginPage{})
		return
	}

	d, err := s.deps.Profiles.Dashboard(r.Context(), sess, s.opts.ChartWidth, s.opts.ChartHeight, services.PageParts)
	if clientGone(r, err) {
		return
	}
	if errors.Is(err, platform.ErrUnauthorized) {
		s.dropSession(w, r, sess)
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{Login: sess.Login, Error: msgSessionExpired})
		return
	}
	if err != nil {
		s.logUpstreamError(r, "Dashboard load failed", err)
		s.render(w, r, http.StatusBadGateway, "dashboard.html", dashboardPage{Login: sess.Login, Error: msgProfileError})
		return
	}

	s.render(w, r, http.StatusOK, "dashboard.html", dashboardPage{Login: sess.Login, Dashboard: d})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := parseLoginForm(w, r)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", loginPage{Error: msgInvalidCredentials})
		return
	}

	clientIP := s.deps.Detector.ExtractClientIP(r)
	tok, err := s.deps.Auth.SignIn(r.Context(), form.Login, form.Password)
	s.events.LogLogin(r.Context(), form.Login, clientIP, err)

	switch {
	case errors.Is(err, platform.ErrInvalidCredentials):
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{Login: form.Login, Error: msgInvalidCredentials})
		return
	case err != nil:
		s.render(w, r, http.StatusBadGateway, "login.html", loginPage{Login: form.Login, Error: msgSignInUnavailable})
		return
	}

	now := s.now()
	ttl := tok.Lifetime(now, s.opts.SessionTTL)
	if ttl <= 0 {
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{Login: form.Login, Error: msgInvalidCredentials})
		return
	}

	sess, err := session.New(tok.Raw, form.Login, tok.UserID(), now, ttl)
	if err == nil {
		err = s.deps.Sessions.Put(r.Context(), sess)
	}
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to store session", log.FieldError, err.Error())
		s.render(w, r, http.StatusInternalServerError, "login.html", loginPage{Login: form.Login, Error: msgSignInUnavailable})
		return
	}

	log.FromContext(r.Context()).WithComponent(log.ComponentSession).DebugContext(r.Context(), "Session created",
		log.FieldLogin, sess.Login,
		log.FieldUserID, sess.UserID,
		"expires_at", sess.ExpiresAt)

	http.SetCookie(w, s.sessionCookie(sess.ID, sess.ExpiresAt))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLoginLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Login rate limit exceeded",
		log.FieldClientIP, s.deps.Detector.ExtractClientIP(r))
	s.render(w, r, http.StatusTooManyRequests, "login.html", loginPage{Error: msgTooManyAttempts})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.currentSession(r); ok {
		s.dropSession(w, r, sess)
		log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "Signed out",
			log.FieldLogin, sess.Login,
			log.FieldOperation, log.OpLogout)
	} else {
		http.SetCookie(w, s.sessionCookie("", time.Time{}))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentSession resolves the session cookie. Unknown, expired and
// unreadable sessions all mean signed out.
func (s *Server) currentSession(r *http.Request) (session.Session, bool) {
	c, err := r.Cookie(session.CookieName)
	if err != nil || c.Value == "" {
		return session.Session{}, false
	}
	sess, err := s.deps.Sessions.Get(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSession).WarnContext(r.Context(), "Session lookup failed",
				log.FieldError, err.Error())
		}
		return session.Session{}, false
	}
	return sess, true
}

// dropSession deletes the session, its cached profile and the cookie.
func (s *Server) dropSession(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := s.deps.Sessions.Delete(r.Context(), sess.ID); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentSession).WarnContext(r.Context(), "Session delete failed",
			log.FieldError, err.Error())
	}
	s.deps.Profiles.Invalidate(sess.ID)
	http.SetCookie(w, s.sessionCookie("", time.Time{}))
}

// sessionCookie builds the session cookie; an empty value clears it.
func (s *Server) sessionCookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else {
		c.Expires = expires
	}
	return c
}
