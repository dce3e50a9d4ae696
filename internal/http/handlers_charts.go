package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"xpdash/internal/platform"
	"xpdash/internal/services"
	"xpdash/internal/session"
)

type dashboardPage struct {
	Login     string
	Error     string
	Dashboard services.Dashboard
}

func (s *Server) handleProjectsChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, services.PartProjectsSVG, func(d services.Dashboard) template.HTML { return d.ProjectsSVG })
}

func (s *Server) handleExercisesChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, services.PartExercisesSVG, func(d services.Dashboard) template.HTML { return d.ExercisesSVG })
}

// serveChart answers a partial request with the chart recomputed for the
// caller's container size. Only the requested chart is rendered.
func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, part services.Part, pick func(services.Dashboard) template.HTML) {
	d, ok := s.dashboardFor(w, r, part, false)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	_, _ = w.Write([]byte(pick(d)))
}

func (s *Server) handleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dashboardFor(w, r, services.PartGeometry, true)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

// dashboardFor loads the dashboard at the requested size for partial and
// API requests, writing the error response itself when it returns false.
func (s *Server) dashboardFor(w http.ResponseWriter, r *http.Request, parts services.Part, asJSON bool) (services.Dashboard, bool) {
	sess, ok := s.currentSession(r)
	if !ok {
		s.writeFailure(w, r, asJSON, http.StatusUnauthorized, "Not signed in.")
		return services.Dashboard{}, false
	}

	width, height := parseDimensions(r, s.opts.ChartWidth, s.opts.ChartHeight)
	d, err := s.deps.Profiles.Dashboard(r.Context(), sess, width, height, parts)
	switch {
	case clientGone(r, err):
		return services.Dashboard{}, false
	case errors.Is(err, platform.ErrUnauthorized):
		s.dropSession(w, r, sess)
		s.writeFailure(w, r, asJSON, http.StatusUnauthorized, msgSessionExpired)
		return services.Dashboard{}, false
	case err != nil:
		s.logUpstreamError(r, "Dashboard load failed", err)
		s.writeFailure(w, r, asJSON, http.StatusBadGateway, msgProfileError)
		return services.Dashboard{}, false
	}
	return d, true
}

// clientGone reports a load abandoned because the request itself was
// cancelled. Nobody is left to read a response.
func clientGone(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) && r.Context().Err() != nil
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, asJSON bool, status int, msg string) {
	if asJSON {
		writeJSON(w, r, status, map[string]string{"error": msg})
		return
	}
	writeErrorFragment(w, status, msg)
}

// sessionLogin is a convenience for log lines that may have no session.
func sessionLogin(sess session.Session) string {
	if sess.Login == "" {
		return "anonymous"
	}
	return sess.Login
}
