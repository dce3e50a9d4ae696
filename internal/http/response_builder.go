package http

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"xpdash/internal/log"
)

// render executes a named template into a buffer first so a template error
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			"template", name,
			log.FieldOperation, log.OpRender,
			log.FieldError, err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "JSON encoding failed", log.FieldError, err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeErrorFragment answers a partial request with a small HTML message
// the page swaps in place of the chart.
func writeErrorFragment(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<p class="chart-error">` + template.HTMLEscapeString(msg) + `</p>`))
}

func (s *Server) logUpstreamError(r *http.Request, msg string, err error) {
	sess, _ := s.currentSession(r)
	log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), msg, err,
		log.ComponentProfile, log.OpFetch, log.NewFields().
			WithClientIP(s.deps.Detector.ExtractClientIP(r)).
			WithErrorType(log.ErrorTypeUpstream).
			With(log.FieldLogin, sessionLogin(sess)))
}
