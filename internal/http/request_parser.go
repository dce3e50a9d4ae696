package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const maxFormBytes = 16 << 10

var errMissingCredentials = errors.New("missing login or password")

type loginForm struct {
	Login    string
	Password string
}

// parseLoginForm reads the sign-in form. The password is taken verbatim.
func parseLoginForm(w http.ResponseWriter, r *http.Request) (loginForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return loginForm{}, err
	}

	f := loginForm{
		Login:    sanitizeInput(r.PostForm.Get("login")),
		Password: r.PostForm.Get("password"),
	}
	if f.Login == "" || f.Password == "" {
		return f, errMissingCredentials
	}
	return f, nil
}

// parseDimensions reads the w and h query parameters, falling back to the
// defaults when absent or not a positive integer. Bounds are applied later
// by the profile service.
func parseDimensions(r *http.Request, defaultW, defaultH int) (int, int) {
	return positiveInt(r.URL.Query().Get("w"), defaultW), positiveInt(r.URL.Query().Get("h"), defaultH)
}

func positiveInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	// container sizes may arrive as fractional pixels
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < 1e6 {
		return int(f)
	}
	return def
}

// sanitizeInput trims whitespace and drops control characters.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
