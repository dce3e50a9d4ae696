// Package platform talks to the learning platform: the sign-in endpoint that
// issues bearer tokens and the GraphQL engine that serves profile data.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"xpdash/internal/log"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("token rejected by platform")
	ErrEmptyToken         = errors.New("empty token in sign-in response")
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Authenticator exchanges credentials for a bearer token.
type Authenticator struct {
	endpoint string
	client   *http.Client
}

// NewAuthenticator returns an Authenticator for the sign-in endpoint.
// A nil client gets a default one with the given timeout.
func NewAuthenticator(endpoint string, client *http.Client, timeout time.Duration) *Authenticator {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Authenticator{endpoint: endpoint, client: client}
}

// SignIn posts Basic credentials and returns the issued token. Any non-2xx
// answer is reported as ErrInvalidCredentials.
func (a *Authenticator) SignIn(ctx context.Context, login, password string) (Token, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return Token{}, ErrInvalidCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, nil)
	if err != nil {
		return Token{}, fmt.Errorf("build sign-in request: %w", err)
	}
	req.SetBasicAuth(login, password)

	resp, err := a.client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Token{}, fmt.Errorf("read sign-in response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.FromContext(ctx).WithComponent(log.ComponentAuth).DebugContext(ctx, "Sign-in rejected",
			log.FieldStatusCode, resp.StatusCode,
			log.FieldLogin, login)
		return Token{}, ErrInvalidCredentials
	}

	raw, err := decodeToken(body)
	if err != nil {
		return Token{}, err
	}
	return ParseToken(raw), nil
}

// decodeToken accepts either a bare JSON string or {"token": "..."}.
func decodeToken(body []byte) (string, error) {
	body = bytes.TrimSpace(body)

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		if s = strings.TrimSpace(s); s == "" {
			return "", ErrEmptyToken
		}
		return s, nil
	}

	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("decode sign-in response: %w", err)
	}
	if strings.TrimSpace(obj.Token) == "" {
		return "", ErrEmptyToken
	}
	return strings.TrimSpace(obj.Token), nil
}
