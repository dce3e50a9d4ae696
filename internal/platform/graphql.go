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

	"xpdash/internal/core"
	"xpdash/internal/log"
)

var (
	ErrQueryFailed = errors.New("profile query failed")
	ErrNoUser      = errors.New("profile query returned no user")
)

// ProfileQuery fetches the user, the chartable XP history and the
// pre-aggregated XP sums in one round trip.
const ProfileQuery = `{
  userInfo: user {
    id
    campus
    login
    email
    firstName
    lastName
    totalUp
    totalUpBonus
    totalDown
  }
  xpTransactions: transaction(
    where: {type: {_eq: "xp"}, _and: [{object: {type: {_neq: "piscine"}}}, {path: {_nlike: "%piscine-js/%"}}, {path: {_nlike: "%checkpoint%"}}]}
    order_by: {createdAt: asc}
  ) {
    amount
    path
    object {
      type
      name
    }
    createdAt
  }
  xpTotal: transaction_aggregate(where: {type: {_eq: "xp"}}) {
    aggregate { sum { amount } }
  }
  xpSchool: transaction_aggregate(where: {type: {_eq: "xp"}, path: {_nlike: "%piscine%"}}) {
    aggregate { sum { amount } }
  }
  xpPiscineGo: transaction_aggregate(where: {type: {_eq: "xp"}, path: {_like: "%/piscine-go/%"}}) {
    aggregate { sum { amount } }
  }
  xpPiscineJS: transaction_aggregate(where: {type: {_eq: "xp"}, path: {_like: "%/piscine-js/%"}}) {
    aggregate { sum { amount } }
  }
}`

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

// QueryError carries the errors array of a failed query.
type QueryError struct {
	Errors []GraphQLError
}

func (e *QueryError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return fmt.Sprintf("%s: %s", ErrQueryFailed, strings.Join(msgs, "; "))
}

func (e *QueryError) Unwrap() error { return ErrQueryFailed }

// GraphQLClient runs the profile query against the GraphQL engine.
type GraphQLClient struct {
	endpoint string
	client   *http.Client
}

// NewGraphQLClient returns a client for endpoint. A nil client gets a
// default one with the given timeout.
func NewGraphQLClient(endpoint string, client *http.Client, timeout time.Duration) *GraphQLClient {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &GraphQLClient{endpoint: endpoint, client: client}
}

type aggregateSum struct {
	Aggregate struct {
		Sum struct {
			Amount *int64 `json:"amount"`
		} `json:"sum"`
	} `json:"aggregate"`
}

func (a aggregateSum) value() int64 {
	if a.Aggregate.Sum.Amount == nil {
		return 0
	}
	return *a.Aggregate.Sum.Amount
}

type profileData struct {
	UserInfo       []core.UserInfo    `json:"userInfo"`
	XPTransactions []core.Transaction `json:"xpTransactions"`
	XPTotal        aggregateSum       `json:"xpTotal"`
	XPSchool       aggregateSum       `json:"xpSchool"`
	XPPiscineGo    aggregateSum       `json:"xpPiscineGo"`
	XPPiscineJS    aggregateSum       `json:"xpPiscineJS"`
}

type graphQLResponse struct {
	Data   *profileData   `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// FetchProfile runs ProfileQuery with the bearer token. It does not retry.
func (c *GraphQLClient) FetchProfile(ctx context.Context, token string) (core.Profile, error) {
	payload, err := json.Marshal(map[string]string{"query": ProfileQuery})
	if err != nil {
		return core.Profile{}, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return core.Profile{}, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return core.Profile{}, fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return core.Profile{}, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.Profile{}, fmt.Errorf("%w: upstream status %d", ErrQueryFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return core.Profile{}, fmt.Errorf("read query response: %w", err)
	}

	var out graphQLResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return core.Profile{}, fmt.Errorf("%w: decode response: %v", ErrQueryFailed, err)
	}
	if len(out.Errors) > 0 {
		log.FromContext(ctx).WithComponent(log.ComponentGraphQL).WarnContext(ctx, "Profile query returned errors",
			"count", len(out.Errors),
			"first", out.Errors[0].Message)
		if isJWTError(out.Errors) {
			return core.Profile{}, ErrUnauthorized
		}
		return core.Profile{}, &QueryError{Errors: out.Errors}
	}
	if out.Data == nil || len(out.Data.UserInfo) == 0 {
		return core.Profile{}, ErrNoUser
	}

	p := core.Profile{
		User:         out.Data.UserInfo[0],
		Transactions: out.Data.XPTransactions,
		Totals: core.XPTotals{
			Total:     out.Data.XPTotal.value(),
			School:    out.Data.XPSchool.value(),
			PiscineGo: out.Data.XPPiscineGo.value(),
			PiscineJS: out.Data.XPPiscineJS.value(),
		},
	}
	if err := p.Validate(); err != nil {
		return core.Profile{}, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return p, nil
}

// isJWTError spots the engine's answer to an expired or invalid token,
// which arrives as a 200 with an errors array.
func isJWTError(errs []GraphQLError) bool {
	for _, e := range errs {
		m := strings.ToLower(e.Message)
		if strings.Contains(m, "jwt") || strings.Contains(m, "jwserror") {
			return true
		}
	}
	return false
}
