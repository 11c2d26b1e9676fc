// Package strava exposes the Strava v3 REST API as MCP tools and resources.
package strava

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/fetch"
)

// Client is an authenticated Strava client for the token owner.
// Build one per invocation and Close it when done.
type Client struct {
	api  *fetch.Client
	base *http.Transport
}

// TokenSource returns a static bearer source, or a refreshing one when the
// OAuth2 client credentials and a refresh token are configured.
func TokenSource(ctx context.Context, cfg config.Config) (oauth2.TokenSource, error) {
	s := cfg.Strava
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.CanRefresh() {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.AccessToken, TokenType: "Bearer"}), nil
	}
	conf := &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  s.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.HTTPTimeout})
	// The configured access token has no known expiry and Strava ones last
	// hours, so it is not seeded: the first request always refreshes.
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: s.RefreshToken}), nil
}

// NewClient fails with a configuration error when no usable credential is set.
func NewClient(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Client, error) {
	ts, err := TokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	api := fetch.NewClient("strava", cfg.Strava.BaseURL, cfg.HTTPTimeout)
	api.HTTP.Transport = &oauth2.Transport{Source: ts, Base: base}
	api.UserAgent = cfg.UserAgent
	if logger != nil {
		api.Logger = logger
	}
	return &Client{api: api, base: base}, nil
}

// Close releases the underlying connections.
func (c *Client) Close() { c.base.CloseIdleConnections() }

// tokenError surfaces a failed token refresh as the status the token
// endpoint answered with, so a revoked refresh token reads as unauthorized.
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		se := &apierr.StatusError{Method: http.MethodPost, Status: re.Response.StatusCode, Body: string(re.Body)}
		if re.Response.Request != nil {
			se.Path = re.Response.Request.URL.Path
		}
		return se
	}
	return err
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	if err := c.api.GetJSON(ctx, path, q, out); err != nil {
		return fmt.Errorf("%s: %w", op, tokenError(err))
	}
	return nil
}

// Athlete fetches the authenticated athlete.
func (c *Client) Athlete(ctx context.Context) (*Athlete, error) {
	var out Athlete
	if err := c.get(ctx, "get athlete", "/athlete", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuery pages through the athlete's activities. Zero bounds are not sent.
type ListQuery struct {
	PerPage int
	Page    int
	After   time.Time
	Before  time.Time
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if !q.After.IsZero() {
		v.Set("after", strconv.FormatInt(q.After.Unix(), 10))
	}
	if !q.Before.IsZero() {
		v.Set("before", strconv.FormatInt(q.Before.Unix(), 10))
	}
	return v
}

// Activities lists the athlete's activities, newest first.
func (c *Client) Activities(ctx context.Context, q ListQuery) ([]Activity, error) {
	out := []Activity{}
	if err := c.get(ctx, "get activities", "/athlete/activities", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Activity fetches one activity in its detailed representation.
func (c *Client) Activity(ctx context.Context, id int64) (*DetailedActivity, error) {
	var out *DetailedActivity
	op := fmt.Sprintf("get activity %d", id)
	if err := c.get(ctx, op, fmt.Sprintf("/activities/%d", id), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%s: %w: empty response", op, apierr.ErrNotFound)
	}
	return out, nil
}

// AthleteStats fetches the totals of athlete id. Strava only serves the stats
// of the authenticated athlete.
func (c *Client) AthleteStats(ctx context.Context, id int64) (*AthleteStats, error) {
	var out AthleteStats
	if err := c.get(ctx, "get athlete stats", fmt.Sprintf("/athletes/%d/stats", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Streams fetches the requested stream types of one activity keyed by type.
func (c *Client) Streams(ctx context.Context, id int64, keys []string) (StreamSet, error) {
	q := url.Values{"key_by_type": {"true"}}
	if len(keys) > 0 {
		q.Set("keys", strings.Join(keys, ","))
	}
	out := StreamSet{}
	if err := c.get(ctx, fmt.Sprintf("get streams for %d", id), fmt.Sprintf("/activities/%d/streams", id), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterType keeps the activities of one type. An empty type keeps all.
func FilterType(activities []Activity, activityType string) []Activity {
	if activityType == "" {
		return activities
	}
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if a.Type == activityType {
			out = append(out, a)
		}
	}
	return out
}
