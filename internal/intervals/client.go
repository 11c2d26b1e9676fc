// Package intervals exposes the intervals.icu REST API as MCP tools and resources.
package intervals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/dispatch"
	"github.com/aatrey56/fitness-mcp/internal/fetch"
)

// Client is an authenticated intervals.icu client bound to one athlete.
// Build one per invocation and Close it when done.
type Client struct {
	api       *fetch.Client
	athleteID string
}

// NewClient fails with a configuration error when the API key or athlete id
// is absent.
func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Intervals.Validate(); err != nil {
		return nil, err
	}
	api := fetch.NewClient("intervals", cfg.Intervals.BaseURL, cfg.HTTPTimeout)
	api.UserAgent = cfg.UserAgent
	api.Authorize = fetch.BasicAuth("API_KEY", cfg.Intervals.APIKey)
	if logger != nil {
		api.Logger = logger
	}
	return &Client{api: api, athleteID: cfg.Intervals.AthleteID}, nil
}

// AthleteID is the athlete every athlete-scoped call targets.
func (c *Client) AthleteID() string { return c.athleteID }

// Close releases the underlying connections.
func (c *Client) Close() { c.api.Close() }

func (c *Client) athletePath(format string, args ...any) string {
	return "/api/v1/athlete/" + url.PathEscape(c.athleteID) + fmt.Sprintf(format, args...)
}

func activityPath(id, suffix string) string {
	return "/api/v1/activity/" + url.PathEscape(id) + suffix
}

func setDate(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, t.Format(dispatch.DateLayout))
	}
}

// ActivityQuery filters an activity listing. Zero values are not sent.
type ActivityQuery struct {
	Limit  int
	Oldest time.Time
	Newest time.Time
	Type   string
	Text   string // search only
}

func (q ActivityQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	setDate(v, "oldest", q.Oldest)
	setDate(v, "newest", q.Newest)
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	return v
}

// Athlete fetches the athlete profile.
func (c *Client) Athlete(ctx context.Context) (*Athlete, error) {
	var out Athlete
	if err := c.api.GetJSON(ctx, c.athletePath(""), nil, &out); err != nil {
		return nil, fmt.Errorf("get athlete: %w", err)
	}
	return &out, nil
}

// Activities lists the athlete's activities.
func (c *Client) Activities(ctx context.Context, q ActivityQuery) ([]ActivitySummary, error) {
	q.Text = ""
	out := []ActivitySummary{}
	if err := c.api.GetJSON(ctx, c.athletePath("/activities"), q.values(), &out); err != nil {
		return nil, fmt.Errorf("get activities: %w", err)
	}
	return out, nil
}

// SearchActivities runs a filtered search. The endpoint answers either with a
// bare array or with a paged object; both come back as ActivitySearchResult.
func (c *Client) SearchActivities(ctx context.Context, q ActivityQuery) (*ActivitySearchResult, error) {
	raw, err := c.api.Request(ctx, http.MethodGet, c.athletePath("/activities/search"), q.values(), nil)
	if err != nil {
		return nil, fmt.Errorf("search activities: %w", err)
	}
	out := &ActivitySearchResult{Activities: []ActivitySummary{}}
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
	case raw[0] == '[':
		err = json.Unmarshal(raw, &out.Activities)
	default:
		err = json.Unmarshal(raw, out)
		if out.Activities == nil {
			out.Activities = []ActivitySummary{}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decode activity search: %w", err)
	}
	return out, nil
}

// ActivitiesAround lists activities within before/after days of date.
func (c *Client) ActivitiesAround(ctx context.Context, date time.Time, before, after int) ([]ActivitySummary, error) {
	q := url.Values{}
	setDate(q, "date", date)
	q.Set("before", strconv.Itoa(before))
	q.Set("after", strconv.Itoa(after))
	out := []ActivitySummary{}
	if err := c.api.GetJSON(ctx, c.athletePath("/activities-around"), q, &out); err != nil {
		return nil, fmt.Errorf("get activities around %s: %w", date.Format(dispatch.DateLayout), err)
	}
	return out, nil
}

// ActivityDetail is an activity in either its base or its extended shape.
type ActivityDetail interface {
	Base() *Activity
}

// Base returns the activity itself.
func (a *Activity) Base() *Activity { return a }

// Activity fetches one activity. When withIntervals is set the API is asked
// for interval analysis, and the extended *ActivityWithIntervals is returned
// only if the payload actually carries icu_intervals.
func (c *Client) Activity(ctx context.Context, id string, withIntervals bool) (ActivityDetail, error) {
	var q url.Values
	if withIntervals {
		q = url.Values{"intervals": {"true"}}
	}
	raw, err := c.api.Request(ctx, http.MethodGet, activityPath(id, ""), q, nil)
	if err != nil {
		return nil, fmt.Errorf("get activity %s: %w", id, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("get activity %s: %w: empty response", id, apierr.ErrNotFound)
	}

	if withIntervals {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			return nil, fmt.Errorf("decode activity %s: %w", id, err)
		}
		if _, ok := keys["icu_intervals"]; ok {
			var out ActivityWithIntervals
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, fmt.Errorf("decode activity %s: %w", id, err)
			}
			return &out, nil
		}
	}

	var out Activity
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode activity %s: %w", id, err)
	}
	return &out, nil
}

// Streams fetches the sample streams of one activity.
func (c *Client) Streams(ctx context.Context, id string) ([]Stream, error) {
	out := []Stream{}
	if err := c.api.GetJSON(ctx, activityPath(id, "/streams"), nil, &out); err != nil {
		return nil, fmt.Errorf("get streams for %s: %w", id, err)
	}
	return out, nil
}

func sportQuery(sport string) url.Values {
	if sport == "" {
		return nil
	}
	return url.Values{"sport": {sport}}
}

// PowerCurve fetches the athlete's power curve, optionally for one sport.
func (c *Client) PowerCurve(ctx context.Context, sport string) (*PowerCurve, error) {
	var out PowerCurve
	if err := c.api.GetJSON(ctx, c.athletePath("/power-curves"), sportQuery(sport), &out); err != nil {
		return nil, fmt.Errorf("get power curve: %w", err)
	}
	return &out, nil
}

// HRCurve fetches the athlete's heart rate curve.
func (c *Client) HRCurve(ctx context.Context, sport string) (*HRCurve, error) {
	var out HRCurve
	if err := c.api.GetJSON(ctx, c.athletePath("/hr-curves"), sportQuery(sport), &out); err != nil {
		return nil, fmt.Errorf("get hr curve: %w", err)
	}
	return &out, nil
}

// PaceCurve fetches the athlete's pace curve.
func (c *Client) PaceCurve(ctx context.Context, sport string) (*PaceCurve, error) {
	var out PaceCurve
	if err := c.api.GetJSON(ctx, c.athletePath("/pace-curves"), sportQuery(sport), &out); err != nil {
		return nil, fmt.Errorf("get pace curve: %w", err)
	}
	return &out, nil
}

// ActivityPowerCurve fetches the power curve of a single activity.
func (c *Client) ActivityPowerCurve(ctx context.Context, id string) (*ActivityPowerCurve, error) {
	var out ActivityPowerCurve
	if err := c.api.GetJSON(ctx, activityPath(id, "/power-curve"), nil, &out); err != nil {
		return nil, fmt.Errorf("get power curve for %s: %w", id, err)
	}
	return &out, nil
}

// BestEfforts fetches the best-effort segments of a single activity.
func (c *Client) BestEfforts(ctx context.Context, id string) (*BestEfforts, error) {
	var out BestEfforts
	if err := c.api.GetJSON(ctx, activityPath(id, "/best-efforts"), nil, &out); err != nil {
		return nil, fmt.Errorf("get best efforts for %s: %w", id, err)
	}
	return &out, nil
}

// Wellness fetches the wellness record of one day.
func (c *Client) Wellness(ctx context.Context, day time.Time) (*Wellness, error) {
	d := day.Format(dispatch.DateLayout)
	var out Wellness
	if err := c.api.GetJSON(ctx, c.athletePath("/wellness/%s", d), nil, &out); err != nil {
		return nil, fmt.Errorf("get wellness for %s: %w", d, err)
	}
	return &out, nil
}

// WellnessRange fetches one wellness record per day of w.
func (c *Client) WellnessRange(ctx context.Context, w dispatch.Window) ([]Wellness, error) {
	q := url.Values{}
	setDate(q, "oldest", w.Start)
	setDate(q, "newest", w.End)
	out := []Wellness{}
	if err := c.api.GetJSON(ctx, c.athletePath("/wellness"), q, &out); err != nil {
		return nil, fmt.Errorf("get wellness %s: %w", w, err)
	}
	return out, nil
}

// Events lists calendar events in w, optionally restricted to one category.
func (c *Client) Events(ctx context.Context, w dispatch.Window, category string) ([]Event, error) {
	q := url.Values{}
	setDate(q, "oldest", w.Start)
	setDate(q, "newest", w.End)
	if category != "" {
		q.Set("category", category)
	}
	out := []Event{}
	if err := c.api.GetJSON(ctx, c.athletePath("/events"), q, &out); err != nil {
		return nil, fmt.Errorf("get events %s: %w", w, err)
	}
	return out, nil
}

// Event fetches one calendar event.
func (c *Client) Event(ctx context.Context, id int) (*Event, error) {
	var out Event
	if err := c.api.GetJSON(ctx, c.athletePath("/events/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return &out, nil
}

// ExportActivitiesCSV returns the activities export as raw CSV text.
func (c *Client) ExportActivitiesCSV(ctx context.Context, oldest, newest time.Time) (string, error) {
	q := url.Values{}
	setDate(q, "oldest", oldest)
	setDate(q, "newest", newest)
	raw, err := c.api.Request(ctx, http.MethodGet, c.athletePath("/activities.csv"), q, nil)
	if err != nil {
		return "", fmt.Errorf("export activities: %w", err)
	}
	return string(raw), nil
}
