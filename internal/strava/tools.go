package strava

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/dispatch"
)

var activitiesLimit = dispatch.Limit{Default: 30, Max: 200}

// ActivityTypes are the values get_activities accepts for activity_type.
var ActivityTypes = []string{"Run", "Ride", "Swim", "Walk", "Hike", "AlpineSki", "BackcountrySki", "Canoeing", "Crossfit"}

// DefaultStreamKeys is what get_activity_streams asks for when keys are omitted.
var DefaultStreamKeys = []string{"time", "distance", "latlng", "altitude", "heartrate", "cadence", "watts", "velocity_smooth"}

const searchPageSize = 200

type ActivitiesArgs struct {
	Limit        *dispatch.Int `json:"limit,omitempty" jsonschema:"Number of activities to retrieve (1-200, default 30)"`
	ActivityType string        `json:"activity_type,omitempty" jsonschema:"Filter by activity type: Run|Ride|Swim|Walk|Hike|AlpineSki|BackcountrySki|Canoeing|Crossfit"`
}

type ActivityIDArgs struct {
	ActivityID dispatch.ID `json:"activity_id,omitempty" jsonschema:"The Strava activity ID (required)"`
}

type SearchArgs struct {
	StartDate    string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate      string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (inclusive)"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"Filter by activity type"`
}

type StreamsArgs struct {
	ActivityID dispatch.ID `json:"activity_id,omitempty" jsonschema:"The Strava activity ID (required)"`
	Keys       []string    `json:"keys,omitempty" jsonschema:"Stream types to fetch (default time, distance, latlng, altitude, heartrate, cadence, watts, velocity_smooth)"`
}

// Provider serves Strava.
type Provider struct {
	cfg    config.Config
	logger *slog.Logger
	now    func() time.Time
}

func NewProvider(cfg config.Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, logger: logger, now: time.Now}
}

func (p *Provider) Name() string { return "strava" }

func (p *Provider) CheckConfig() error { return p.cfg.Strava.Validate() }

func use[In any](p *Provider, fn func(ctx context.Context, c *Client, in In) (any, error)) dispatch.ToolFunc[In] {
	return func(ctx context.Context, in In) (any, error) {
		c, err := NewClient(ctx, p.cfg, p.logger)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		return fn(ctx, c, in)
	}
}

func activityID(raw dispatch.ID) (int64, error) {
	s, err := dispatch.Require("activity_id", string(raw))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument("activity_id", "must be a numeric Strava activity id")
	}
	return id, nil
}

func listing(activities []Activity) map[string]any {
	return map[string]any{"count": len(activities), "activities": activities}
}

// stats resolves the token owner, then fetches their totals.
func stats(ctx context.Context, c *Client) (*AthleteStats, error) {
	athlete, err := c.Athlete(ctx)
	if err != nil {
		return nil, err
	}
	return c.AthleteStats(ctx, athlete.ID)
}

// Register adds the Strava tools and resources.
func (p *Provider) Register(r *dispatch.Registry) {
	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_athlete_profile",
		Description: "Get the authenticated athlete's Strava profile",
	}, use(p, func(ctx context.Context, c *Client, _ struct{}) (any, error) {
		return c.Athlete(ctx)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activities",
		Description: "Get recent Strava activities with optional filters",
	}, use(p, func(ctx context.Context, c *Client, in ActivitiesArgs) (any, error) {
		if in.ActivityType != "" && !slices.Contains(ActivityTypes, in.ActivityType) {
			return nil, apierr.InvalidArgument("activity_type", "must be one of "+strings.Join(ActivityTypes, ", "))
		}
		activities, err := c.Activities(ctx, ListQuery{PerPage: activitiesLimit.Resolve(in.Limit), Page: 1})
		if err != nil {
			return nil, err
		}
		return listing(FilterType(activities, in.ActivityType)), nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activity_details",
		Description: "Get detailed information about a specific activity",
	}, use(p, func(ctx context.Context, c *Client, in ActivityIDArgs) (any, error) {
		id, err := activityID(in.ActivityID)
		if err != nil {
			return nil, err
		}
		return c.Activity(ctx, id)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_athlete_stats",
		Description: "Get athlete's all-time statistics",
	}, use(p, func(ctx context.Context, c *Client, _ struct{}) (any, error) {
		return stats(ctx, c)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "search_activities",
		Description: "Search activities by date range or other criteria",
	}, use(p, func(ctx context.Context, c *Client, in SearchArgs) (any, error) {
		loc := p.now().Location()
		after, err := dispatch.ParseDate("start_date", in.StartDate, loc)
		if err != nil {
			return nil, err
		}
		end, err := dispatch.ParseDate("end_date", in.EndDate, loc)
		if err != nil {
			return nil, err
		}
		q := ListQuery{PerPage: searchPageSize, Page: 1, After: after}
		if !end.IsZero() {
			q.Before = end.AddDate(0, 0, 1)
		}
		activities, err := c.Activities(ctx, q)
		if err != nil {
			return nil, err
		}
		return listing(FilterType(activities, in.ActivityType)), nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activity_streams",
		Description: "Get time-series data for an activity (heart rate, power, GPS, etc.) keyed by stream type",
	}, use(p, func(ctx context.Context, c *Client, in StreamsArgs) (any, error) {
		id, err := activityID(in.ActivityID)
		if err != nil {
			return nil, err
		}
		keys := in.Keys
		if len(keys) == 0 {
			keys = DefaultStreamKeys
		}
		streams, err := c.Streams(ctx, id, keys)
		if err != nil {
			return nil, err
		}
		return map[string]any{"activity_id": id, "streams": streams}, nil
	}))

	p.registerResources(r)
}
