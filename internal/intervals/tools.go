package intervals

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/dispatch"
)

var (
	activitiesLimit = dispatch.Limit{Default: 20, Max: 100}
	searchLimit     = dispatch.Limit{Default: 50, Max: 100}
)

const (
	wellnessDays     = 30
	calendarBack     = 7
	calendarForward  = 14
	aroundDays       = 7
	maxAroundDays    = 365
	resourceActivity = 20
)

type ActivitiesArgs struct {
	Limit        *dispatch.Int `json:"limit,omitempty" jsonschema:"Number of activities to retrieve (1-100, default 20)"`
	ActivityType string        `json:"activity_type,omitempty" jsonschema:"Filter by activity type (Ride, Run, Swim, etc.)"`
	StartDate    string        `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate      string        `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
}

type ActivityDetailsArgs struct {
	ActivityID       dispatch.ID `json:"activity_id,omitempty" jsonschema:"The intervals.icu activity ID (required)"`
	IncludeIntervals bool        `json:"include_intervals,omitempty" jsonschema:"Include detailed interval data (default false)"`
}

type ActivityIDArgs struct {
	ActivityID dispatch.ID `json:"activity_id,omitempty" jsonschema:"The intervals.icu activity ID (required)"`
}

type SearchArgs struct {
	Query        string        `json:"query,omitempty" jsonschema:"Text search query"`
	StartDate    string        `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate      string        `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
	ActivityType string        `json:"activity_type,omitempty" jsonschema:"Filter by activity type"`
	Limit        *dispatch.Int `json:"limit,omitempty" jsonschema:"Number of results to return (1-100, default 50)"`
}

type AroundArgs struct {
	Date       string        `json:"date,omitempty" jsonschema:"Centre date in YYYY-MM-DD format (required)"`
	DaysBefore *dispatch.Int `json:"days_before,omitempty" jsonschema:"Days before the date (default 7)"`
	DaysAfter  *dispatch.Int `json:"days_after,omitempty" jsonschema:"Days after the date (default 7)"`
}

type SportArgs struct {
	Sport string `json:"sport,omitempty" jsonschema:"Filter by sport (Ride, Run, etc.)"`
}

type AnalysisArgs struct {
	Sport      string      `json:"sport,omitempty" jsonschema:"Filter by sport (Ride, Run, etc.)"`
	ActivityID dispatch.ID `json:"activity_id,omitempty" jsonschema:"Include best efforts for this activity"`
}

type WellnessArgs struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (defaults to 30 days before end_date)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (defaults to today)"`
	Date      string `json:"date,omitempty" jsonschema:"Single date in YYYY-MM-DD format (alternative to range)"`
}

type CalendarArgs struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (defaults to 7 days ago)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (defaults to 14 days from now)"`
	Category  string `json:"category,omitempty" jsonschema:"Filter by event category (WORKOUT, RACE, NOTE, etc.)"`
}

type EventArgs struct {
	EventID *dispatch.Int `json:"event_id,omitempty" jsonschema:"Calendar event id (required)"`
}

type ExportArgs struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
}

// Provider serves intervals.icu.
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

func (p *Provider) Name() string { return "intervals" }

func (p *Provider) CheckConfig() error { return p.cfg.Intervals.Validate() }

func (p *Provider) today() time.Time { return dispatch.Today(p.now()) }

func (p *Provider) date(name, value string) (time.Time, error) {
	return dispatch.ParseDate(name, value, p.now().Location())
}

// use builds a fresh client for one invocation and closes it afterwards.
func use[In any](p *Provider, fn func(ctx context.Context, c *Client, in In) (any, error)) dispatch.ToolFunc[In] {
	return func(ctx context.Context, in In) (any, error) {
		c, err := NewClient(p.cfg, p.logger)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		return fn(ctx, c, in)
	}
}

func (p *Provider) activityQuery(limit dispatch.Limit, n *dispatch.Int, activityType, start, end string) (ActivityQuery, error) {
	oldest, err := p.date("start_date", start)
	if err != nil {
		return ActivityQuery{}, err
	}
	newest, err := p.date("end_date", end)
	if err != nil {
		return ActivityQuery{}, err
	}
	return ActivityQuery{Limit: limit.Resolve(n), Oldest: oldest, Newest: newest, Type: activityType}, nil
}

// Register adds the intervals.icu tools and resources.
func (p *Provider) Register(r *dispatch.Registry) {
	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_athlete_profile",
		Description: "Get the athlete profile with per-sport zone settings",
	}, use(p, func(ctx context.Context, c *Client, _ struct{}) (any, error) {
		return c.Athlete(ctx)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activities",
		Description: "Get recent activities with optional filters",
	}, use(p, func(ctx context.Context, c *Client, in ActivitiesArgs) (any, error) {
		q, err := p.activityQuery(activitiesLimit, in.Limit, in.ActivityType, in.StartDate, in.EndDate)
		if err != nil {
			return nil, err
		}
		activities, err := c.Activities(ctx, q)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": len(activities), "activities": activities}, nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activity_details",
		Description: "Get detailed information about a specific activity including intervals",
	}, use(p, func(ctx context.Context, c *Client, in ActivityDetailsArgs) (any, error) {
		id, err := dispatch.Require("activity_id", string(in.ActivityID))
		if err != nil {
			return nil, err
		}
		return c.Activity(ctx, id, in.IncludeIntervals)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activity_streams",
		Description: "Get detailed time-series data for an activity (power, heart rate, GPS, etc.)",
	}, use(p, func(ctx context.Context, c *Client, in ActivityIDArgs) (any, error) {
		id, err := dispatch.Require("activity_id", string(in.ActivityID))
		if err != nil {
			return nil, err
		}
		streams, err := c.Streams(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"activity_id": id, "streams": streams}, nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "search_activities",
		Description: "Search activities by text query, date range, or type",
	}, use(p, func(ctx context.Context, c *Client, in SearchArgs) (any, error) {
		q, err := p.activityQuery(searchLimit, in.Limit, in.ActivityType, in.StartDate, in.EndDate)
		if err != nil {
			return nil, err
		}
		q.Text = in.Query
		return c.SearchActivities(ctx, q)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activities_around",
		Description: "Get activities in a window of days around a date",
	}, use(p, func(ctx context.Context, c *Client, in AroundArgs) (any, error) {
		raw, err := dispatch.Require("date", in.Date)
		if err != nil {
			return nil, err
		}
		day, err := p.date("date", raw)
		if err != nil {
			return nil, err
		}
		before, err := days("days_before", in.DaysBefore)
		if err != nil {
			return nil, err
		}
		after, err := days("days_after", in.DaysAfter)
		if err != nil {
			return nil, err
		}
		activities, err := c.ActivitiesAround(ctx, day, before, after)
		if err != nil {
			return nil, err
		}
		return map[string]any{"date": raw, "count": len(activities), "activities": activities}, nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_power_curve",
		Description: "Get athlete's power curve analysis showing peak power at different durations",
	}, use(p, func(ctx context.Context, c *Client, in SportArgs) (any, error) {
		return c.PowerCurve(ctx, in.Sport)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_hr_curve",
		Description: "Get athlete's heart rate curve showing peak heart rate at different durations",
	}, use(p, func(ctx context.Context, c *Client, in SportArgs) (any, error) {
		return c.HRCurve(ctx, in.Sport)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_pace_curve",
		Description: "Get athlete's pace curve showing best pace at different durations",
	}, use(p, func(ctx context.Context, c *Client, in SportArgs) (any, error) {
		return c.PaceCurve(ctx, in.Sport)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_activity_power_curve",
		Description: "Get power curve for a specific activity",
	}, use(p, func(ctx context.Context, c *Client, in ActivityIDArgs) (any, error) {
		id, err := dispatch.Require("activity_id", string(in.ActivityID))
		if err != nil {
			return nil, err
		}
		return c.ActivityPowerCurve(ctx, id)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_performance_analysis",
		Description: "Get comprehensive performance analysis including power, HR, and pace curves",
	}, use(p, func(ctx context.Context, c *Client, in AnalysisArgs) (any, error) {
		return c.PerformanceAnalysis(ctx, in.Sport, string(in.ActivityID)), nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_best_efforts",
		Description: "Get best effort segments for an activity",
	}, use(p, func(ctx context.Context, c *Client, in ActivityIDArgs) (any, error) {
		id, err := dispatch.Require("activity_id", string(in.ActivityID))
		if err != nil {
			return nil, err
		}
		return c.BestEfforts(ctx, id)
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_wellness_data",
		Description: "Get wellness data (sleep, HRV, stress, etc.) for a date range",
	}, use(p, func(ctx context.Context, c *Client, in WellnessArgs) (any, error) {
		if in.Date != "" {
			day, err := p.date("date", in.Date)
			if err != nil {
				return nil, err
			}
			return c.Wellness(ctx, day)
		}
		w, err := dispatch.TrailingWindow(in.StartDate, in.EndDate, p.today(), wellnessDays)
		if err != nil {
			return nil, err
		}
		records, err := c.WellnessRange(ctx, w)
		if err != nil {
			return nil, err
		}
		return map[string]any{"date_range": w.String(), "records": records}, nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_training_calendar",
		Description: "Get planned workouts, races, and events from training calendar",
	}, use(p, func(ctx context.Context, c *Client, in CalendarArgs) (any, error) {
		w, err := dispatch.AroundWindow(in.StartDate, in.EndDate, p.today(), calendarBack, calendarForward)
		if err != nil {
			return nil, err
		}
		events, err := c.Events(ctx, w, in.Category)
		if err != nil {
			return nil, err
		}
		category := in.Category
		if category == "" {
			category = "all"
		}
		return map[string]any{"date_range": w.String(), "category": category, "events": events}, nil
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "get_event",
		Description: "Get one planned workout, race or note from the training calendar",
	}, use(p, func(ctx context.Context, c *Client, in EventArgs) (any, error) {
		if in.EventID == nil {
			return nil, apierr.MissingArgument("event_id")
		}
		return c.Event(ctx, int(*in.EventID))
	}))

	dispatch.AddTool(r, &mcp.Tool{
		Name:        "export_activities_csv",
		Description: "Export activities data as CSV format",
	}, use(p, func(ctx context.Context, c *Client, in ExportArgs) (any, error) {
		oldest, err := p.date("start_date", in.StartDate)
		if err != nil {
			return nil, err
		}
		newest, err := p.date("end_date", in.EndDate)
		if err != nil {
			return nil, err
		}
		return c.ExportActivitiesCSV(ctx, oldest, newest)
	}))

	p.registerResources(r)
}

func days(name string, v *dispatch.Int) (int, error) {
	if v == nil {
		return aroundDays, nil
	}
	n := int(*v)
	if n < 0 || n > maxAroundDays {
		return 0, apierr.InvalidArgument(name, "must be between 0 and 365")
	}
	return n, nil
}
