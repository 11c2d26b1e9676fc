package intervals

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/dispatch"
)

func (p *Provider) resource(read func(ctx context.Context, c *Client) (string, error)) dispatch.ResourceFunc {
	return func(ctx context.Context) (string, error) {
		c, err := NewClient(p.cfg, p.logger)
		if err != nil {
			return "", err
		}
		defer c.Close()
		return read(ctx, c)
	}
}

func (p *Provider) registerResources(r *dispatch.Registry) {
	r.AddResource(&mcp.Resource{
		URI:         "intervals://activities",
		Name:        "Recent Activities",
		Description: "User's recent intervals.icu activities and workouts",
		MIMEType:    "application/json",
	}, p.resource(func(ctx context.Context, c *Client) (string, error) {
		activities, err := c.Activities(ctx, ActivityQuery{Limit: resourceActivity})
		if err != nil {
			return "", err
		}
		return dispatch.Titled("Recent Activities", activities)
	}))

	r.AddResource(&mcp.Resource{
		URI:         "intervals://athlete",
		Name:        "Athlete Profile",
		Description: "User's intervals.icu athlete profile and settings",
		MIMEType:    "application/json",
	}, p.resource(func(ctx context.Context, c *Client) (string, error) {
		athlete, err := c.Athlete(ctx)
		if err != nil {
			return "", err
		}
		return dispatch.Titled("Athlete Profile", athlete)
	}))

	r.AddResource(&mcp.Resource{
		URI:         "intervals://performance",
		Name:        "Performance Analysis",
		Description: "Power curves, heart rate analysis, and performance metrics",
		MIMEType:    "application/json",
	}, p.resource(func(ctx context.Context, c *Client) (string, error) {
		return dispatch.Titled("Performance Analysis", c.PerformanceAnalysis(ctx, "", ""))
	}))

	// Wellness and calendar read failures are reported inline rather than
	// failing the read.
	r.AddResource(&mcp.Resource{
		URI:         "intervals://wellness",
		Name:        "Wellness Data",
		Description: "Sleep, HRV, and wellness tracking data",
		MIMEType:    "application/json",
	}, p.resource(func(ctx context.Context, c *Client) (string, error) {
		today := p.today()
		w := dispatch.Window{Start: today.AddDate(0, 0, -wellnessDays), End: today}
		records, err := c.WellnessRange(ctx, w)
		if err != nil {
			return fmt.Sprintf("Wellness Data: No data available or error: %v", err), nil
		}
		return dispatch.Titled(fmt.Sprintf("Wellness Data (Last %d Days)", wellnessDays), records)
	}))

	r.AddResource(&mcp.Resource{
		URI:         "intervals://calendar",
		Name:        "Training Calendar",
		Description: "Planned workouts, races, and training events",
		MIMEType:    "application/json",
	}, p.resource(func(ctx context.Context, c *Client) (string, error) {
		today := p.today()
		w := dispatch.Window{Start: today.AddDate(0, 0, -calendarBack), End: today.AddDate(0, 0, calendarForward)}
		events, err := c.Events(ctx, w, "")
		if err != nil {
			return fmt.Sprintf("Training Calendar: No events or error: %v", err), nil
		}
		return dispatch.Titled("Training Calendar", events)
	}))
}
