package strava

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/dispatch"
)

func (p *Provider) resource(title string, read func(ctx context.Context, c *Client) (any, error)) dispatch.ResourceFunc {
	return func(ctx context.Context) (string, error) {
		c, err := NewClient(ctx, p.cfg, p.logger)
		if err != nil {
			return "", err
		}
		defer c.Close()
		v, err := read(ctx, c)
		if err != nil {
			return "", err
		}
		return dispatch.Titled(title, v)
	}
}

func (p *Provider) registerResources(r *dispatch.Registry) {
	r.AddResource(&mcp.Resource{
		URI:         "strava://activities",
		Name:        "Recent Activities",
		Description: "User's recent Strava activities",
		MIMEType:    "application/json",
	}, p.resource("Recent Activities", func(ctx context.Context, c *Client) (any, error) {
		return c.Activities(ctx, ListQuery{PerPage: activitiesLimit.Default, Page: 1})
	}))

	r.AddResource(&mcp.Resource{
		URI:         "strava://athlete",
		Name:        "Athlete Profile",
		Description: "User's Strava athlete profile",
		MIMEType:    "application/json",
	}, p.resource("Athlete Profile", func(ctx context.Context, c *Client) (any, error) {
		return c.Athlete(ctx)
	}))

	r.AddResource(&mcp.Resource{
		URI:         "strava://stats",
		Name:        "Athlete Stats",
		Description: "User's all-time Strava statistics",
		MIMEType:    "application/json",
	}, p.resource("Athlete Statistics", func(ctx context.Context, c *Client) (any, error) {
		return stats(ctx, c)
	}))
}
