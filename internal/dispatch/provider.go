package dispatch

// Provider is one fitness-data integration. Each adapter exposes the shared
// capability set (athlete profile, activity listing and search, activity
// details) under common tool names, plus whatever curves or stats its API
// offers, and registers the read-only resources it supports.
type Provider interface {
	// Name is the provider key used on the command line ("intervals", "strava").
	Name() string
	// CheckConfig reports missing credentials before anything is served.
	CheckConfig() error
	// Register adds the provider's tools and resources.
	Register(r *Registry)
}
