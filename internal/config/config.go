// Package config centralises environment parsing for the fitness MCP servers.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
)

// Config captures runtime configuration for both providers.
type Config struct {
	Intervals    Intervals
	Strava       Strava
	HTTPTimeout  time.Duration
	UserAgent    string
	ServerAPIKey string // inbound key for the HTTP transport
}

// Intervals holds intervals.icu credentials.
type Intervals struct {
	APIKey    string
	AthleteID string
	BaseURL   string
}

// Strava holds Strava credentials. Either AccessToken or the three refresh
// fields must be set.
type Strava struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
}

// LoadEnvFile seeds the process environment from a dotenv file. Variables
// already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads environment variables into Config.
func Load() Config {
	return Config{
		Intervals: Intervals{
			APIKey:    getEnv("INTERVALS_API_KEY", ""),
			AthleteID: getEnv("INTERVALS_ATHLETE_ID", ""),
			BaseURL:   strings.TrimRight(getEnv("INTERVALS_BASE_URL", "https://intervals.icu"), "/"),
		},
		Strava: Strava{
			AccessToken:  getEnv("STRAVA_ACCESS_TOKEN", ""),
			RefreshToken: getEnv("STRAVA_REFRESH_TOKEN", ""),
			ClientID:     getEnv("STRAVA_CLIENT_ID", ""),
			ClientSecret: getEnv("STRAVA_CLIENT_SECRET", ""),
			BaseURL:      strings.TrimRight(getEnv("STRAVA_BASE_URL", "https://www.strava.com/api/v3"), "/"),
			TokenURL:     getEnv("STRAVA_TOKEN_URL", "https://www.strava.com/oauth/token"),
		},
		HTTPTimeout:  getDurationEnv("FITNESS_HTTP_TIMEOUT", 30*time.Second),
		UserAgent:    getEnv("FITNESS_USER_AGENT", "fitness-mcp/1.0"),
		ServerAPIKey: getEnv("FITNESS_MCP_API_KEY", ""),
	}
}

// Validate reports the first missing intervals.icu setting.
func (c Intervals) Validate() error {
	if c.APIKey == "" {
		return apierr.MissingConfig("INTERVALS_API_KEY")
	}
	if c.AthleteID == "" {
		return apierr.MissingConfig("INTERVALS_ATHLETE_ID")
	}
	return nil
}

// CanRefresh reports whether OAuth2 refresh credentials are complete.
func (c Strava) CanRefresh() bool {
	return c.RefreshToken != "" && c.ClientID != "" && c.ClientSecret != ""
}

// Validate reports a missing Strava credential.
func (c Strava) Validate() error {
	if c.AccessToken == "" && !c.CanRefresh() {
		return apierr.MissingConfig("STRAVA_ACCESS_TOKEN")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
