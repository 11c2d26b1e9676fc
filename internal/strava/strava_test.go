package strava

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/dispatch"
)

const activitiesJSON = `[
	{"id": 101, "resource_state": 2, "athlete": {"id": 7}, "name": "Lunch Run", "type": "Run", "sport_type": "Run",
	 "start_date": "2024-01-10T12:00:00Z", "start_date_local": "2024-01-10T13:00:00Z", "timezone": "(GMT+01:00) Europe/Paris",
	 "utc_offset": 3600, "distance": 10012.5, "moving_time": 2710, "elapsed_time": 2800, "total_elevation_gain": 55,
	 "average_speed": 3.69, "max_speed": 5.1, "has_heartrate": true, "average_heartrate": 151.2},
	{"id": 102, "resource_state": 2, "athlete": {"id": 7}, "name": "Commute", "type": "Ride", "sport_type": "Ride",
	 "start_date": "2024-01-11T07:30:00Z", "start_date_local": "2024-01-11T08:30:00Z", "timezone": "(GMT+01:00) Europe/Paris",
	 "utc_offset": 3600, "distance": 8400, "moving_time": 1500, "elapsed_time": 1620, "total_elevation_gain": 20,
	 "average_speed": 5.6, "max_speed": 9.8, "has_heartrate": false, "commute": true}
]`

type fakeAPI struct {
	mu    sync.Mutex
	calls []url.URL
}

func (f *fakeAPI) Calls() []url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.URL(nil), f.calls...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeStrava serves the API under /api/v3 and the token endpoint at
// /oauth/token. API requests must carry "Bearer <token>".
func newFakeStrava(t *testing.T, token string, api http.HandlerFunc, tokenEndpoint http.HandlerFunc) (*httptest.Server, *fakeAPI) {
	t.Helper()
	rec := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			tokenEndpoint(w, r)
			return
		}
		rec.mu.Lock()
		rec.calls = append(rec.calls, *r.URL)
		rec.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Authorization Error"}`))
			return
		}
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/api/v3")
		api(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func noTokenEndpoint(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected token refresh")
		w.WriteHeader(http.StatusBadRequest)
	}
}

func testConfig(srv *httptest.Server) config.Config {
	return config.Config{
		Strava: config.Strava{
			AccessToken: "tok",
			BaseURL:     srv.URL + "/api/v3",
			TokenURL:    srv.URL + "/oauth/token",
		},
		HTTPTimeout: 5 * time.Second,
		UserAgent:   "fitness-mcp/test",
	}
}

func newTestRegistry(t *testing.T, cfg config.Config) *dispatch.Registry {
	t.Helper()
	p := NewProvider(cfg, quietLogger())
	p.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	r := dispatch.New(&mcp.Implementation{Name: "strava-test", Version: "v0.0.1"}, quietLogger())
	p.Register(r)
	return r
}

func callJSON(t *testing.T, r *dispatch.Registry, name string, args map[string]any) map[string]any {
	t.Helper()
	res := r.Call(context.Background(), name, args)
	require.False(t, res.IsError, dispatch.ResultText(res))
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(dispatch.ResultText(res)), &out))
	return out
}

func TestGetActivitiesPagesAndFilters(t *testing.T) {
	srv, rec := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/activities", r.URL.Path)
		w.Write([]byte(activitiesJSON))
	}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))

	out := callJSON(t, r, "get_activities", map[string]any{})
	assert.EqualValues(t, 2, out["count"])
	assert.Equal(t, url.Values{"per_page": {"30"}, "page": {"1"}}, rec.Calls()[0].Query())

	out = callJSON(t, r, "get_activities", map[string]any{"limit": 1000, "activity_type": "Ride"})
	assert.Equal(t, "200", rec.Calls()[1].Query().Get("per_page"))
	assert.EqualValues(t, 1, out["count"])
	ride := out["activities"].([]any)[0].(map[string]any)
	assert.Equal(t, "Commute", ride["name"])
	assert.NotContains(t, ride, "average_heartrate")

	callJSON(t, r, "get_activities", map[string]any{"limit": -3})
	assert.Equal(t, "1", rec.Calls()[2].Query().Get("per_page"))
}

func TestGetActivitiesRejectsUnknownType(t *testing.T) {
	srv, rec := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))

	res := r.Call(context.Background(), "get_activities", map[string]any{"activity_type": "Skydive"})
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(dispatch.ResultText(res), "Error: activity_type must be one of Run, Ride"), dispatch.ResultText(res))
	assert.Empty(t, rec.Calls())
}

func TestSearchActivitiesUsesUnixBounds(t *testing.T) {
	srv, rec := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(activitiesJSON))
	}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))

	out := callJSON(t, r, "search_activities", map[string]any{
		"start_date": "2024-01-01", "end_date": "2024-01-31", "activity_type": "Run",
	})
	assert.Equal(t, url.Values{
		"per_page": {"200"},
		"page":     {"1"},
		"after":    {"1704067200"},
		"before":   {"1706745600"},
	}, rec.Calls()[0].Query())
	assert.EqualValues(t, 1, out["count"])

	res := r.Call(context.Background(), "search_activities", map[string]any{"end_date": "31-01-2024"})
	assert.Equal(t, "Error: end_date must be in YYYY-MM-DD format", dispatch.ResultText(res))
}

func TestGetActivityDetails(t *testing.T) {
	srv, _ := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/101", r.URL.Path)
		w.Write([]byte(`{"id": 101, "resource_state": 3, "athlete": {"id": 7}, "name": "Lunch Run", "type": "Run",
			"start_date": "2024-01-10T12:00:00Z", "start_date_local": "2024-01-10T13:00:00Z", "timezone": "UTC",
			"distance": 10012.5, "moving_time": 2710, "elapsed_time": 2800, "total_elevation_gain": 55,
			"average_speed": 3.69, "max_speed": 5.1, "description": "tempo", "calories": 712.4,
			"segment_efforts": [{"id": 9, "name": "Bridge sprint", "elapsed_time": 42, "moving_time": 42,
			"start_date": "2024-01-10T12:10:00Z", "start_date_local": "2024-01-10T13:10:00Z", "distance": 210}]}`))
	}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))

	out := callJSON(t, r, "get_activity_details", map[string]any{"activity_id": "101"})
	assert.Equal(t, "tempo", out["description"])
	assert.Equal(t, 712.4, out["calories"])
	require.Len(t, out["segment_efforts"], 1)
	assert.NotContains(t, out, "average_watts")

	out = callJSON(t, r, "get_activity_details", map[string]any{"activity_id": 101})
	assert.Equal(t, "tempo", out["description"])

	res := r.Call(context.Background(), "get_activity_details", map[string]any{})
	assert.Equal(t, "Error: activity_id is required", dispatch.ResultText(res))
	res = r.Call(context.Background(), "get_activity_details", map[string]any{"activity_id": "i123"})
	assert.Equal(t, "Error: activity_id must be a numeric Strava activity id", dispatch.ResultText(res))
}

func TestGetAthleteStatsResolvesAthleteFirst(t *testing.T) {
	srv, rec := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/athlete":
			w.Write([]byte(`{"id": 7, "resource_state": 3, "firstname": "Alex", "lastname": "Doe",
				"premium": true, "summit": true, "created_at": "2019-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"}`))
		case "/athletes/7/stats":
			w.Write([]byte(`{"biggest_ride_distance": 160934.4, "all_run_totals": {"count": 412, "distance": 4300000,
				"moving_time": 1500000, "elapsed_time": 1600000, "elevation_gain": 38000}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))

	out := callJSON(t, r, "get_athlete_stats", nil)
	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/api/v3/athlete", calls[0].Path)
	assert.Equal(t, "/api/v3/athletes/7/stats", calls[1].Path)
	assert.EqualValues(t, 412, out["all_run_totals"].(map[string]any)["count"])
	assert.NotContains(t, out, "biggest_climb_elevation_gain")

	text, err := r.ReadResource(context.Background(), "strava://stats")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Athlete Statistics:\n"), text)
}

func TestGetActivityStreams(t *testing.T) {
	srv, rec := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"heartrate": {"data": [120, 125], "series_type": "distance", "original_size": 2, "resolution": "high"},
			"latlng": {"data": [[48.85, 2.35], [48.86, 2.36]], "series_type": "distance", "original_size": 2, "resolution": "high"}}`))
	}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))

	out := callJSON(t, r, "get_activity_streams", map[string]any{"activity_id": "101", "keys": []string{"heartrate", "latlng"}})
	q := rec.Calls()[0].Query()
	assert.Equal(t, "/api/v3/activities/101/streams", rec.Calls()[0].Path)
	assert.Equal(t, "heartrate,latlng", q.Get("keys"))
	assert.Equal(t, "true", q.Get("key_by_type"))
	assert.EqualValues(t, 101, out["activity_id"])
	latlng := out["streams"].(map[string]any)["latlng"].(map[string]any)
	assert.Equal(t, []any{48.85, 2.35}, latlng["data"].([]any)[0])

	callJSON(t, r, "get_activity_streams", map[string]any{"activity_id": "101"})
	assert.Equal(t, strings.Join(DefaultStreamKeys, ","), rec.Calls()[1].Query().Get("keys"))
}

func TestStatusKinds(t *testing.T) {
	for status, kind := range map[int]error{
		http.StatusUnauthorized:       apierr.ErrUnauthorized,
		http.StatusForbidden:          apierr.ErrForbidden,
		http.StatusNotFound:           apierr.ErrNotFound,
		http.StatusTooManyRequests:    apierr.ErrRateLimited,
		http.StatusServiceUnavailable: apierr.ErrRemote,
	} {
		srv, _ := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, noTokenEndpoint(t))
		c, err := NewClient(context.Background(), testConfig(srv), quietLogger())
		require.NoError(t, err)

		_, err = c.Athlete(context.Background())
		assert.ErrorIs(t, err, kind, "athlete %d", status)
		_, err = c.Activities(context.Background(), ListQuery{PerPage: 1})
		assert.ErrorIs(t, err, kind, "activities %d", status)
		_, err = c.Activity(context.Background(), 1)
		assert.ErrorIs(t, err, kind, "activity %d", status)
		_, err = c.Streams(context.Background(), 1, nil)
		assert.ErrorIs(t, err, kind, "streams %d", status)
		c.Close()
	}
}

func TestWrongTokenIsUnauthorized(t *testing.T) {
	srv, _ := newFakeStrava(t, "other", func(w http.ResponseWriter, r *http.Request) {}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))
	res := r.Call(context.Background(), "get_athlete_profile", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: get athlete: invalid credentials or unauthorized access", dispatch.ResultText(res))
}

func TestRefreshTokenFlow(t *testing.T) {
	var refreshed sync.WaitGroup
	refreshed.Add(1)
	srv, _ := newFakeStrava(t, "fresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "resource_state": 2, "firstname": "Alex", "lastname": "Doe",
			"premium": false, "summit": false, "created_at": "2019-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		defer refreshed.Done()
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "r1", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "csecret", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"r2","expires_in":21600}`))
	})
	cfg := testConfig(srv)
	cfg.Strava.AccessToken = ""
	cfg.Strava.RefreshToken = "r1"
	cfg.Strava.ClientID = "cid"
	cfg.Strava.ClientSecret = "csecret"

	r := newTestRegistry(t, cfg)
	out := callJSON(t, r, "get_athlete_profile", nil)
	refreshed.Wait()
	assert.Equal(t, "Alex", out["firstname"])
	assert.NotContains(t, out, "username")
}

func TestStaleAccessTokenIsRefreshed(t *testing.T) {
	var refreshes atomic.Int32
	srv, rec := newFakeStrava(t, "fresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "resource_state": 2, "firstname": "Alex", "lastname": "Doe"}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "r1", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"r2","expires_in":21600}`))
	})
	cfg := testConfig(srv)
	cfg.Strava.AccessToken = "stale"
	cfg.Strava.RefreshToken = "r1"
	cfg.Strava.ClientID = "cid"
	cfg.Strava.ClientSecret = "csecret"

	r := newTestRegistry(t, cfg)
	out := callJSON(t, r, "get_athlete_profile", nil)
	assert.Equal(t, "Alex", out["firstname"])
	assert.EqualValues(t, 1, refreshes.Load())
	assert.Len(t, rec.Calls(), 1)
}

func TestActivityEmptyBodyIsNotFound(t *testing.T) {
	srv, _ := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, noTokenEndpoint(t))

	c, err := NewClient(context.Background(), testConfig(srv), quietLogger())
	require.NoError(t, err)
	defer c.Close()
	a, err := c.Activity(context.Background(), 101)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	r := newTestRegistry(t, testConfig(srv))
	res := r.Call(context.Background(), "get_activity_details", map[string]any{"activity_id": 101})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: get activity 101: not found: empty response", dispatch.ResultText(res))
}

func TestRevokedRefreshTokenIsUnauthorized(t *testing.T) {
	srv, rec := newFakeStrava(t, "fresh", func(w http.ResponseWriter, r *http.Request) {}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Authorization Error","errors":[{"resource":"RefreshToken","code":"invalid"}]}`))
	})
	cfg := testConfig(srv)
	cfg.Strava.AccessToken = ""
	cfg.Strava.RefreshToken = "revoked"
	cfg.Strava.ClientID = "cid"
	cfg.Strava.ClientSecret = "csecret"

	c, err := NewClient(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Athlete(context.Background())
	assert.ErrorIs(t, err, apierr.ErrUnauthorized)
	assert.True(t, apierr.IsAuth(err))
	assert.Empty(t, rec.Calls())
}

func TestMissingCredentials(t *testing.T) {
	cfg := config.Config{Strava: config.Strava{BaseURL: "http://127.0.0.1:1"}, HTTPTimeout: time.Second}
	p := NewProvider(cfg, quietLogger())
	require.ErrorIs(t, p.CheckConfig(), apierr.ErrConfiguration)

	r := newTestRegistry(t, cfg)
	res := r.Call(context.Background(), "get_activities", nil)
	assert.Equal(t, "Error: STRAVA_ACCESS_TOKEN environment variable is required", dispatch.ResultText(res))

	_, err := r.ReadResource(context.Background(), "strava://athlete")
	assert.ErrorIs(t, err, apierr.ErrConfiguration)
}

func TestResources(t *testing.T) {
	srv, rec := newFakeStrava(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/athlete/activities":
			w.Write([]byte(activitiesJSON))
		case "/athlete":
			w.Write([]byte(`{"id": 7, "resource_state": 2, "firstname": "Alex", "lastname": "Doe",
				"premium": false, "summit": false, "created_at": "2019-01-01T00:00:00Z", "updated_at": "2024-01-01T00:00:00Z"}`))
		}
	}, noTokenEndpoint(t))
	r := newTestRegistry(t, testConfig(srv))
	ctx := context.Background()

	text, err := r.ReadResource(ctx, "strava://activities")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Recent Activities:\n["), text)
	assert.Equal(t, "30", rec.Calls()[0].Query().Get("per_page"))

	text, err = r.ReadResource(ctx, "strava://athlete")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Athlete Profile:\n"), text)
	assert.Contains(t, text, `"firstname": "Alex"`)

	_, err = r.ReadResource(ctx, "strava://segments")
	assert.ErrorIs(t, err, apierr.ErrUnknownResource)
	assert.Len(t, r.Resources(), 3)
}
