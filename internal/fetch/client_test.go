package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient("test", srv.URL, 5*time.Second)
	t.Cleanup(c.Close)
	return c
}

func TestRequestSendsAuthAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "API_KEY", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/api/v1/athlete/i1/activities", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "fitness-mcp/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"id":"a1"}]`))
	})
	c.Authorize = BasicAuth("API_KEY", "secret")

	var out []map[string]any
	err := c.GetJSON(context.Background(), "/api/v1/athlete/i1/activities", url.Values{"limit": {"5"}}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a1", out[0]["id"])
}

func TestRequestStatusMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized:        apierr.ErrUnauthorized,
		http.StatusForbidden:           apierr.ErrForbidden,
		http.StatusNotFound:            apierr.ErrNotFound,
		http.StatusTooManyRequests:     apierr.ErrRateLimited,
		http.StatusInternalServerError: apierr.ErrRemote,
	}
	for status, kind := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("nope"))
		})
		_, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, kind, "status %d", status)

		var se *apierr.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, status, se.Status)
		assert.Equal(t, "nope", se.Body)
	}
}

func TestRequestEmptyBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/204" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte("  \n"))
	})
	for _, path := range []string{"/204", "/blank"} {
		raw, err := c.Request(context.Background(), http.MethodGet, path, nil, nil)
		require.NoError(t, err, path)
		assert.Nil(t, raw, path)
	}

	out := []string{"untouched"}
	require.NoError(t, c.GetJSON(context.Background(), "/204", nil, &out))
	assert.Equal(t, []string{"untouched"}, out)
}

func TestRequestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient("test", base, time.Second)
	_, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrTransport)
}

func TestRequestEncodesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		var in map[string]any
		require.NoError(t, json.Unmarshal(b, &in))
		assert.Equal(t, "x", in["name"])
		w.Write([]byte(`{"ok":true}`))
	})
	raw, err := c.Request(context.Background(), http.MethodPost, "/echo", nil, map[string]string{"name": "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestGetJSONDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	var out map[string]any
	err := c.GetJSON(context.Background(), "/bad", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET /bad")
}
