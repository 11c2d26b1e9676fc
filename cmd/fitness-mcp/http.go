package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aatrey56/fitness-mcp/internal/dispatch"
)

type httpOptions struct {
	Path       string
	APIKey     string // empty disables auth
	AuthHeader string
}

// newMux serves the streamable MCP handler and the side endpoints, all behind
// the same key check.
func newMux(r *dispatch.Registry, opts httpOptions) *http.ServeMux {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return r.Server()
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	withAuth := requireKey(opts.APIKey, opts.AuthHeader)

	mux := http.NewServeMux()
	mux.Handle("/health", withAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})))
	mux.Handle("/tools", withAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tools": r.Tools(), "resources": r.Resources()})
	})))
	mux.Handle("/metrics", withAuth(promhttp.Handler()))
	mux.Handle(opts.Path, withAuth(handler))
	return mux
}

// requireKey accepts the key in the configured header or as a bearer token.
func requireKey(apiKey, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	b, _ := json.MarshalIndent(v, "", "  ")
	w.Write(b)
}
