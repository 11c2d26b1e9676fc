package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/dispatch"
	"github.com/aatrey56/fitness-mcp/internal/intervals"
	"github.com/aatrey56/fitness-mcp/internal/strava"
)

const version = "0.1.0"

func main() {
	var (
		providerName = flag.String("provider", "intervals", "fitness provider: intervals|strava")
		transport    = flag.String("transport", "stdio", "MCP transport: stdio|http")
		addr         = flag.String("addr", ":8080", "HTTP listen address")
		mcpPath      = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		requireAuth  = flag.Bool("require-auth", false, "require API key auth via FITNESS_MCP_API_KEY")
		authHeader   = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
		envFile      = flag.String("env-file", ".env", "dotenv file to seed the environment from")
		logLevel     = flag.String("log-level", "info", "log level: debug|info|warn|error")
	)
	flag.Parse()

	// stdout belongs to the stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	if err := config.LoadEnvFile(*envFile); err != nil {
		fatal(logger, "load env file", err)
	}
	cfg := config.Load()

	p, err := newProvider(*providerName, cfg, logger)
	if err != nil {
		fatal(logger, "select provider", err)
	}
	if err := p.CheckConfig(); err != nil {
		fatal(logger, "check configuration", err)
	}

	r := dispatch.New(&mcp.Implementation{Name: "fitness-mcp-" + p.Name(), Version: version}, logger)
	p.Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *transport {
	case "stdio":
		logger.Info("serving MCP over stdio", "provider", p.Name(), "tools", len(r.Tools()))
		if err := r.Server().Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			fatal(logger, "stdio server", err)
		}
	case "http":
		if *requireAuth && cfg.ServerAPIKey == "" {
			fatal(logger, "check configuration", errors.New("FITNESS_MCP_API_KEY is required (set env var or run with --require-auth=false)"))
		}
		srv := &http.Server{
			Addr:              *addr,
			Handler:           newMux(r, httpOptions{Path: *mcpPath, APIKey: cfg.ServerAPIKey, AuthHeader: *authHeader}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown failed", "err", err)
			}
		}()
		logger.Info("MCP HTTP server listening", "provider", p.Name(), "addr", *addr, "path", *mcpPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "http server", err)
		}
	default:
		fatal(logger, "select transport", fmt.Errorf("unknown transport %q (want stdio or http)", *transport))
	}
}

func newProvider(name string, cfg config.Config, logger *slog.Logger) (dispatch.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "intervals", "intervals.icu":
		return intervals.NewProvider(cfg, logger), nil
	case "strava":
		return strava.NewProvider(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want intervals or strava)", name)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}
