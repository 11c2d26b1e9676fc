// Command fitness-call invokes one tool or resource in-process and prints
// the textual result, without any MCP transport.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/config"
	"github.com/aatrey56/fitness-mcp/internal/dispatch"
	"github.com/aatrey56/fitness-mcp/internal/intervals"
	"github.com/aatrey56/fitness-mcp/internal/strava"
)

func main() {
	var (
		providerName = flag.String("provider", "intervals", "fitness provider: intervals|strava")
		tool         = flag.String("tool", "", "tool to call")
		args         = flag.String("args", "{}", "tool arguments as a JSON object")
		resource     = flag.String("resource", "", "resource URI to read")
		list         = flag.Bool("list", false, "list tools and resources")
		envFile      = flag.String("env-file", ".env", "dotenv file to seed the environment from")
		verbose      = flag.Bool("v", false, "debug logging on stderr")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "load env file: %v\n", err)
		os.Exit(1)
	}
	code, err := run(context.Background(), os.Stdout, config.Load(), logger, invocation{
		Provider: *providerName,
		Tool:     *tool,
		Args:     *args,
		Resource: *resource,
		List:     *list,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

type invocation struct {
	Provider string
	Tool     string
	Args     string
	Resource string
	List     bool
}

// run returns 1 for usage or configuration problems and 2 when the tool
// answered with an error result.
func run(ctx context.Context, w io.Writer, cfg config.Config, logger *slog.Logger, inv invocation) (int, error) {
	var p dispatch.Provider
	switch strings.ToLower(inv.Provider) {
	case "intervals":
		p = intervals.NewProvider(cfg, logger)
	case "strava":
		p = strava.NewProvider(cfg, logger)
	default:
		return 1, fmt.Errorf("unknown provider %q (want intervals or strava)", inv.Provider)
	}

	r := dispatch.New(&mcp.Implementation{Name: "fitness-call", Version: "0.1.0"}, logger)
	p.Register(r)

	switch {
	case inv.List:
		for _, t := range r.Tools() {
			fmt.Fprintf(w, "tool     %-26s %s\n", t.Name, t.Description)
		}
		for _, res := range r.Resources() {
			fmt.Fprintf(w, "resource %-26s %s\n", res.URI, res.Description)
		}
		return 0, nil
	case inv.Resource != "":
		if err := p.CheckConfig(); err != nil {
			return 1, err
		}
		text, err := r.ReadResource(ctx, inv.Resource)
		if err != nil {
			return 1, err
		}
		fmt.Fprintln(w, text)
		return 0, nil
	case inv.Tool != "":
		if err := p.CheckConfig(); err != nil {
			return 1, err
		}
		raw := json.RawMessage(inv.Args)
		if strings.TrimSpace(inv.Args) == "" {
			raw = nil
		}
		res := r.Call(ctx, inv.Tool, raw)
		fmt.Fprintln(w, dispatch.ResultText(res))
		if res.IsError {
			return 2, nil
		}
		return 0, nil
	default:
		return 1, fmt.Errorf("one of -tool, -resource or -list is required")
	}
}
