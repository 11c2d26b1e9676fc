// Package dispatch maps tool names and resource URIs to provider handlers.
//
// A Registry wraps an MCP server and keeps a parallel table of handlers so the
// same tools can be invoked in-process ([Registry.Call], [Registry.ReadResource])
// or over an MCP transport. Either way every failure comes back as a text
// result of the form "Error: <message>"; nothing a handler does escapes as a
// protocol fault or a panic.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
	"github.com/aatrey56/fitness-mcp/internal/observability"
)

// unknownToolLabel is the metrics label for calls to unregistered tools, so
// caller-chosen names never become label values.
const unknownToolLabel = "unknown"

// ToolFunc handles one tool call. A string result is returned verbatim; any
// other value is rendered as indented JSON.
type ToolFunc[In any] func(ctx context.Context, in In) (any, error)

// ResourceFunc renders one read-only resource.
type ResourceFunc func(ctx context.Context) (string, error)

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResourceInfo describes a registered resource.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type toolEntry struct {
	info ToolInfo
	call func(ctx context.Context, raw json.RawMessage) *mcp.CallToolResult
}

type resourceEntry struct {
	info ResourceInfo
	read ResourceFunc
}

// Registry is the tool dispatcher and resource reader for one provider.
type Registry struct {
	server *mcp.Server
	logger *slog.Logger

	mu        sync.RWMutex
	tools     map[string]toolEntry
	toolOrder []string
	resources map[string]resourceEntry
	resOrder  []string
}

// New creates a Registry. A nil logger means slog.Default().
func New(impl *mcp.Implementation, logger *slog.Logger) *Registry {
	if impl == nil {
		panic("dispatch: nil Implementation")
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		server:    mcp.NewServer(impl, nil),
		logger:    logger,
		tools:     make(map[string]toolEntry),
		resources: make(map[string]resourceEntry),
	}
	r.server.AddReceivingMiddleware(r.unknownToolMiddleware)
	return r
}

// Server returns the underlying MCP server for transport wiring.
func (r *Registry) Server() *mcp.Server {
	return r.server
}

// AddTool registers a typed tool on both the MCP server and the in-process table.
// Both paths decode arguments the same way, so a malformed argument is an
// "Error: ..." result over a session too, never an invalid-params fault.
func AddTool[In any](r *Registry, tool *mcp.Tool, h ToolFunc[In]) {
	call := func(ctx context.Context, raw json.RawMessage) *mcp.CallToolResult {
		var in In
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &in); err != nil {
				return r.invoke(ctx, tool.Name, func() (any, error) {
					return nil, malformed(err)
				})
			}
		}
		return r.invoke(ctx, tool.Name, func() (any, error) { return h(ctx, in) })
	}

	t := *tool
	if t.InputSchema == nil {
		schema, err := inputSchema[In]()
		if err != nil {
			panic(fmt.Sprintf("dispatch: input schema for %q: %v", tool.Name, err))
		}
		t.InputSchema = schema
	}
	r.server.AddTool(&t, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return call(ctx, req.Params.Arguments), nil
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.toolOrder = append(r.toolOrder, tool.Name)
	}
	r.tools[tool.Name] = toolEntry{info: ToolInfo{Name: tool.Name, Description: tool.Description}, call: call}
}

func malformed(err error) error {
	return apierr.InvalidArgument("arguments", fmt.Sprintf("are malformed: %v", err))
}

// AddResource registers a fixed, argument-less read view.
func (r *Registry) AddResource(res *mcp.Resource, read ResourceFunc) {
	r.server.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text, err := r.readResource(ctx, res.URI, read)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      res.URI,
				MIMEType: res.MIMEType,
				Text:     text,
			}},
		}, nil
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[res.URI]; !exists {
		r.resOrder = append(r.resOrder, res.URI)
	}
	r.resources[res.URI] = resourceEntry{
		info: ResourceInfo{URI: res.URI, Name: res.Name, Description: res.Description},
		read: read,
	}
}

// Call invokes a tool by name with a loosely typed argument bag (usually a
// map[string]any). It never returns a nil result.
func (r *Registry) Call(ctx context.Context, name string, args any) *mcp.CallToolResult {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		observability.RecordToolCall(unknownToolLabel, true)
		return toolError(apierr.UnknownOperation(name))
	}

	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return toolError(apierr.InvalidArgument("arguments", fmt.Sprintf("cannot be encoded: %v", err)))
		}
		raw = b
	}
	return entry.call(ctx, raw)
}

// ReadResource renders a resource by URI.
func (r *Registry) ReadResource(ctx context.Context, uri string) (string, error) {
	r.mu.RLock()
	entry, ok := r.resources[uri]
	r.mu.RUnlock()
	if !ok {
		return "", apierr.UnknownResource(uri)
	}
	return r.readResource(ctx, uri, entry.read)
}

// HasTool reports whether a tool with the given name is registered.
func (r *Registry) HasTool(name string) bool {
	r.mu.RLock()
	_, ok := r.tools[name]
	r.mu.RUnlock()
	return ok
}

// Tools lists registered tools in registration order.
func (r *Registry) Tools() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolInfo, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name].info)
	}
	return out
}

// Resources lists registered resources in registration order.
func (r *Registry) Resources() []ResourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ResourceInfo, 0, len(r.resOrder))
	for _, uri := range r.resOrder {
		out = append(out, r.resources[uri].info)
	}
	return out
}

func (r *Registry) invoke(ctx context.Context, name string, fn func() (any, error)) (res *mcp.CallToolResult) {
	callID := uuid.NewString()
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", "tool", name, "call_id", callID, "panic", p)
			res = toolError(fmt.Errorf("internal error: %v", p))
		}
		observability.RecordToolCall(name, res.IsError)
		r.logger.Info("tool call", "tool", name, "call_id", callID, "took", time.Since(start), "is_error", res.IsError)
	}()

	v, err := fn()
	if err != nil {
		return toolError(err)
	}
	return render(v)
}

func (r *Registry) readResource(ctx context.Context, uri string, read ResourceFunc) (text string, err error) {
	callID := uuid.NewString()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("resource panicked", "uri", uri, "call_id", callID, "panic", p)
			err = fmt.Errorf("internal error: %v", p)
		}
		observability.RecordToolCall(uri, err != nil)
		r.logger.Info("resource read", "uri", uri, "call_id", callID, "failed", err != nil)
	}()
	return read(ctx)
}

// unknownToolMiddleware answers tools/call for unregistered names, and any
// call the server itself rejects, with an error result instead of a JSON-RPC
// fault.
func (r *Registry) unknownToolMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method != "tools/call" {
			return next(ctx, method, req)
		}
		call, ok := req.(*mcp.CallToolRequest)
		if ok && call.Params != nil && !r.HasTool(call.Params.Name) {
			observability.RecordToolCall(unknownToolLabel, true)
			return toolError(apierr.UnknownOperation(call.Params.Name)), nil
		}
		res, err := next(ctx, method, req)
		if err != nil && ctx.Err() == nil {
			name := unknownToolLabel
			if ok && call.Params != nil {
				name = call.Params.Name
			}
			observability.RecordToolCall(name, true)
			r.logger.Warn("tool call rejected", "tool", name, "err", err)
			return toolError(malformed(err)), nil
		}
		return res, err
	}
}
