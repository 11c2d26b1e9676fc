package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Marshal renders v as indented JSON.
func Marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Titled renders v as JSON under a heading line, as resources present it.
func Titled(title string, v any) (string, error) {
	body, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return title + ":\n" + body, nil
}

// ResultText joins the text content of a tool result.
func ResultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	parts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		if t, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func render(v any) *mcp.CallToolResult {
	switch t := v.(type) {
	case string:
		return toolText(t)
	case []byte:
		return toolText(string(t))
	}
	s, err := Marshal(v)
	if err != nil {
		return toolError(fmt.Errorf("encode result: %w", err))
	}
	return toolText(s)
}

func toolText(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
	}
}
