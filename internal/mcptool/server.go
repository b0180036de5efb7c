// Package mcptool exposes prop extraction as MCP tools so agents can ask
// for the props of a JSX snippet or query a database built by
// `jsxprops build`.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/agentic-research/jsxprops/api"
	"github.com/agentic-research/jsxprops/internal/props"
	"github.com/agentic-research/jsxprops/internal/query"
	"github.com/agentic-research/jsxprops/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolExtract = "extract_props"
	ToolQuery   = "query_props"
)

// Handlers holds the tool implementations.
type Handlers struct {
	Extractor *props.Extractor
	Logger    *slog.Logger
}

// NewServer returns an MCP server with the extraction tools registered.
func NewServer(version string, h *Handlers) *server.MCPServer {
	s := server.NewMCPServer("jsxprops", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolExtract,
		mcp.WithDescription("Extract the props of the first top-level JSX element in a snippet. Returns a JSON object; function props are returned as their source text."),
		mcp.WithString("source", mcp.Required(), mcp.Description("JSX source, e.g. <div name=\"x\" age={1} />")),
		mcp.WithString("select", mcp.Description("Optional JSONPath applied to the props, e.g. $.address.city")),
	), h.Extract)

	s.AddTool(mcp.NewTool(ToolQuery,
		mcp.WithDescription("List records from a props database built with `jsxprops build`, optionally only those carrying a prop."),
		mcp.WithString("db", mcp.Required(), mcp.Description("Path to the SQLite database")),
		mcp.WithString("prop", mcp.Description("Only records that carry this prop")),
		mcp.WithString("select", mcp.Description("Optional JSONPath applied to each record's props")),
	), h.Query)

	return s
}

// Extract handles extract_props.
func (h *Handlers) Extract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	el, err := h.Extractor.ExtractElement(ctx, []byte(src))
	if err != nil {
		return mcp.NewToolResultError("parse: " + err.Error()), nil
	}

	var out any = el.Props
	if sel := req.GetString("select", ""); sel != "" {
		matches, err := query.Select(el.Props.Map(), sel)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out = matches
	}
	return textResult(out)
}

type queryRow struct {
	ID      string `json:"id"`
	Element string `json:"element,omitempty"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Query handles query_props.
func (h *Handlers) Query(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dbPath, err := req.RequireString("db")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sel *query.Selector
	if s := req.GetString("select", ""); s != "" {
		if sel, err = query.Compile(s); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	r, err := store.Open(dbPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = r.Close() }() // safe to ignore

	rows := []queryRow{}
	collect := func(rec *api.Record) error {
		row := queryRow{ID: rec.ID, Element: rec.Element, Error: rec.Error}
		if rec.OK() {
			decoded, err := rec.Decode()
			if err != nil {
				return err
			}
			row.Value = decoded
			if sel != nil {
				row.Value = sel.Get(decoded)
			}
		}
		rows = append(rows, row)
		return nil
	}

	if prop := req.GetString("prop", ""); prop != "" {
		err = r.StreamProp(ctx, prop, collect)
		if errors.Is(err, store.ErrNotFound) {
			return textResult(rows)
		}
	} else {
		err = r.Stream(ctx, collect)
	}
	if err != nil {
		h.logger().Warn("query failed", "db", dbPath, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(rows)
}

func (h *Handlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
