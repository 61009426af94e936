// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes part lookup and the saved inventory via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/lookup"
	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/partservice"
	"github.com/starford/partsdb/internal/provider"
)

// Resolver returns the search and parse capabilities for a provider name.
// An empty name selects the configured default.
type Resolver func(api string) (provider.Searcher, provider.Parser, error)

// Server wraps the MCP server with partsdb tools.
type Server struct {
	mcp     *server.MCPServer
	resolve Resolver
	parts   *partservice.Service
}

// New creates a new MCP server with all partsdb tools registered.
func New(resolve Resolver, parts *partservice.Service, version string) *Server {
	s := &Server{resolve: resolve, parts: parts}

	s.mcp = server.NewMCPServer(
		"partsdb",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lookup_parts",
		mcp.WithDescription("Search the distributor for a manufacturer part number or keyword. "+
			"Returns up to 25 normalized part records as JSON. Nothing is saved."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Part number or keyword")),
		mcp.WithString("api", mcp.Description("Distributor API (default from config, e.g. mouser)")),
	), s.lookupParts)

	s.mcp.AddTool(mcp.NewTool("insert_part",
		mcp.WithDescription("Search and save the result to the local inventory. "+
			"Only saves when the query matches exactly one part; refine the query otherwise."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Part number or keyword")),
		mcp.WithString("api", mcp.Description("Distributor API (default from config, e.g. mouser)")),
	), s.insertPart)

	s.mcp.AddTool(mcp.NewTool("list_inventory",
		mcp.WithDescription("List every part saved in the local inventory as JSON records."),
	), s.listInventory)

	s.mcp.AddTool(mcp.NewTool("remove_part",
		mcp.WithDescription("Delete the saved record for a part number."),
		mcp.WithString("partNum", mcp.Required(), mcp.Description("Manufacturer part number as saved")),
	), s.removePart)

	s.mcp.AddResource(
		mcp.NewResource(RecordFormatURI, "Part Record Format",
			mcp.WithResourceDescription("JSON layout of the records saved in the inventory directory."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormat,
	)

	return s
}

// Listen serves MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) search(ctx context.Context, req mcp.CallToolRequest, insert bool) (*lookup.Result, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return nil, err
	}
	searcher, parser, err := s.resolve(req.GetString("api", ""))
	if err != nil {
		return nil, err
	}
	flow := &lookup.Flow{
		Searcher: searcher,
		Parser:   parser,
		Saver:    s.parts,
		Out:      io.Discard,
	}
	return flow.Run(ctx, lookup.Request{Query: query, Insert: insert})
}

func (s *Server) lookupParts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.search(ctx, req, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res.Parts)
}

func (s *Server) insertPart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.search(ctx, req, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Refusal != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s (%d matches)", res.Refusal, len(res.Parts))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %s to %s", res.Parts[0].PartNum, res.SavedPath)), nil
}

func (s *Server) listInventory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parts, err := s.parts.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(parts)
}

func (s *Server) removePart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	partNum, err := req.RequireString("partNum")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.parts.Delete(partNum); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", partNum)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", partNum)), nil
}

func (s *Server) readRecordFormat(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RecordFormatURI,
			MIMEType: "text/markdown",
			Text:     RecordFormat,
		},
	}, nil
}

func jsonResult(parts []*models.Part) (*mcp.CallToolResult, error) {
	if parts == nil {
		parts = []*models.Part{}
	}
	out, err := json.MarshalIndent(parts, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
