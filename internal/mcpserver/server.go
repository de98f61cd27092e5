// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Logoteca search tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/logoteca/internal/gallery"
	"github.com/starford/logoteca/internal/models"
)

const formatURI = "logoteca://identifier-format"

// Server wraps the MCP server with Logoteca tools.
type Server struct {
	mcp *server.MCPServer
	svc *gallery.Service
}

// New creates a new MCP server with all Logoteca tools registered.
func New(svc *gallery.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Logoteca",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_logos",
		mcp.WithDescription("Search the logo catalog. The term matches names as a substring, "+
			"or a whole decade when numeric. Color and type narrow the result. "+
			"Results keep catalog order."),
		mcp.WithString("q", mcp.Description("Name substring or year, e.g. 'radio' or '1925'")),
		mcp.WithString("color", mcp.Description("Exact color, e.g. 'blue'")),
		mcp.WithString("type", mcp.Description("Typography"), mcp.Enum(models.TypeSerif, models.TypeSansSerif)),
	), s.searchLogos)

	s.mcp.AddTool(mcp.NewTool("get_logo",
		mcp.WithDescription("Get one logo by its catalog ID."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("1-based catalog position")),
	), s.getLogo)

	s.mcp.AddTool(mcp.NewTool("list_facets",
		mcp.WithDescription("List the colors, typographies, and decades present in the catalog with counts."),
	), s.listFacets)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Identifier Format",
			mcp.WithResourceDescription("How catalog filenames encode logo metadata and how search works."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchLogos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := models.Query{
		SearchTerm: req.GetString("q", ""),
		Color:      req.GetString("color", ""),
		Type:       req.GetString("type", ""),
	}
	res, err := s.svc.Search(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Total == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(res.Logos, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getLogo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	logo, err := s.svc.Get(ctx, id)
	if err != nil {
		if gallery.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %d", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(logo, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listFacets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := s.svc.Facets(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(f, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFormatResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if req.Params.URI != "" && req.Params.URI != formatURI {
		return nil, errors.New("unknown resource: " + req.Params.URI)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     IdentifierFormat,
		},
	}, nil
}
