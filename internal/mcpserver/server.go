// Package mcpserver exposes the bridge operations as MCP tools.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/h0rv/jira-mcp/internal/bridge"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName identifies this server to MCP clients.
const ServerName = "jira-mcp"

// Server holds the MCP server and the request context template its tools share.
type Server struct {
	rc     *bridge.Context
	logger *slog.Logger
	mcp    *mcp.Server
}

// New creates a server with every tool registered.
func New(rc *bridge.Context, version string) *Server {
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		rc:     rc,
		logger: logger.With("component", "mcp"),
		mcp:    mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying server, for connecting custom transports.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves tools over stdin/stdout until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving tools over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// call returns the context for one tool invocation, logging with a fresh trace id.
func (s *Server) call(tool string, attrs ...any) (*bridge.Context, *slog.Logger) {
	logger := s.logger.With("tool", tool, "trace_id", uuid.NewString()).With(attrs...)
	logger.Info("tool called")
	return s.rc.WithLogger(logger), logger
}
