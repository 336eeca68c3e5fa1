package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/observekit/apmgate/internal/version"
)

const serverName = "apmgate"

// Server hosts the MCP tool surface.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

// NewServer creates an MCP server with the relay tools registered.
func NewServer(svc QueryService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version.Version}, nil)
	mcp.AddTool(srv, ListIndexesTool(), ListIndexesHandler(svc))
	mcp.AddTool(srv, QueryIndexTool(), QueryIndexHandler(svc, logger))
	return &Server{mcpServer: srv, logger: logger}
}

// Serve runs the server on stdio until the transport closes or the context
// ends. Context cancellation is a clean stop, not an error.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP on stdio")
	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
