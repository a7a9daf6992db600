// Package mcp exposes the SLICC calculator as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
	"github.com/slicc-sle-calculator/internal/mcp/tools"
)

// Server metadata reported to MCP clients.
const (
	ServerName    = "slicc-sle-calculator"
	ServerVersion = "v1.0.0"
)

// Server is the SLICC MCP server. The same instance can serve stdio and
// streamable HTTP clients.
type Server struct {
	mcpServer *mcp.Server
	logger    *logrus.Logger
}

// NewServer creates a new MCP server with all SLICC tools registered
func NewServer(logger *logrus.Logger, calculator domain.Calculator) *Server {
	serverInfo := &mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}

	mcpServer := mcp.NewServer(serverInfo, nil)
	tools.NewSLICCTools(logger, calculator).Register(mcpServer)

	logger.Info("MCP server initialized successfully")

	return &Server{
		mcpServer: mcpServer,
		logger:    logger,
	}
}

// RunStdio serves a single client over stdin/stdout until ctx is cancelled
// or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.WithField("transport_type", "stdio").Info("Starting SLICC MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// HTTPHandler returns a streamable HTTP handler for mounting on the API server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
