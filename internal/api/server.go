package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
	"github.com/slicc-sle-calculator/internal/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	calculator    domain.Calculator
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
	mcpHandler    http.Handler
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server)

// WithMCPHandler mounts a streamable-HTTP MCP endpoint at the configured path.
func WithMCPHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.mcpHandler = h
	}
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, calculator domain.Calculator, logger *logrus.Logger, opts ...ServerOption) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if gin.Mode() != gin.TestMode {
		if configManager.IsDevelopment() && cfg.Logging.Level == "debug" {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	router := gin.New()

	server := &Server{
		configManager: configManager,
		calculator:    calculator,
		logger:        logger,
		router:        router,
	}
	for _, opt := range opts {
		opt(server)
	}

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.SecurityHeaders(configManager.IsProduction()))
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		limiters, err := middleware.NewClientLimiters(cfg.RateLimit)
		if err != nil {
			logger.WithError(err).Error("Rate limiting disabled")
		} else {
			router.Use(middleware.RateLimit(limiters, logger))
		}
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	cfg := s.configManager.GetConfig()

	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))
	{
		v1.GET("/criteria", s.handleCriteria)
		v1.POST("/evaluate", s.handleEvaluate)
		v1.POST("/toggle", s.handleToggle)
		v1.POST("/report", s.handleReport)
	}

	if s.mcpHandler != nil && cfg.MCP.HTTPEnabled {
		s.router.Any(cfg.MCP.HTTPPath, gin.WrapH(s.mcpHandler))
		s.logger.WithField("path", cfg.MCP.HTTPPath).Info("Mounted MCP streamable HTTP endpoint")
	}
}
