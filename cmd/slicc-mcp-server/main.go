package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/slicc-sle-calculator/internal/config"
	"github.com/slicc-sle-calculator/internal/logging"
	"github.com/slicc-sle-calculator/internal/mcp"
	"github.com/slicc-sle-calculator/internal/report"
	"github.com/slicc-sle-calculator/internal/service"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()

	// stdout carries the protocol; logs go to stderr.
	logger := logging.NewLoggerWithOutput(cfg.Logging, os.Stderr)

	reportCfg := configManager.GetReportConfig()
	renderer := report.NewPDFRenderer(logger,
		report.WithCompression(reportCfg.Compress),
		report.WithAuthor(reportCfg.Author),
	)
	calculator := service.NewCalculatorService(logger, renderer)
	mcpServer := mcp.NewServer(logger, calculator)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, stopping MCP server")
		cancel()
	}()

	logger.Info("Starting SLICC MCP server on stdio")
	if err := mcpServer.RunStdio(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("MCP server failed")
	}

	logger.Info("SLICC MCP server stopped")
}
