package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/api"
	"github.com/slicc-sle-calculator/internal/config"
	"github.com/slicc-sle-calculator/internal/logging"
	"github.com/slicc-sle-calculator/internal/mcp"
	"github.com/slicc-sle-calculator/internal/report"
	"github.com/slicc-sle-calculator/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.NewLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host":        cfg.Server.Host,
		"port":        cfg.Server.Port,
		"environment": cfg.Environment,
	}).Info("Starting SLICC 2012 SLE calculator")

	reportCfg := configManager.GetReportConfig()
	renderer := report.NewPDFRenderer(logger,
		report.WithCompression(reportCfg.Compress),
		report.WithAuthor(reportCfg.Author),
	)
	calculator := service.NewCalculatorService(logger, renderer)
	mcpServer := mcp.NewServer(logger, calculator)

	server := api.NewServer(configManager, calculator, logger, api.WithMCPHandler(mcpServer.HTTPHandler()))

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// SIGHUP reloads the logging configuration; anything else shuts down.
	go func() {
		for sig := range sigChan {
			if sig == syscall.SIGHUP {
				if err := logging.Reload(configManager, logger); err != nil {
					logger.WithError(err).Error("Configuration reload failed")
				} else {
					logger.Info("Configuration reloaded")
				}
				continue
			}
			logger.Info("Shutdown signal received, gracefully shutting down...")
			cancel()
			return
		}
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}
