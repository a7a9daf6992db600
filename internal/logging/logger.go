// Package logging builds the logrus logger shared by all binaries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
)

// NewLogger creates a logger with the configured formatter and level,
// writing to stdout.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	return NewLoggerWithOutput(cfg, os.Stdout)
}

// NewLoggerWithOutput is NewLogger with an explicit writer. The MCP stdio
// server passes stderr so stdout stays reserved for protocol messages.
func NewLoggerWithOutput(cfg domain.LoggingConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	Configure(logger, cfg)
	return logger
}

// Configure applies the formatter and level of cfg to an existing logger.
// It is used again when the configuration is reloaded.
func Configure(logger *logrus.Logger, cfg domain.LoggingConfig) {
	if strings.ToLower(cfg.Format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

// Reload re-reads the configuration and applies its logging section. On
// error the logger keeps its current settings.
func Reload(manager domain.ConfigManager, logger *logrus.Logger) error {
	if err := manager.Reload(); err != nil {
		return err
	}
	if err := manager.Validate(); err != nil {
		return err
	}
	Configure(logger, manager.GetConfig().Logging)
	return nil
}
