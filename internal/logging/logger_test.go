package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicc-sle-calculator/internal/config"
	"github.com/slicc-sle-calculator/internal/domain"
)

func TestNewLoggerWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(domain.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	logger.WithField("rule", "SLICC_2012").Debug("evaluated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "evaluated", entry["msg"])
	assert.Equal(t, "SLICC_2012", entry["rule"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLoggerWithOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(domain.LoggingConfig{Level: "warn", Format: "TEXT"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := NewLogger(domain.LoggingConfig{Level: "chatty"})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestConfigure_UpdatesExistingLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(domain.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	Configure(logger, domain.LoggingConfig{Level: "debug", Format: "text"})
	logger.Debug("visible")

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	assert.Contains(t, buf.String(), "visible")
}

func TestReload_AppliesNewLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))

	manager, err := config.NewManager(config.WithConfigFile(path))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := NewLoggerWithOutput(manager.GetConfig().Logging, &buf)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))
	require.NoError(t, Reload(manager, logger))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: chatty\n"), 0o600))
	assert.Error(t, Reload(manager, logger))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel(), "invalid config must not change the logger")
}
