package mcp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicc-sle-calculator/internal/report"
	"github.com/slicc-sle-calculator/internal/service"
)

func TestNewServer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	calc := service.NewCalculatorService(logger, report.NewPDFRenderer(logger))

	server := NewServer(logger, calc)

	require.NotNil(t, server.MCPServer())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "MCP server initialized successfully", hook.LastEntry().Message)
}

func TestHTTPHandler_RejectsPlainGet(t *testing.T) {
	logger, _ := test.NewNullLogger()
	calc := service.NewCalculatorService(logger, report.NewPDFRenderer(logger))
	server := NewServer(logger, calc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	server.HTTPHandler().ServeHTTP(w, req)

	// Without an initialized session or an event-stream Accept header the
	// streamable transport refuses the request.
	assert.GreaterOrEqual(t, w.Code, 400)
}
