package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSLICCError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
	}{
		{
			name:      "Invalid input",
			code:      ErrInvalidInput,
			message:   "Invalid request body",
			details:   "unexpected end of JSON input",
			requestID: "req-123",
		},
		{
			name:      "Render error",
			code:      ErrReportRender,
			message:   "failed to render SLICC report",
			details:   "backend could not allocate buffer",
			requestID: "req-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSLICCError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}

			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}

			if err.Details != tt.details {
				t.Errorf("Expected details %s, got %s", tt.details, err.Details)
			}

			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}

			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("clinical", "unknown criterion", []string{"Fever"})

	if err.Field != "clinical" {
		t.Errorf("Expected field clinical, got %s", err.Field)
	}

	expectedError := "validation error for field 'clinical': unknown criterion"
	if err.Error() != expectedError {
		t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
	}
}

func TestNewRenderError(t *testing.T) {
	err := NewRenderError(errors.New("out of memory"))

	if err.Code != ErrReportRender {
		t.Errorf("Expected code %s, got %s", ErrReportRender, err.Code)
	}
	if err.Details != "out of memory" {
		t.Errorf("Expected details to carry backend error, got %s", err.Details)
	}

	var target *SLICCError
	if !errors.As(error(err), &target) {
		t.Error("Expected render error to match *SLICCError")
	}
}

func TestErrorConstants(t *testing.T) {
	expected := map[string]string{
		ErrInvalidInput:   "INVALID_INPUT",
		ErrValidation:     "VALIDATION_ERROR",
		ErrReportRender:   "REPORT_RENDER_ERROR",
		ErrRateLimit:      "RATE_LIMIT_EXCEEDED",
		ErrInternalServer: "INTERNAL_SERVER_ERROR",
	}

	for actual, want := range expected {
		if actual != want {
			t.Errorf("Expected %s, got %s", want, actual)
		}
	}
}
