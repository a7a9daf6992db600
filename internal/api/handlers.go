package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
	"github.com/slicc-sle-calculator/internal/middleware"
)

// EvaluateRequest is the checklist state submitted by a client.
type EvaluateRequest struct {
	Nephritis   bool     `json:"nephritis"`
	Serology    bool     `json:"serology"`
	Clinical    []string `json:"clinical" binding:"max=64,dive,required"`
	Immunologic []string `json:"immunologic" binding:"max=64,dive,required"`
}

// ToggleRequest flips one item of State and re-evaluates. Group is
// "clinical" or "immunologic" with Name set to the criterion, or "nephritis"
// or "serology" to flip that switch.
type ToggleRequest struct {
	State EvaluateRequest `json:"state"`
	Group string          `json:"group" binding:"required"`
	Name  string          `json:"name,omitempty"`
}

// ToggleResponse carries the new checklist state and its evaluation.
type ToggleResponse struct {
	State  EvaluateRequest          `json:"state"`
	Result *domain.EvaluationResult `json:"result"`
}

func (r *EvaluateRequest) toInput() *domain.EvaluationInput {
	return domain.NewEvaluationInput(r.Nephritis, r.Serology, r.Clinical, r.Immunologic)
}

func fromInput(in *domain.EvaluationInput) EvaluateRequest {
	return EvaluateRequest{
		Nephritis:   in.Nephritis,
		Serology:    in.Serology,
		Clinical:    in.Clinical.Names(),
		Immunologic: in.Immunologic.Names(),
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// handleCriteria lists both SLICC catalogs
func (s *Server) handleCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, s.calculator.Catalog())
}

// handleEvaluate applies the SLICC rule to the submitted checklist
func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}

	result, err := s.calculator.Evaluate(c.Request.Context(), req.toInput())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleToggle flips one criterion or switch and returns the re-evaluated state
func (s *Server) handleToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}

	var (
		next   *domain.EvaluationInput
		result *domain.EvaluationResult
		err    error
	)
	if flag, flagErr := domain.ParseFlag(req.Group); flagErr == nil {
		next, result, err = s.calculator.ToggleFlag(c.Request.Context(), req.State.toInput(), flag)
	} else {
		group, groupErr := domain.ParseCriterionGroup(req.Group)
		if groupErr != nil {
			s.handleServiceError(c, domain.NewValidationError("group", groupErr.Error(), req.Group))
			return
		}
		if req.Name == "" {
			s.handleServiceError(c, domain.NewValidationError("name", "criterion name is required", req.Name))
			return
		}
		next, result, err = s.calculator.Toggle(c.Request.Context(), req.State.toInput(), group, req.Name)
	}
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{State: fromInput(next), Result: result})
}

// handleReport renders the PDF report as a file download
func (s *Server) handleReport(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid request body", err)
		return
	}

	report, err := s.calculator.GenerateReport(c.Request.Context(), req.toInput())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Header("X-Report-ID", report.ID)
	c.Data(http.StatusOK, report.MIMEType, report.Content)
}

// handleServiceError maps service errors to HTTP responses
func (s *Server) handleServiceError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		s.writeError(c, http.StatusUnprocessableEntity, domain.ErrValidation, validationErr.Message, err)
		return
	}

	var sliccErr *domain.SLICCError
	if errors.As(err, &sliccErr) && sliccErr.Code == domain.ErrReportRender {
		s.writeError(c, http.StatusInternalServerError, domain.ErrReportRender, sliccErr.Message, err)
		return
	}

	s.writeError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Internal server error", err)
}

func (s *Server) writeError(c *gin.Context, status int, code, message string, err error) {
	correlationID := c.GetString(middleware.CorrelationIDKey)

	entry := s.logger.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"path":           c.Request.URL.Path,
		"code":           code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(status, domain.NewSLICCError(code, message, err.Error(), correlationID))
}
