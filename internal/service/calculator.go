package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
)

// CalculatorService validates checklist input, applies the SLICC rule and
// produces downloadable reports. It holds no per-user state.
type CalculatorService struct {
	logger     *logrus.Logger
	ruleEngine domain.RuleEvaluator
	renderer   domain.ReportRenderer
	now        func() time.Time
}

// CalculatorOption is a functional option for CalculatorService.
type CalculatorOption func(*CalculatorService)

// WithClock sets the time source used to stamp results and reports.
func WithClock(now func() time.Time) CalculatorOption {
	return func(s *CalculatorService) {
		s.now = now
	}
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService(logger *logrus.Logger, renderer domain.ReportRenderer, opts ...CalculatorOption) *CalculatorService {
	s := &CalculatorService{
		logger:     logger,
		ruleEngine: NewSLICCRuleEngine(logger),
		renderer:   renderer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns both SLICC catalogs in build-time order.
func (s *CalculatorService) Catalog() domain.CatalogView {
	return domain.Catalogs()
}

// Evaluate validates the input against the catalogs and applies the rule.
func (s *CalculatorService) Evaluate(ctx context.Context, input *domain.EvaluationInput) (*domain.EvaluationResult, error) {
	if input == nil {
		return nil, domain.NewValidationError("input", "evaluation input is required", nil)
	}
	if err := validateSelections(input); err != nil {
		return nil, err
	}

	clinicalCount := input.ClinicalCount()
	immunologicCount := input.ImmunologicCount()
	totalCount := input.TotalCount()

	outcome := s.ruleEngine.Outcome(input.Nephritis, input.Serology, clinicalCount, immunologicCount, totalCount)
	positive, message := outcome.IsPositive(), OutcomeMessage(outcome)

	result := &domain.EvaluationResult{
		Positive:            positive,
		Message:             message,
		Rule:                outcome,
		Diagnosis:           domain.DiagnosisLabel(positive),
		Nephritis:           input.Nephritis,
		Serology:            input.Serology,
		ClinicalSelected:    input.Clinical.Names(),
		ImmunologicSelected: input.Immunologic.Names(),
		ClinicalCount:       clinicalCount,
		ImmunologicCount:    immunologicCount,
		TotalCount:          totalCount,
		EvaluatedAt:         s.now().UTC(),
	}

	s.logger.WithFields(logrus.Fields(result.LogFields())).Info("SLICC evaluation completed")

	return result, nil
}

// Toggle flips one criterion and re-evaluates synchronously.
func (s *CalculatorService) Toggle(ctx context.Context, input *domain.EvaluationInput, group domain.CriterionGroup, name string) (*domain.EvaluationInput, *domain.EvaluationResult, error) {
	if input == nil {
		input = domain.NewEvaluationInput(false, false, nil, nil)
	}

	catalog, err := domain.CatalogFor(group)
	if err != nil {
		return nil, nil, domain.NewValidationError("group", err.Error(), group)
	}
	if _, err := catalog.Lookup(name); err != nil {
		return nil, nil, domain.NewValidationError("name", err.Error(), name)
	}

	next, err := input.Toggle(group, name)
	if err != nil {
		return nil, nil, domain.NewValidationError("group", err.Error(), group)
	}

	result, err := s.Evaluate(ctx, next)
	if err != nil {
		return nil, nil, err
	}
	return next, result, nil
}

// ToggleFlag flips the nephritis or serology switch and re-evaluates.
func (s *CalculatorService) ToggleFlag(ctx context.Context, input *domain.EvaluationInput, flag domain.Flag) (*domain.EvaluationInput, *domain.EvaluationResult, error) {
	if input == nil {
		input = domain.NewEvaluationInput(false, false, nil, nil)
	}

	next, err := input.ToggleFlag(flag)
	if err != nil {
		return nil, nil, domain.NewValidationError("flag", err.Error(), flag)
	}

	result, err := s.Evaluate(ctx, next)
	if err != nil {
		return nil, nil, err
	}
	return next, result, nil
}

// GenerateReport evaluates the input and renders the PDF report.
func (s *CalculatorService) GenerateReport(ctx context.Context, input *domain.EvaluationInput) (*domain.Report, error) {
	result, err := s.Evaluate(ctx, input)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	data := result.ReportData()
	data.GeneratedAt = generatedAt

	content, err := s.renderer.Render(data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render SLICC report")
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &domain.Report{
		ID:          uuid.New().String(),
		FileName:    domain.ReportFileName,
		MIMEType:    domain.ReportMIMEType,
		Content:     content,
		Result:      result,
		GeneratedAt: generatedAt.UTC(),
	}

	s.logger.WithFields(logrus.Fields{
		"report_id":  report.ID,
		"diagnosis":  result.Diagnosis,
		"size_bytes": len(content),
	}).Info("SLICC report generated")

	return report, nil
}

func validateSelections(input *domain.EvaluationInput) error {
	checks := []struct {
		group     domain.CriterionGroup
		selection domain.Selection
	}{
		{domain.CLINICAL, input.Clinical},
		{domain.IMMUNOLOGIC, input.Immunologic},
	}

	for _, check := range checks {
		catalog, err := domain.CatalogFor(check.group)
		if err != nil {
			return err
		}
		if unknown := catalog.Unknown(check.selection); len(unknown) > 0 {
			label := strings.ToLower(catalog.Group().Label())
			return domain.NewValidationError(label,
				fmt.Sprintf("unknown %s criteria: %s", label, strings.Join(unknown, ", ")), unknown)
		}
	}
	return nil
}
