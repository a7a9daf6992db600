package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicc-sle-calculator/internal/domain"
)

type stubRenderer struct {
	data *domain.ReportData
	err  error
}

func (s *stubRenderer) Render(data *domain.ReportData) ([]byte, error) {
	s.data = data
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-stub"), nil
}

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestCalculator(renderer domain.ReportRenderer) *CalculatorService {
	logger, _ := test.NewNullLogger()
	return NewCalculatorService(logger, renderer, WithClock(func() time.Time { return testNow }))
}

func TestCalculatorService_Evaluate(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})
	ctx := context.Background()

	tests := []struct {
		name        string
		input       *domain.EvaluationInput
		positive    bool
		rule        domain.RuleOutcome
		total       int
		clinical    int
		immunologic int
	}{
		{
			name:     "single clinical criterion",
			input:    domain.NewEvaluationInput(false, false, []string{"Oral ulcers"}, nil),
			positive: false,
			rule:     domain.NOT_MET,
			total:    1,
			clinical: 1,
		},
		{
			name:     "nephritis with serology and no criteria",
			input:    domain.NewEvaluationInput(true, true, nil, nil),
			positive: true,
			rule:     domain.NEPHRITIS_SHORTCUT,
		},
		{
			name: "two clinical and two immunologic",
			input: domain.NewEvaluationInput(false, false,
				[]string{"Synovitis", "Serositis"},
				[]string{"Anti-Sm", "Low complement"}),
			positive:    true,
			rule:        domain.SLICC_2012,
			total:       4,
			clinical:    2,
			immunologic: 2,
		},
		{
			name: "four clinical without immunologic",
			input: domain.NewEvaluationInput(false, false,
				[]string{"Oral ulcers", "Synovitis", "Serositis", "Renal"}, nil),
			positive: false,
			rule:     domain.NOT_MET,
			total:    4,
			clinical: 4,
		},
		{
			name: "duplicates count once",
			input: domain.NewEvaluationInput(false, false,
				[]string{"Renal", "Renal", "Renal"}, []string{"Anti-Sm"}),
			positive: false,
			rule:     domain.NOT_MET,
			total:    2,
			clinical: 1, immunologic: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Evaluate(ctx, tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.positive, result.Positive)
			assert.Equal(t, tt.rule, result.Rule)
			assert.Equal(t, result.Rule.IsPositive(), result.Positive)
			assert.Equal(t, OutcomeMessage(result.Rule), result.Message)
			assert.Equal(t, tt.total, result.TotalCount)
			assert.Equal(t, tt.clinical, result.ClinicalCount)
			assert.Equal(t, tt.immunologic, result.ImmunologicCount)
			assert.Equal(t, result.ClinicalCount+result.ImmunologicCount, result.TotalCount)
			assert.Equal(t, domain.DiagnosisLabel(tt.positive), result.Diagnosis)
			assert.Equal(t, testNow, result.EvaluatedAt)
		})
	}
}

func TestCalculatorService_Evaluate_UnknownCriteria(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input *domain.EvaluationInput
		field string
	}{
		{"unknown clinical", domain.NewEvaluationInput(false, false, []string{"Fever"}, nil), "clinical"},
		{"immunologic name in clinical group", domain.NewEvaluationInput(false, false, []string{"Anti-Sm"}, nil), "clinical"},
		{"unknown immunologic", domain.NewEvaluationInput(false, false, nil, []string{"Anti-Ro"}), "immunologic"},
		{"nil input", nil, "input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Evaluate(ctx, tt.input)

			assert.Nil(t, result)
			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestCalculatorService_Toggle(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})
	ctx := context.Background()

	input := domain.NewEvaluationInput(false, false, []string{"Synovitis", "Serositis"}, []string{"Anti-Sm"})

	next, result, err := calc.Toggle(ctx, input, domain.IMMUNOLOGIC, "Low complement")
	require.NoError(t, err)
	assert.True(t, result.Positive)
	assert.Equal(t, 4, result.TotalCount)

	next, result, err = calc.Toggle(ctx, next, domain.CLINICAL, "Serositis")
	require.NoError(t, err)
	assert.False(t, result.Positive)
	assert.Equal(t, []string{"Synovitis"}, next.Clinical.Names())

	// The original input is untouched.
	assert.Equal(t, 3, input.TotalCount())

	var validationErr *domain.ValidationError

	_, _, err = calc.Toggle(ctx, input, domain.CLINICAL, "Fever")
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name", validationErr.Field)

	_, _, err = calc.Toggle(ctx, input, domain.CLINICAL, "Anti-Sm")
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name", validationErr.Field)

	_, _, err = calc.Toggle(ctx, input, "OTHER", "Renal")
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "group", validationErr.Field)
}

func TestCalculatorService_ToggleFlag(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})
	ctx := context.Background()

	input := domain.NewEvaluationInput(true, false, nil, nil)

	next, result, err := calc.ToggleFlag(ctx, input, domain.SEROLOGY)
	require.NoError(t, err)
	assert.True(t, next.Serology)
	assert.True(t, result.Positive)
	assert.Equal(t, domain.NEPHRITIS_SHORTCUT, result.Rule)

	next, result, err = calc.ToggleFlag(ctx, next, domain.NEPHRITIS)
	require.NoError(t, err)
	assert.False(t, next.Nephritis)
	assert.False(t, result.Positive)
	assert.Equal(t, MessageNotMet, result.Message)

	_, _, err = calc.ToggleFlag(ctx, input, "BIOPSY")
	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "flag", validationErr.Field)
}

func TestCalculatorService_ToggleFlag_NilInput(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})

	next, result, err := calc.ToggleFlag(context.Background(), nil, domain.NEPHRITIS)

	require.NoError(t, err)
	assert.True(t, next.Nephritis)
	assert.False(t, result.Positive)
}

func TestCalculatorService_Toggle_NilInput(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})

	next, result, err := calc.Toggle(context.Background(), nil, domain.CLINICAL, "Renal")

	require.NoError(t, err)
	assert.Equal(t, []string{"Renal"}, next.Clinical.Names())
	assert.Equal(t, 1, result.TotalCount)
}

func TestCalculatorService_GenerateReport(t *testing.T) {
	renderer := &stubRenderer{}
	calc := newTestCalculator(renderer)

	input := domain.NewEvaluationInput(false, false,
		[]string{"Synovitis", "Serositis"},
		[]string{"Anti-Sm", "Low complement"})

	report, err := calc.GenerateReport(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "sle_diagnosis_report.pdf", report.FileName)
	assert.Equal(t, "application/pdf", report.MIMEType)
	assert.Equal(t, []byte("%PDF-stub"), report.Content)
	assert.Equal(t, testNow, report.GeneratedAt)
	assert.True(t, report.Result.Positive)

	require.NotNil(t, renderer.data)
	assert.Equal(t, []string{"Synovitis", "Serositis"}, renderer.data.ClinicalSelected)
	assert.Equal(t, []string{"Anti-Sm", "Low complement"}, renderer.data.ImmunologicSelected)
	assert.Equal(t, 4, renderer.data.Total)
	assert.True(t, renderer.data.Positive)
	assert.Equal(t, testNow, renderer.data.GeneratedAt)
}

func TestCalculatorService_GenerateReport_RenderFailure(t *testing.T) {
	backendErr := domain.NewRenderError(errors.New("allocation failed"))
	calc := newTestCalculator(&stubRenderer{err: backendErr})

	report, err := calc.GenerateReport(context.Background(), domain.NewEvaluationInput(true, true, nil, nil))

	assert.Nil(t, report)
	var renderErr *domain.SLICCError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, domain.ErrReportRender, renderErr.Code)
}

func TestCalculatorService_GenerateReport_InvalidInput(t *testing.T) {
	renderer := &stubRenderer{}
	calc := newTestCalculator(renderer)

	_, err := calc.GenerateReport(context.Background(), domain.NewEvaluationInput(false, false, []string{"Fever"}, nil))

	assert.Error(t, err)
	assert.Nil(t, renderer.data, "renderer must not run for invalid input")
}

func TestCalculatorService_Catalog(t *testing.T) {
	calc := newTestCalculator(&stubRenderer{})

	view := calc.Catalog()

	assert.Len(t, view.Clinical, 11)
	assert.Len(t, view.Immunologic, 6)
}
