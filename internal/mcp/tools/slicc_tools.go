package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
)

// Tool names exposed to MCP clients.
const (
	ListCriteriaTool   = "list_slicc_criteria"
	EvaluateTool       = "evaluate_slicc_criteria"
	GenerateReportTool = "generate_slicc_report"
)

// ListCriteriaParams takes no arguments.
type ListCriteriaParams struct{}

// CriterionInfo describes one selectable criterion.
type CriterionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListCriteriaResult lists both SLICC catalogs in order.
type ListCriteriaResult struct {
	Clinical    []CriterionInfo `json:"clinical"`
	Immunologic []CriterionInfo `json:"immunologic"`
}

// EvaluateParams is the checklist state sent by the client.
type EvaluateParams struct {
	Nephritis   bool     `json:"nephritis,omitempty" jsonschema:"biopsy-proven nephritis compatible with SLE"`
	Serology    bool     `json:"serology,omitempty" jsonschema:"ANA or anti-dsDNA antibodies present"`
	Clinical    []string `json:"clinical,omitempty" jsonschema:"selected clinical criteria names, see list_slicc_criteria"`
	Immunologic []string `json:"immunologic,omitempty" jsonschema:"selected immunologic criteria names, see list_slicc_criteria"`
}

// EvaluateResult is the outcome of evaluate_slicc_criteria.
type EvaluateResult struct {
	Positive            bool     `json:"positive"`
	Diagnosis           string   `json:"diagnosis"`
	Message             string   `json:"message"`
	Rule                string   `json:"rule"`
	ClinicalSelected    []string `json:"clinical_selected"`
	ImmunologicSelected []string `json:"immunologic_selected"`
	ClinicalCount       int      `json:"clinical_count"`
	ImmunologicCount    int      `json:"immunologic_count"`
	TotalCount          int      `json:"total_count"`
	EvaluatedAt         string   `json:"evaluated_at"`
}

// GenerateReportResult carries the rendered PDF.
type GenerateReportResult struct {
	ReportID      string `json:"report_id"`
	FileName      string `json:"file_name"`
	MIMEType      string `json:"mime_type"`
	Diagnosis     string `json:"diagnosis"`
	Message       string `json:"message"`
	TotalCount    int    `json:"total_count"`
	SizeBytes     int    `json:"size_bytes"`
	ContentBase64 string `json:"content_base64"`
	GeneratedAt   string `json:"generated_at"`
}

// SLICCTools implements the SLICC calculator MCP tools.
type SLICCTools struct {
	logger     *logrus.Logger
	calculator domain.Calculator
}

// NewSLICCTools creates the tool set backed by calculator.
func NewSLICCTools(logger *logrus.Logger, calculator domain.Calculator) *SLICCTools {
	return &SLICCTools{
		logger:     logger,
		calculator: calculator,
	}
}

// Register adds every SLICC tool to the MCP server.
func (t *SLICCTools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ListCriteriaTool,
		Description: "List the SLICC 2012 clinical and immunologic criteria that can be selected",
	}, t.HandleListCriteria)
	t.logger.WithField("tool", ListCriteriaTool).Debug("Registered MCP tool")

	mcp.AddTool(server, &mcp.Tool{
		Name:        EvaluateTool,
		Description: "Evaluate the SLICC 2012 classification criteria for systemic lupus erythematosus",
	}, t.HandleEvaluate)
	t.logger.WithField("tool", EvaluateTool).Debug("Registered MCP tool")

	mcp.AddTool(server, &mcp.Tool{
		Name:        GenerateReportTool,
		Description: "Evaluate the SLICC 2012 criteria and render the result as a PDF report",
	}, t.HandleGenerateReport)
	t.logger.WithField("tool", GenerateReportTool).Debug("Registered MCP tool")

	t.logger.WithField("tool_count", 3).Info("Successfully registered all SLICC tools")
}

// HandleListCriteria handles the list_slicc_criteria tool invocation
func (t *SLICCTools) HandleListCriteria(ctx context.Context, req *mcp.CallToolRequest, params ListCriteriaParams) (*mcp.CallToolResult, ListCriteriaResult, error) {
	t.logger.WithField("tool", ListCriteriaTool).Info("Tool invoked")

	view := t.calculator.Catalog()
	result := ListCriteriaResult{
		Clinical:    toCriterionInfo(view.Clinical),
		Immunologic: toCriterionInfo(view.Immunologic),
	}

	var b strings.Builder
	writeGroup(&b, "Clinical criteria", result.Clinical)
	writeGroup(&b, "Immunologic criteria", result.Immunologic)

	return textResult(b.String()), result, nil
}

// HandleEvaluate handles the evaluate_slicc_criteria tool invocation
func (t *SLICCTools) HandleEvaluate(ctx context.Context, req *mcp.CallToolRequest, params EvaluateParams) (*mcp.CallToolResult, EvaluateResult, error) {
	t.logger.WithField("tool", EvaluateTool).Info("Tool invoked")

	res, err := t.calculator.Evaluate(ctx, toInput(params))
	if err != nil {
		return errorResult("Evaluation failed", err), EvaluateResult{}, nil
	}

	result := toEvaluateResult(res)
	text := fmt.Sprintf("Diagnosis: %s. %s Total criteria selected: %d (%d clinical, %d immunologic).",
		result.Diagnosis, result.Message, result.TotalCount, result.ClinicalCount, result.ImmunologicCount)

	return textResult(text), result, nil
}

// HandleGenerateReport handles the generate_slicc_report tool invocation
func (t *SLICCTools) HandleGenerateReport(ctx context.Context, req *mcp.CallToolRequest, params EvaluateParams) (*mcp.CallToolResult, GenerateReportResult, error) {
	t.logger.WithField("tool", GenerateReportTool).Info("Tool invoked")

	report, err := t.calculator.GenerateReport(ctx, toInput(params))
	if err != nil {
		return errorResult("Report generation failed", err), GenerateReportResult{}, nil
	}

	result := GenerateReportResult{
		ReportID:      report.ID,
		FileName:      report.FileName,
		MIMEType:      report.MIMEType,
		Diagnosis:     report.Result.Diagnosis,
		Message:       report.Result.Message,
		TotalCount:    report.Result.TotalCount,
		SizeBytes:     len(report.Content),
		ContentBase64: base64.StdEncoding.EncodeToString(report.Content),
		GeneratedAt:   report.GeneratedAt.Format(time.RFC3339),
	}

	t.logger.WithFields(logrus.Fields{
		"report_id": result.ReportID,
		"diagnosis": result.Diagnosis,
	}).Info("Report generation completed")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Generated %s (%d bytes). Diagnosis: %s.", result.FileName, result.SizeBytes, result.Diagnosis),
			},
			&mcp.EmbeddedResource{
				Resource: &mcp.ResourceContents{
					URI:      "slicc://reports/" + result.ReportID + "/" + result.FileName,
					MIMEType: result.MIMEType,
					Blob:     report.Content,
				},
			},
		},
	}, result, nil
}

func toInput(params EvaluateParams) *domain.EvaluationInput {
	return domain.NewEvaluationInput(params.Nephritis, params.Serology, params.Clinical, params.Immunologic)
}

func toEvaluateResult(res *domain.EvaluationResult) EvaluateResult {
	return EvaluateResult{
		Positive:            res.Positive,
		Diagnosis:           res.Diagnosis,
		Message:             res.Message,
		Rule:                res.Rule.String(),
		ClinicalSelected:    res.ClinicalSelected,
		ImmunologicSelected: res.ImmunologicSelected,
		ClinicalCount:       res.ClinicalCount,
		ImmunologicCount:    res.ImmunologicCount,
		TotalCount:          res.TotalCount,
		EvaluatedAt:         res.EvaluatedAt.Format(time.RFC3339),
	}
}

func toCriterionInfo(criteria []domain.Criterion) []CriterionInfo {
	out := make([]CriterionInfo, len(criteria))
	for i, c := range criteria {
		out[i] = CriterionInfo{Name: c.Name, Description: c.Description}
	}
	return out
}

func writeGroup(b *strings.Builder, heading string, criteria []CriterionInfo) {
	b.WriteString(heading)
	b.WriteString(":\n")
	for _, c := range criteria {
		b.WriteString("- ")
		b.WriteString(c.Name)
		if c.Description != "" {
			b.WriteString(" (")
			b.WriteString(c.Description)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult reports a tool-level failure to the client without failing the
// JSON-RPC call.
func errorResult(message string, err error) *mcp.CallToolResult {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		message = "Invalid parameters"
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %v", message, err)},
		},
	}
}
