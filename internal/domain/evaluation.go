package domain

import (
	"time"
)

// EvaluationResult is the outcome of applying the SLICC rule to one input.
// It is derived data, recomputed on every input change and never persisted.
type EvaluationResult struct {
	Positive            bool        `json:"positive"`
	Message             string      `json:"message"`
	Rule                RuleOutcome `json:"rule"`
	Diagnosis           string      `json:"diagnosis"`
	Nephritis           bool        `json:"nephritis"`
	Serology            bool        `json:"serology"`
	ClinicalSelected    []string    `json:"clinical_selected"`
	ImmunologicSelected []string    `json:"immunologic_selected"`
	ClinicalCount       int         `json:"clinical_count"`
	ImmunologicCount    int         `json:"immunologic_count"`
	TotalCount          int         `json:"total_count"`
	EvaluatedAt         time.Time   `json:"evaluated_at"`
}

// ReportData is everything the report renderer needs from one evaluation.
type ReportData struct {
	ClinicalSelected    []string
	ImmunologicSelected []string
	Total               int
	Positive            bool
	GeneratedAt         time.Time
}

// Report is a rendered, downloadable SLICC report. Content is immutable once
// produced and lives only in memory.
type Report struct {
	ID          string            `json:"report_id"`
	FileName    string            `json:"file_name"`
	MIMEType    string            `json:"mime_type"`
	Content     []byte            `json:"-"`
	Result      *EvaluationResult `json:"result"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Download contract of the exported report.
const (
	ReportFileName = "sle_diagnosis_report.pdf"
	ReportMIMEType = "application/pdf"
)

// ReportData extracts the renderer input from an evaluation result.
func (r *EvaluationResult) ReportData() *ReportData {
	return &ReportData{
		ClinicalSelected:    r.ClinicalSelected,
		ImmunologicSelected: r.ImmunologicSelected,
		Total:               r.TotalCount,
		Positive:            r.Positive,
	}
}

// LogFields returns structured logging fields for the result.
func (r *EvaluationResult) LogFields() map[string]any {
	return map[string]any{
		"positive":          r.Positive,
		"rule":              r.Rule.String(),
		"nephritis":         r.Nephritis,
		"serology":          r.Serology,
		"clinical_count":    r.ClinicalCount,
		"immunologic_count": r.ImmunologicCount,
		"total_count":       r.TotalCount,
	}
}
