package domain

import (
	"context"
)

// RuleEvaluator applies the SLICC 2012 classification rule.
type RuleEvaluator interface {
	Evaluate(nephritis, serology bool, clinicalCount, immunologicCount, totalCount int) (bool, string)
	Outcome(nephritis, serology bool, clinicalCount, immunologicCount, totalCount int) RuleOutcome
}

// ReportRenderer turns an evaluation into a binary document
type ReportRenderer interface {
	Render(data *ReportData) ([]byte, error)
}

// Calculator is the use-case surface shared by the HTTP, MCP and CLI front-ends
type Calculator interface {
	Catalog() CatalogView
	Evaluate(ctx context.Context, input *EvaluationInput) (*EvaluationResult, error)
	GenerateReport(ctx context.Context, input *EvaluationInput) (*Report, error)
	Toggle(ctx context.Context, input *EvaluationInput, group CriterionGroup, name string) (*EvaluationInput, *EvaluationResult, error)
	ToggleFlag(ctx context.Context, input *EvaluationInput, flag Flag) (*EvaluationInput, *EvaluationResult, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetReportConfig() *ReportConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
