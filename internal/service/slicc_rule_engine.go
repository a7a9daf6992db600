package service

import (
	"github.com/sirupsen/logrus"

	"github.com/slicc-sle-calculator/internal/domain"
)

// Result messages of the SLICC 2012 rule.
const (
	MessageNephritisShortcut = "SLE criteria met by lupus nephritis shortcut."
	MessageSLICC2012         = "SLE criteria met by SLICC 2012 rules (≥4 total with ≥1 clinical & ≥1 immunologic)."
	MessageNotMet            = "SLE criteria NOT met."
)

// SLICC 2012 thresholds.
const (
	MinClinicalCriteria    = 1
	MinImmunologicCriteria = 1
	MinTotalCriteria       = 4
)

// SLICCRuleEngine implements the SLICC 2012 classification rule for SLE.
// The biopsy-proven nephritis shortcut is checked before the count rule.
type SLICCRuleEngine struct {
	logger *logrus.Logger
}

// NewSLICCRuleEngine creates a new SLICC rule engine
func NewSLICCRuleEngine(logger *logrus.Logger) *SLICCRuleEngine {
	return &SLICCRuleEngine{logger: logger}
}

// Evaluate applies the rule and returns whether SLE is classified and why.
func (e *SLICCRuleEngine) Evaluate(nephritis, serology bool, clinicalCount, immunologicCount, totalCount int) (bool, string) {
	outcome := determineOutcome(nephritis, serology, clinicalCount, immunologicCount, totalCount)
	return outcome.IsPositive(), OutcomeMessage(outcome)
}

// Outcome returns which branch of the rule applies.
func (e *SLICCRuleEngine) Outcome(nephritis, serology bool, clinicalCount, immunologicCount, totalCount int) domain.RuleOutcome {
	outcome := determineOutcome(nephritis, serology, clinicalCount, immunologicCount, totalCount)

	e.logger.WithFields(logrus.Fields{
		"nephritis":         nephritis,
		"serology":          serology,
		"clinical_count":    clinicalCount,
		"immunologic_count": immunologicCount,
		"total_count":       totalCount,
		"outcome":           outcome.String(),
	}).Debug("Applied SLICC 2012 rule")

	return outcome
}

func determineOutcome(nephritis, serology bool, clinicalCount, immunologicCount, totalCount int) domain.RuleOutcome {
	if nephritis && serology {
		return domain.NEPHRITIS_SHORTCUT
	}

	if clinicalCount >= MinClinicalCriteria &&
		immunologicCount >= MinImmunologicCriteria &&
		totalCount >= MinTotalCriteria {
		return domain.SLICC_2012
	}

	return domain.NOT_MET
}

// OutcomeMessage returns the clinician-facing message for an outcome.
func OutcomeMessage(outcome domain.RuleOutcome) string {
	switch outcome {
	case domain.NEPHRITIS_SHORTCUT:
		return MessageNephritisShortcut
	case domain.SLICC_2012:
		return MessageSLICC2012
	default:
		return MessageNotMet
	}
}
