// Package domain contains core business entities and types for the SLICC 2012
// classification criteria for systemic lupus erythematosus (SLE).
//
// Reference: Petri M, et al. (2012) Derivation and validation of the Systemic
// Lupus International Collaborating Clinics classification criteria for SLE.
// Arthritis Rheum. 64(8):2677-86. doi: 10.1002/art.34473
package domain

import (
	"errors"
	"strings"
)

// CriterionGroup identifies which SLICC catalog a criterion belongs to.
type CriterionGroup string

const (
	CLINICAL    CriterionGroup = "CLINICAL"
	IMMUNOLOGIC CriterionGroup = "IMMUNOLOGIC"
)

// Flag is one of the two checklist switches feeding the nephritis shortcut.
type Flag string

const (
	NEPHRITIS Flag = "NEPHRITIS"
	SEROLOGY  Flag = "SEROLOGY"
)

// RuleOutcome names the branch of the SLICC rule that produced a result.
type RuleOutcome string

const (
	NEPHRITIS_SHORTCUT RuleOutcome = "NEPHRITIS_SHORTCUT"
	SLICC_2012         RuleOutcome = "SLICC_2012"
	NOT_MET            RuleOutcome = "NOT_MET"
)

// Diagnosis labels as printed in the exported report.
const (
	DiagnosisPositive    = "Positive"
	DiagnosisNotPositive = "Not Positive"
)

var (
	ErrUnknownCriterion = errors.New("unknown SLICC criterion")
	ErrInvalidGroup     = errors.New("invalid criterion group")
	ErrInvalidFlag      = errors.New("invalid checklist flag")
)

// IsValid reports whether the group is one of the two SLICC catalogs.
func (g CriterionGroup) IsValid() bool {
	switch g {
	case CLINICAL, IMMUNOLOGIC:
		return true
	default:
		return false
	}
}

// String returns the string representation of the group.
func (g CriterionGroup) String() string {
	return string(g)
}

// Label returns the human-readable heading used in reports and listings.
func (g CriterionGroup) Label() string {
	switch g {
	case CLINICAL:
		return "Clinical"
	case IMMUNOLOGIC:
		return "Immunologic"
	default:
		return "Unknown"
	}
}

// ParseCriterionGroup accepts the group name in any case, as used by the JSON
// API ("clinical", "immunologic").
func ParseCriterionGroup(s string) (CriterionGroup, error) {
	g := CriterionGroup(strings.ToUpper(s))
	if !g.IsValid() {
		return "", ErrInvalidGroup
	}
	return g, nil
}

// ParseFlag accepts "nephritis" or "serology" in any case.
func ParseFlag(s string) (Flag, error) {
	switch f := Flag(strings.ToUpper(s)); f {
	case NEPHRITIS, SEROLOGY:
		return f, nil
	default:
		return "", ErrInvalidFlag
	}
}

// String returns the string representation of the outcome.
func (o RuleOutcome) String() string {
	return string(o)
}

// IsPositive reports whether the outcome is a positive classification.
func (o RuleOutcome) IsPositive() bool {
	return o == NEPHRITIS_SHORTCUT || o == SLICC_2012
}

// DiagnosisLabel returns the report label for a classification outcome.
func DiagnosisLabel(positive bool) string {
	if positive {
		return DiagnosisPositive
	}
	return DiagnosisNotPositive
}
