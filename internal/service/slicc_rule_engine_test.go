package service

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/slicc-sle-calculator/internal/domain"
)

func newTestRuleEngine() *SLICCRuleEngine {
	logger, _ := test.NewNullLogger()
	return NewSLICCRuleEngine(logger)
}

func TestSLICCRuleEngine_Evaluate(t *testing.T) {
	engine := newTestRuleEngine()

	tests := []struct {
		name             string
		nephritis        bool
		serology         bool
		clinical         int
		immunologic      int
		expectedPositive bool
		expectedMessage  string
		expectedOutcome  domain.RuleOutcome
	}{
		{
			name:             "single oral ulcer is not enough",
			clinical:         1,
			expectedPositive: false,
			expectedMessage:  MessageNotMet,
			expectedOutcome:  domain.NOT_MET,
		},
		{
			name:             "nephritis shortcut with no criteria",
			nephritis:        true,
			serology:         true,
			expectedPositive: true,
			expectedMessage:  MessageNephritisShortcut,
			expectedOutcome:  domain.NEPHRITIS_SHORTCUT,
		},
		{
			name:             "two clinical and two immunologic",
			clinical:         2,
			immunologic:      2,
			expectedPositive: true,
			expectedMessage:  MessageSLICC2012,
			expectedOutcome:  domain.SLICC_2012,
		},
		{
			name:             "four clinical without immunologic",
			clinical:         4,
			expectedPositive: false,
			expectedMessage:  MessageNotMet,
			expectedOutcome:  domain.NOT_MET,
		},
		{
			name:             "shortcut takes precedence over count rule",
			nephritis:        true,
			serology:         true,
			clinical:         3,
			immunologic:      3,
			expectedPositive: true,
			expectedMessage:  MessageNephritisShortcut,
			expectedOutcome:  domain.NEPHRITIS_SHORTCUT,
		},
		{
			name:             "nephritis without serology falls through",
			nephritis:        true,
			clinical:         1,
			immunologic:      1,
			expectedPositive: false,
			expectedMessage:  MessageNotMet,
			expectedOutcome:  domain.NOT_MET,
		},
		{
			name:             "four immunologic without clinical",
			immunologic:      4,
			expectedPositive: false,
			expectedMessage:  MessageNotMet,
			expectedOutcome:  domain.NOT_MET,
		},
		{
			name:             "three total is not enough",
			clinical:         2,
			immunologic:      1,
			expectedPositive: false,
			expectedMessage:  MessageNotMet,
			expectedOutcome:  domain.NOT_MET,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := tt.clinical + tt.immunologic
			positive, message := engine.Evaluate(tt.nephritis, tt.serology, tt.clinical, tt.immunologic, total)

			assert.Equal(t, tt.expectedPositive, positive)
			assert.Equal(t, tt.expectedMessage, message)
			assert.Equal(t, tt.expectedOutcome, engine.Outcome(tt.nephritis, tt.serology, tt.clinical, tt.immunologic, total))
		})
	}
}

// TestSLICCRuleEngine_Exhaustive checks every combination reachable from the
// two catalogs against the rule definition.
func TestSLICCRuleEngine_Exhaustive(t *testing.T) {
	engine := newTestRuleEngine()
	clinicalMax := domain.ClinicalCatalog().Len()
	immunologicMax := domain.ImmunologicCatalog().Len()

	for _, nephritis := range []bool{false, true} {
		for _, serology := range []bool{false, true} {
			for c := 0; c <= clinicalMax; c++ {
				for i := 0; i <= immunologicMax; i++ {
					total := c + i
					positive, message := engine.Evaluate(nephritis, serology, c, i, total)
					label := fmt.Sprintf("nephritis=%v serology=%v clinical=%d immunologic=%d", nephritis, serology, c, i)

					switch {
					case nephritis && serology:
						assert.True(t, positive, label)
						assert.Contains(t, message, "met by lupus nephritis shortcut", label)
					case c >= 1 && i >= 1 && total >= 4:
						assert.True(t, positive, label)
						assert.Contains(t, message, "met by SLICC 2012 rules", label)
					default:
						assert.False(t, positive, label)
						assert.Contains(t, message, "criteria NOT met", label)
					}
				}
			}
		}
	}
}

func TestOutcomeMessage(t *testing.T) {
	assert.Equal(t, MessageNephritisShortcut, OutcomeMessage(domain.NEPHRITIS_SHORTCUT))
	assert.Equal(t, MessageSLICC2012, OutcomeMessage(domain.SLICC_2012))
	assert.Equal(t, MessageNotMet, OutcomeMessage(domain.NOT_MET))
	assert.Equal(t, MessageNotMet, OutcomeMessage("UNKNOWN"))
}
