package challenge

import (
	"testing"

	"github.com/abhisek/growthlab/internal/tolerance"
)

func tol(s tolerance.Spec) *tolerance.Spec { return &s }

func validChallenge() *Challenge {
	return &Challenge{
		ID:    "ltv-basics",
		Title: "Compute LTV",
		Type:  TypeCalculation,
		RequiredCalculations: []RequiredCalculation{
			{Variable: "ltv", Expected: 480, Tolerance: tol(tolerance.Absolute(0.01))},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validChallenge().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Challenge)
	}{
		{"missing id", func(c *Challenge) { c.ID = "" }},
		{"bad type", func(c *Challenge) { c.Type = "essay" }},
		{"missing variable", func(c *Challenge) { c.RequiredCalculations[0].Variable = "" }},
		{"bad tolerance kind", func(c *Challenge) {
			c.RequiredCalculations[0].Tolerance = &tolerance.Spec{Kind: "fuzzy", Value: 1}
		}},
		{"zero expected with percent", func(c *Challenge) {
			c.RequiredCalculations[0].Expected = 0
			c.RequiredCalculations[0].Tolerance = tol(tolerance.Percent(5))
		}},
		{"zero expected with default", func(c *Challenge) {
			c.RequiredCalculations[0].Expected = 0
			c.RequiredCalculations[0].Tolerance = nil
		}},
		{"duplicate variable", func(c *Challenge) {
			c.RequiredCalculations = append(c.RequiredCalculations, c.RequiredCalculations[0])
		}},
		{"self prerequisite", func(c *Challenge) { c.Prerequisites = []string{c.ID} }},
		{"negative cac max", func(c *Challenge) {
			v := -1.0
			c.Constraints.CACMax = &v
		}},
		{"bad hypothesis field", func(c *Challenge) {
			c.ExpectedElements.Hypotheses = &HypothesisRequirement{MinCount: 1, RequiredFields: []string{"vibes"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validChallenge()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_ZeroExpectedAbsoluteOK(t *testing.T) {
	c := validChallenge()
	c.RequiredCalculations[0].Expected = 0
	c.RequiredCalculations[0].Tolerance = tol(tolerance.Absolute(0.5))
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplies(t *testing.T) {
	c := &Challenge{Type: TypeCalculation}
	if c.LogicApplies() || c.FeasibilityApplies() {
		t.Error("calculation challenge should not apply logic or feasibility")
	}
	c.Rules.MustAnalyzeRootCause = true
	c.Rules.FeasibilityCheck = true
	if !c.LogicApplies() || !c.FeasibilityApplies() {
		t.Error("rule flags should enable logic and feasibility")
	}
	if !(&Challenge{Type: TypeLogicPuzzle}).LogicApplies() {
		t.Error("logic puzzle should apply logic")
	}
	if !(&Challenge{Type: TypeStrategyDesign}).FeasibilityApplies() {
		t.Error("strategy design should apply feasibility")
	}
}

func TestToleranceOrDefault(t *testing.T) {
	rc := RequiredCalculation{Variable: "x", Expected: 10}
	if got := rc.ToleranceOrDefault(); got != tolerance.Default() {
		t.Errorf("got %v, want default", got)
	}
}
