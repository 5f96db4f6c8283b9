package validation

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/tolerance"
)

// IssueType tags a structured problem found by a layer.
type IssueType string

const (
	IssueMalformed           IssueType = "malformed"
	IssueMissingSection      IssueType = "missing_section"
	IssueWordCount           IssueType = "word_count"
	IssueMissingElement      IssueType = "missing_element"
	IssueMissingCalculation  IssueType = "missing_calculation"
	IssueCalculationError    IssueType = "calculation_error"
	IssueMissingWork         IssueType = "missing_work"
	IssueLogicGap            IssueType = "logic_gap"
	IssueNoCausality         IssueType = "no_causality"
	IssueInsufficientData    IssueType = "insufficient_data"
	IssueWeakHypothesis      IssueType = "weak_hypothesis"
	IssueMissingValidation   IssueType = "missing_validation"
	IssueContradiction       IssueType = "contradiction"
	IssueInconsistency       IssueType = "inconsistency"
	IssueConstraintViolation IssueType = "constraint_violation"
	IssueBudgetMismatch      IssueType = "budget_mismatch"
	IssueResource            IssueType = "resource"
	IssueTimeline            IssueType = "timeline"
	IssueRealism             IssueType = "realism"
)

// Issue is one problem reported by a layer.
type Issue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`

	// Subject names the offending item (variable, section, channel...).
	Subject string `json:"subject,omitempty"`

	// Points is the deduction taken for this issue, before clamping.
	Points float64 `json:"points"`

	// Critical issues force a fail regardless of score.
	Critical bool `json:"critical,omitempty"`
}

// CalculationError describes a required calculation that was missing or
// outside its tolerance.
type CalculationError struct {
	Variable string  `json:"variable"`
	Expected float64 `json:"expected"`

	// Actual is nil when the variable was not submitted.
	Actual *float64 `json:"actual,omitempty"`

	// ErrorPercent is the relative error. It is nil when the variable was
	// not submitted or when expected is zero and actual is not, where the
	// relative error is unbounded.
	ErrorPercent *float64           `json:"error_percent,omitempty"`
	Severity     tolerance.Severity `json:"-"`
	Tolerance    tolerance.Spec     `json:"tolerance"`
	Points       float64            `json:"points"`

	// Hint suggests a submitted variable name close to Variable.
	Hint string `json:"hint,omitempty"`
}

// Missing reports whether no value was submitted.
func (e CalculationError) Missing() bool { return e.Actual == nil }

func (e CalculationError) String() string {
	if e.Missing() {
		s := fmt.Sprintf("%s: missing (expected %g)", e.Variable, e.Expected)
		if e.Hint != "" {
			s += fmt.Sprintf(", did you mean %q?", e.Hint)
		}
		return s
	}
	if e.ErrorPercent == nil {
		return fmt.Sprintf("%s: got %g, expected %g (tolerance %s)",
			e.Variable, *e.Actual, e.Expected, e.Tolerance)
	}
	return fmt.Sprintf("%s: got %g, expected %g (%.2f%% off, tolerance %s)",
		e.Variable, *e.Actual, e.Expected, *e.ErrorPercent, e.Tolerance)
}
