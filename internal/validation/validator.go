// Package validation runs the five scoring layers over a submitted answer
// and combines them with the penalty rules into a final outcome.
//
// Validation is a pure function of (answer, challenge, session): it never
// mutates the session and keeps no state between calls. Irregular input is
// reported as issues, never as errors.
package validation

import (
	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/feasibility"
	"github.com/abhisek/growthlab/internal/grade"
	"github.com/abhisek/growthlab/internal/penalty"
	"github.com/abhisek/growthlab/internal/session"
)

// Outcome is the result of validating one answer.
type Outcome struct {
	Passed    bool           `json:"passed"`
	Score     float64        `json:"score"`
	BaseScore float64        `json:"base_score"`
	Penalties penalty.Result `json:"penalties"`
	Grade     grade.Decision `json:"grade"`
	Layers    []LayerResult  `json:"layer_results"`

	// Critical lists the issues that forced a fail regardless of score.
	Critical []Issue `json:"critical,omitempty"`

	Feedback       []string           `json:"feedback"`
	DetailedErrors []CalculationError `json:"detailed_errors,omitempty"`
	NextSteps      []string           `json:"next_steps"`
}

// Layer returns the result of the named layer.
func (o *Outcome) Layer(name string) (LayerResult, bool) {
	for _, l := range o.Layers {
		if l.Layer == name {
			return l, true
		}
	}
	return LayerResult{}, false
}

// Validator runs the five layers in a fixed order.
type Validator struct {
	cfg          Config
	format       *FormatLayer
	completeness *CompletenessLayer
	calculation  *CalculationLayer
	logic        *LogicLayer
	feasibility  *FeasibilityLayer
}

// New builds a Validator from cfg. Nil classifiers fall back to the
// default lexical set.
func New(cfg Config) *Validator {
	classifiers := cfg.Classifiers
	if classifiers == nil {
		classifiers = DefaultConfig().Classifiers
	}
	return &Validator{
		cfg:          cfg,
		format:       &FormatLayer{cfg: cfg.Format},
		completeness: &CompletenessLayer{cfg: cfg.Completeness},
		calculation:  &CalculationLayer{cfg: cfg.Calculation},
		logic:        &LogicLayer{cfg: cfg.Logic, classifiers: classifiers},
		feasibility: &FeasibilityLayer{
			cfg:     cfg.Feasibility,
			checker: feasibility.NewChecker(cfg.Feasibility.Checker),
		},
	}
}

// Layers returns the layers in evaluation order.
func (v *Validator) Layers() []Layer {
	return []Layer{v.format, v.completeness, v.calculation, v.logic, v.feasibility}
}

// Validate scores a against c under the counters in s. A nil a stands for
// a submission that was not a structured object: the format layer fails
// it at zero and no other layer inspects it.
func (v *Validator) Validate(a *answer.Answer, c *challenge.Challenge, s *session.Session) Outcome {
	var out Outcome
	layers := v.Layers()
	if a == nil {
		out.Layers = append(out.Layers, v.format.Check(nil, c))
		for _, l := range layers[1:] {
			out.Layers = append(out.Layers, failed(l.Name(), l.Max()))
		}
	} else {
		for _, l := range layers {
			out.Layers = append(out.Layers, l.Check(a, c))
		}
	}

	for _, r := range out.Layers {
		out.BaseScore += r.Score
	}

	out.Critical = v.critical(out.Layers, c)
	out.Penalties = v.cfg.Penalty.Compute(findings(out.Layers), s)
	out.Score = max(0, out.BaseScore-out.Penalties.Total)
	out.Grade = v.cfg.Grades.Decide(out.Score)
	out.Passed = out.Score >= v.cfg.PassScore &&
		len(out.Critical) == 0 &&
		!out.Penalties.DirectFail &&
		out.Grade.Pass

	calc := out.Layers[2]
	out.DetailedErrors = calc.Errors
	out.Feedback = feedback(out)
	out.NextSteps = nextSteps(out)
	return out
}

// critical collects the fail-forcing issues: any critical feasibility
// issue, and a failed format layer when work must be shown.
func (v *Validator) critical(layers []LayerResult, c *challenge.Challenge) []Issue {
	var out []Issue
	if f := layers[0]; !f.Passed && c.Rules.MustShowWork {
		out = append(out, Issue{
			Type:     IssueMissingSection,
			Subject:  f.Layer,
			Message:  "format requirements failed while showing work is required",
			Critical: true,
		})
	}
	out = append(out, layers[4].Critical()...)
	return out
}

func findings(layers []LayerResult) penalty.Findings {
	return penalty.Findings{
		CalculationErrors:    len(layers[2].Errors),
		LogicGaps:            layers[3].Count(IssueLogicGap),
		ConstraintViolations: layers[4].Count(IssueConstraintViolation),
	}
}
