package validation

import (
	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
)

// Layer is one scoring pass over an answer.
// Implementations must be stateless and safe for concurrent use.
type Layer interface {
	// Name returns a short identifier, e.g. "format" or "calculation".
	Name() string

	// Max is the layer's point budget.
	Max() float64

	// Check scores the answer. A nil answer means the submission was not
	// a structured object.
	Check(a *answer.Answer, c *challenge.Challenge) LayerResult
}

// LayerResult is the outcome of one layer.
type LayerResult struct {
	Layer  string  `json:"layer"`
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
	Max    float64 `json:"max"`
	Issues []Issue `json:"issues,omitempty"`

	// Applicable is false when the challenge does not call for this
	// layer's checks; the layer then passes at full score.
	Applicable bool `json:"applicable"`

	// Errors are the calculation layer's per-variable errors.
	Errors []CalculationError `json:"errors,omitempty"`

	// Missing lists absent sections, elements or variables.
	Missing []string `json:"missing,omitempty"`

	// Realism is the feasibility layer's realism score, when computed.
	Realism *int `json:"realism,omitempty"`
}

// Count returns the number of issues of type t.
func (r LayerResult) Count(t IssueType) int {
	n := 0
	for _, is := range r.Issues {
		if is.Type == t {
			n++
		}
	}
	return n
}

// Critical returns the issues that force a fail.
func (r LayerResult) Critical() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Critical {
			out = append(out, is)
		}
	}
	return out
}

// scorer accumulates deductions against a fixed budget.
type scorer struct {
	res LayerResult
}

func newScorer(name string, max float64) *scorer {
	return &scorer{res: LayerResult{Layer: name, Max: max, Applicable: true}}
}

func (s *scorer) deduct(is Issue) {
	s.res.Issues = append(s.res.Issues, is)
}

func (s *scorer) missing(name string) {
	s.res.Missing = append(s.res.Missing, name)
}

// finish clamps the score into [0, Max] and applies the pass threshold.
func (s *scorer) finish(passAt float64) LayerResult {
	total := 0.0
	for _, is := range s.res.Issues {
		total += is.Points
	}
	s.res.Score = min(max(s.res.Max-total, 0), s.res.Max)
	s.res.Passed = s.res.Score >= passAt
	return s.res
}

// inapplicable is the full-score result of a layer the challenge does not
// call for.
func inapplicable(name string, max float64) LayerResult {
	return LayerResult{Layer: name, Passed: true, Score: max, Max: max}
}
