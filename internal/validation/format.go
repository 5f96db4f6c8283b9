package validation

import (
	"fmt"
	"strings"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
)

// FormatLayer checks that the answer is a structured object and carries
// the sections the challenge rules ask for.
type FormatLayer struct {
	cfg FormatConfig
}

func (l *FormatLayer) Name() string { return "format" }
func (l *FormatLayer) Max() float64 { return l.cfg.Max }

func (l *FormatLayer) Check(a *answer.Answer, c *challenge.Challenge) LayerResult {
	if a == nil {
		res := failed(l.Name(), l.cfg.Max)
		res.Issues = []Issue{{
			Type:    IssueMalformed,
			Message: "answer is not a structured object",
			Points:  l.cfg.Max,
		}}
		return res
	}
	s := newScorer(l.Name(), l.cfg.Max)

	r := c.Rules
	if r.MustShowWork && !a.Has(answer.SectionCalculations) {
		s.missing(answer.SectionCalculations)
		s.deduct(Issue{
			Type:    IssueMissingSection,
			Subject: answer.SectionCalculations,
			Message: "show your work: the calculations block is missing",
			Points:  l.cfg.NoCalculations,
		})
	}
	if r.MustExplain && !a.Has(answer.SectionExplanation) {
		s.missing(answer.SectionExplanation)
		s.deduct(Issue{
			Type:    IssueMissingSection,
			Subject: answer.SectionExplanation,
			Message: "an explanation is required",
			Points:  l.cfg.NoExplanation,
		})
	}
	if r.MinWordCount > 0 {
		if n := wordCount(a); n < r.MinWordCount {
			s.deduct(Issue{
				Type:    IssueWordCount,
				Message: fmt.Sprintf("answer has %d words, at least %d required", n, r.MinWordCount),
				Points:  l.cfg.BelowWordCount,
			})
		}
	}
	return s.finish(l.cfg.PassAt)
}

// wordCount counts whitespace-separated words across the answer's prose.
func wordCount(a *answer.Answer) int {
	n := 0
	for _, t := range []string{a.Text, a.Reasoning, a.Explanation} {
		n += len(strings.Fields(t))
	}
	return n
}
