package validation

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/logic"
)

// LogicLayer checks the reasoning chain, causality, data support and the
// declared hypotheses. It only runs for logic puzzles or when root-cause
// analysis is required.
type LogicLayer struct {
	cfg         LogicConfig
	classifiers []logic.Classifier
}

func (l *LogicLayer) Name() string { return "logic" }
func (l *LogicLayer) Max() float64 { return l.cfg.Max }

func (l *LogicLayer) Check(a *answer.Answer, c *challenge.Challenge) LayerResult {
	if !c.LogicApplies() {
		return inapplicable(l.Name(), l.cfg.Max)
	}
	if a == nil {
		return failed(l.Name(), l.cfg.Max)
	}
	s := newScorer(l.Name(), l.cfg.Max)
	text := reasoningText(a)

	chain := logic.Analyze(text, l.classifiers)
	for _, g := range chain.Gaps {
		s.deduct(Issue{
			Type:    IssueLogicGap,
			Subject: fmt.Sprintf("statements %d-%d", g.From+1, g.To+1),
			Message: fmt.Sprintf("%q jumps to %q without explaining why", g.Evidence, g.Conclusion),
			Points:  l.cfg.Gap,
		})
	}

	if c.Rules.MustExplainCausality {
		n := utf8.RuneCountInString(text)
		if !logic.HasCausalLanguage(text) || n < l.cfg.MinCausalChars {
			s.deduct(Issue{
				Type:    IssueNoCausality,
				Message: fmt.Sprintf("explain the cause and effect in at least %d characters", l.cfg.MinCausalChars),
				Points:  l.cfg.NoCausality,
			})
		}
	}

	if c.Rules.MustProvideDataSupport {
		n := logic.CountDataPoints(text)
		if n < l.cfg.MinDataPoints || !logic.HasComparison(text) {
			s.deduct(Issue{
				Type:    IssueInsufficientData,
				Message: fmt.Sprintf("support the argument with at least %d data points and a comparison (found %d)", l.cfg.MinDataPoints, n),
				Points:  l.cfg.InsufficientData,
			})
		}
	}

	for i, h := range a.Hypotheses {
		subject := fmt.Sprintf("hypotheses[%d]", i)
		if utf8.RuneCountInString(h.Reasoning) < l.cfg.MinHypothesisReasoning {
			s.deduct(Issue{
				Type:    IssueWeakHypothesis,
				Subject: subject,
				Message: fmt.Sprintf("hypothesis %d needs at least %d characters of reasoning", i+1, l.cfg.MinHypothesisReasoning),
				Points:  l.cfg.WeakHypothesis,
			})
		}
		if h.ValidationMethod == "" {
			s.deduct(Issue{
				Type:    IssueMissingValidation,
				Subject: subject,
				Message: fmt.Sprintf("hypothesis %d has no validation method", i+1),
				Points:  l.cfg.MissingValidation,
			})
		}
	}

	for _, b := range a.Breakdowns {
		total := 0.0
		for _, v := range b.Shares {
			total += v
		}
		if math.Abs(total-100) > l.cfg.BreakdownTolerance {
			s.deduct(Issue{
				Type:    IssueContradiction,
				Subject: b.Name,
				Message: fmt.Sprintf("breakdown %q sums to %.1f%%, not 100%%", b.Name, total),
				Points:  l.cfg.Contradiction,
			})
		}
	}
	return s.finish(l.cfg.PassAt)
}

// reasoningText picks the prose the logic checks read: the reasoning
// block, else the explanation, else the free text.
func reasoningText(a *answer.Answer) string {
	switch {
	case a.Reasoning != "":
		return a.Reasoning
	case a.Explanation != "":
		return a.Explanation
	default:
		return a.Text
	}
}
