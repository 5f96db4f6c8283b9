package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/tolerance"
)

// CalculationLayer grades each required calculation against its expected
// value and tolerance.
type CalculationLayer struct {
	cfg CalculationConfig
}

func (l *CalculationLayer) Name() string { return "calculation" }
func (l *CalculationLayer) Max() float64 { return l.cfg.Max }

func (l *CalculationLayer) Check(a *answer.Answer, c *challenge.Challenge) LayerResult {
	if len(c.RequiredCalculations) == 0 {
		return inapplicable(l.Name(), l.cfg.Max)
	}
	if a == nil {
		return failed(l.Name(), l.cfg.Max)
	}
	s := newScorer(l.Name(), l.cfg.Max)
	submitted := a.VariableNames()

	for _, rc := range c.RequiredCalculations {
		tol := rc.ToleranceOrDefault()
		got, ok := a.Lookup(rc.Variable)
		if !ok {
			ce := CalculationError{
				Variable:  rc.Variable,
				Expected:  rc.Expected,
				Tolerance: tol,
				Points:    l.cfg.Missing,
				Hint:      closestName(rc.Variable, submitted, l.cfg.HintDistance),
			}
			s.res.Errors = append(s.res.Errors, ce)
			s.missing(rc.Variable)
			s.deduct(Issue{
				Type:    IssueMissingCalculation,
				Subject: rc.Variable,
				Message: ce.String(),
				Points:  ce.Points,
			})
			continue
		}

		grade, err := tolerance.ClassifyStrict(got.Value, rc.Expected, tol)
		if errors.Is(err, tolerance.ErrPercentOfZero) {
			// Catalog validation rejects this; grade it as an exact match.
			tol = tolerance.Absolute(0)
			grade, _ = tolerance.ClassifyStrict(got.Value, rc.Expected, tol)
		}
		if grade != tolerance.GradeCorrect {
			errPct := tolerance.ErrorPercent(got.Value, rc.Expected)
			sev := l.cfg.Tiers.Severity(errPct)
			actual := got.Value
			ce := CalculationError{
				Variable:  rc.Variable,
				Expected:  rc.Expected,
				Actual:    &actual,
				Severity:  sev,
				Tolerance: tol,
				Points:    l.severityPoints(sev),
			}
			if !math.IsInf(errPct, 0) {
				ce.ErrorPercent = &errPct
			}
			s.res.Errors = append(s.res.Errors, ce)
			s.deduct(Issue{
				Type:    IssueCalculationError,
				Subject: rc.Variable,
				Message: ce.String(),
				Points:  ce.Points,
			})
		}

		if c.Rules.MustShowWork && !got.ShowsWork() {
			s.deduct(Issue{
				Type:    IssueMissingWork,
				Subject: rc.Variable,
				Message: fmt.Sprintf("show the formula or steps for %s", rc.Variable),
				Points:  l.cfg.NoWork,
			})
		}
	}
	return s.finish(l.cfg.PassAt)
}

func (l *CalculationLayer) severityPoints(sev tolerance.Severity) float64 {
	switch sev {
	case tolerance.SeverityMajor:
		return l.cfg.Major
	case tolerance.SeverityModerate:
		return l.cfg.Moderate
	case tolerance.SeverityMinor:
		return l.cfg.Minor
	default:
		return 0
	}
}
