package validation

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
)

// CompletenessLayer checks that every expected element and every required
// calculation variable is present. Correctness is not judged here.
type CompletenessLayer struct {
	cfg CompletenessConfig
}

func (l *CompletenessLayer) Name() string { return "completeness" }
func (l *CompletenessLayer) Max() float64 { return l.cfg.Max }

func (l *CompletenessLayer) Check(a *answer.Answer, c *challenge.Challenge) LayerResult {
	if a == nil {
		return failed(l.Name(), l.cfg.Max)
	}
	s := newScorer(l.Name(), l.cfg.Max)
	ee := c.ExpectedElements

	for _, sec := range ee.Sections {
		if !a.Has(sec) {
			s.missing(sec)
			s.deduct(Issue{
				Type:    IssueMissingSection,
				Subject: sec,
				Message: fmt.Sprintf("section %q is missing", sec),
				Points:  l.cfg.MissingSection,
			})
		}
	}

	if req := ee.Hypotheses; req != nil {
		if len(a.Hypotheses) < req.MinCount {
			s.missing(answer.SectionHypotheses)
			s.deduct(Issue{
				Type:    IssueMissingElement,
				Subject: answer.SectionHypotheses,
				Message: fmt.Sprintf("%d hypotheses given, at least %d required", len(a.Hypotheses), req.MinCount),
				Points:  l.cfg.TooFewHypotheses,
			})
		}
		for i, h := range a.Hypotheses {
			for _, f := range req.RequiredFields {
				if hypothesisField(h, f) {
					continue
				}
				subject := fmt.Sprintf("hypotheses[%d].%s", i, f)
				s.missing(subject)
				s.deduct(Issue{
					Type:    IssueMissingElement,
					Subject: subject,
					Message: fmt.Sprintf("hypothesis %d has no %s", i+1, f),
					Points:  l.cfg.MissingSubField,
				})
			}
		}
	}

	if req := ee.Experiment; req != nil {
		if a.Experiment == nil {
			s.missing(answer.SectionExperiment)
			s.deduct(Issue{
				Type:    IssueMissingElement,
				Subject: answer.SectionExperiment,
				Message: "experiment design is missing",
				Points:  l.cfg.MissingExperiment,
			})
		} else {
			for _, f := range req.RequiredFields {
				if experimentField(a.Experiment, f) {
					continue
				}
				subject := answer.SectionExperiment + "." + f
				s.missing(subject)
				s.deduct(Issue{
					Type:    IssueMissingElement,
					Subject: subject,
					Message: fmt.Sprintf("experiment design has no %s", f),
					Points:  l.cfg.MissingSubField,
				})
			}
		}
	}

	for _, rc := range c.RequiredCalculations {
		if _, ok := a.Lookup(rc.Variable); !ok {
			s.missing(rc.Variable)
			s.deduct(Issue{
				Type:    IssueMissingCalculation,
				Subject: rc.Variable,
				Message: fmt.Sprintf("no value submitted for %s", rc.Variable),
				Points:  l.cfg.MissingCalculation,
			})
		}
	}
	return s.finish(l.cfg.PassAt)
}

func hypothesisField(h answer.Hypothesis, field string) bool {
	switch field {
	case "statement":
		return h.Statement != ""
	case "reasoning":
		return h.Reasoning != ""
	case "validation_method":
		return h.ValidationMethod != ""
	case "metric":
		return h.Metric != ""
	}
	return false
}

func experimentField(e *answer.Experiment, field string) bool {
	switch field {
	case "control_group":
		return e.ControlGroup != ""
	case "sample_size":
		return e.SampleSize > 0
	case "duration_days":
		return e.DurationDays > 0
	case "success_metric":
		return e.SuccessMetric != ""
	case "variants":
		return len(e.Variants) > 0
	}
	return false
}

// failed is the zero-score result of a layer that cannot inspect a
// malformed answer.
func failed(name string, max float64) LayerResult {
	return LayerResult{Layer: name, Max: max, Applicable: true}
}
