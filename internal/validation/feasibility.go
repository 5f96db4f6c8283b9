package validation

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/feasibility"
)

// FeasibilityLayer checks a declared plan against the challenge's hard
// constraints and a set of realism heuristics. It only runs for strategy
// design challenges or when a feasibility check is requested.
type FeasibilityLayer struct {
	cfg     FeasibilityConfig
	checker *feasibility.Checker
}

func (l *FeasibilityLayer) Name() string { return "feasibility" }
func (l *FeasibilityLayer) Max() float64 { return l.cfg.Max }

func (l *FeasibilityLayer) Check(a *answer.Answer, c *challenge.Challenge) LayerResult {
	if !c.FeasibilityApplies() {
		return inapplicable(l.Name(), l.cfg.Max)
	}
	if a == nil {
		return failed(l.Name(), l.cfg.Max)
	}
	s := newScorer(l.Name(), l.cfg.Max)
	plan := a.Plan
	if plan == nil {
		s.missing("plan")
		s.deduct(Issue{
			Type:    IssueMissingSection,
			Subject: "plan",
			Message: "no plan was declared, so feasibility cannot be checked",
			Points:  l.cfg.NoPlan,
		})
		return s.finish(l.cfg.PassAt)
	}

	for _, inc := range l.checker.CheckConsistency(plan, c.Constraints) {
		s.deduct(Issue{
			Type:    IssueInconsistency,
			Subject: inc.Check,
			Message: inc.Message,
			Points:  l.cfg.Inconsistency,
		})
	}
	for _, v := range l.checker.CheckConstraints(plan, c.Constraints) {
		s.deduct(Issue{
			Type:     IssueConstraintViolation,
			Subject:  v.Constraint,
			Message:  v.Message,
			Points:   l.cfg.Violation,
			Critical: true,
		})
	}
	if v := l.checker.CheckAllocation(plan, c.Constraints); v != nil {
		s.deduct(Issue{
			Type:     IssueBudgetMismatch,
			Subject:  v.Constraint,
			Message:  v.Message,
			Points:   l.cfg.Allocation,
			Critical: true,
		})
	}
	for _, f := range l.checker.CheckResources(plan) {
		s.deduct(Issue{Type: IssueResource, Subject: f.Subject, Message: f.Message, Points: l.cfg.Resource})
	}
	for _, f := range l.checker.CheckTimeline(plan) {
		s.deduct(Issue{Type: IssueTimeline, Subject: f.Subject, Message: f.Message, Points: l.cfg.Timeline})
	}

	realism := l.checker.RealismScore(plan)
	s.res.Realism = &realism
	if gap := l.cfg.Checker.Realism.Max - realism; gap > 0 {
		s.deduct(Issue{
			Type:    IssueRealism,
			Subject: "realism",
			Message: fmt.Sprintf("realism score %d/%d: growth or channel numbers look optimistic", realism, l.cfg.Checker.Realism.Max),
			Points:  float64(gap),
		})
	}
	return s.finish(l.cfg.PassAt)
}
