package feasibility

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/tolerance"
)

// Inconsistency is a cross-field arithmetic mismatch inside a plan.
// Inconsistencies deduct points but never force a fail.
type Inconsistency struct {
	Check    string
	Message  string
	Declared float64
	Computed float64
}

// Finding is a soft resource or timeline warning.
type Finding struct {
	Subject string
	Message string
}

// CheckConsistency verifies per-channel CAC against budget / target
// customers, and the monthly goals against the overall target.
func (c *Checker) CheckConsistency(plan *answer.Plan, cons challenge.Constraints) []Inconsistency {
	if plan == nil {
		return nil
	}
	tol := c.cfg.ConsistencyTolerancePct
	var out []Inconsistency

	for _, ch := range plan.Channels {
		if ch.CAC == nil || ch.Budget <= 0 || ch.TargetCustomers <= 0 {
			continue
		}
		computed := ch.Budget / ch.TargetCustomers
		if !tolerance.WithinRelative(*ch.CAC, computed, tol) {
			out = append(out, Inconsistency{
				Check:    "channel_cac",
				Message:  fmt.Sprintf("channel %q declares CAC %.2f but budget / customers is %.2f", ch.Name, *ch.CAC, computed),
				Declared: *ch.CAC,
				Computed: computed,
			})
		}
	}

	if cons.TargetTotal != nil && len(plan.MonthlyGoals) > 0 {
		goals := sum(plan.MonthlyGoals)
		if !tolerance.WithinRelative(goals, *cons.TargetTotal, tol) {
			out = append(out, Inconsistency{
				Check:    "monthly_goals",
				Message:  fmt.Sprintf("monthly goals sum to %.0f but the overall target is %.0f", goals, *cons.TargetTotal),
				Declared: goals,
				Computed: *cons.TargetTotal,
			})
		}
	}
	return out
}

// RealismScore rates how believable the plan's numbers are, from Max down
// to 0. It is informational input to the feasibility layer, not a constraint.
func (c *Checker) RealismScore(plan *answer.Plan) int {
	r := c.cfg.Realism
	score := r.Max
	if plan == nil {
		return score
	}

	if len(plan.MonthlyGrowth) > 0 {
		avg := sum(plan.MonthlyGrowth) / float64(len(plan.MonthlyGrowth))
		switch {
		case avg > r.ExtremeGrowthPct:
			score -= r.ExtremeGrowthPenalty
		case avg > r.HighGrowthPct:
			score -= r.HighGrowthPenalty
		}
	}

	for _, ch := range plan.Channels {
		if ch.CAC != nil && *ch.CAC < r.MinChannelCAC {
			score -= r.ChannelPenalty
		}
		if ch.ConversionRate != nil && *ch.ConversionRate > r.MaxConversionPct {
			score -= r.ChannelPenalty
		}
	}
	return max(score, 0)
}

// CheckResources flags hiring steps faster than MaxHiresPerMonth.
func (c *Checker) CheckResources(plan *answer.Plan) []Finding {
	if plan == nil {
		return nil
	}
	var out []Finding
	for _, h := range plan.Hiring {
		if h.Hires > c.cfg.MaxHiresPerMonth {
			out = append(out, Finding{
				Subject: fmt.Sprintf("month %d", h.Month),
				Message: fmt.Sprintf("hiring %d people in month %d exceeds %d per month", h.Hires, h.Month, c.cfg.MaxHiresPerMonth),
			})
		}
	}
	return out
}

// CheckTimeline flags high-complexity milestones given less than
// MinHighComplexityDays. Milestones without a duration are not judged.
func (c *Checker) CheckTimeline(plan *answer.Plan) []Finding {
	if plan == nil {
		return nil
	}
	var out []Finding
	for _, m := range plan.Milestones {
		if m.Complexity != answer.ComplexityHigh || m.DurationDays <= 0 {
			continue
		}
		if m.DurationDays < c.cfg.MinHighComplexityDays {
			out = append(out, Finding{
				Subject: m.Name,
				Message: fmt.Sprintf("milestone %q is high complexity but has only %.0f days", m.Name, m.DurationDays),
			})
		}
	}
	return out
}
