package feasibility

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/tolerance"
)

// Constraint names as they appear in challenge definitions.
const (
	ConstraintCACMax       = "cac_max"
	ConstraintBudgetWindow = "budget_first_3_months"
	ConstraintTeamSize     = "team_size_max_multiplier"
	ConstraintMinGrowth    = "mom_growth_min"
	ConstraintBudgetTotal  = "budget_total"
)

const budgetWindowMonths = 3

// Violation is a breached hard constraint. Every violation is critical:
// it forces a failed outcome regardless of score.
type Violation struct {
	Constraint string
	Message    string
	Actual     float64
	Limit      float64
}

// Checker runs the feasibility checks with a fixed configuration.
type Checker struct {
	cfg Config
}

// NewChecker creates a Checker.
func NewChecker(cfg Config) *Checker {
	return &Checker{cfg: cfg}
}

// CheckConstraints validates the plan against the CAC ceiling, the
// budget-window ceiling, the team-size ceiling and the growth floor.
// Each rule is independent. Rules whose inputs are absent are skipped.
func (c *Checker) CheckConstraints(plan *answer.Plan, cons challenge.Constraints) []Violation {
	if plan == nil {
		return nil
	}
	var out []Violation

	if cons.CACMax != nil && plan.CAC != nil && *plan.CAC > *cons.CACMax {
		out = append(out, Violation{
			Constraint: ConstraintCACMax,
			Message:    fmt.Sprintf("CAC %.2f exceeds the ceiling of %.2f", *plan.CAC, *cons.CACMax),
			Actual:     *plan.CAC,
			Limit:      *cons.CACMax,
		})
	}

	if cons.BudgetFirst3Months != nil && len(plan.MonthlyBudget) > 0 {
		n := min(budgetWindowMonths, len(plan.MonthlyBudget))
		spent := sum(plan.MonthlyBudget[:n])
		if spent > *cons.BudgetFirst3Months {
			out = append(out, Violation{
				Constraint: ConstraintBudgetWindow,
				Message:    fmt.Sprintf("first %d months spend %.2f, more than the %.2f allowed", n, spent, *cons.BudgetFirst3Months),
				Actual:     spent,
				Limit:      *cons.BudgetFirst3Months,
			})
		}
	}

	if cons.TeamSizeMaxMultiplier != nil {
		if team, ok := c.teamSize(plan); ok {
			limit := float64(c.cfg.BaselineTeamSize) * *cons.TeamSizeMaxMultiplier
			if float64(team) > limit {
				out = append(out, Violation{
					Constraint: ConstraintTeamSize,
					Message:    fmt.Sprintf("team of %d exceeds %.0f (%d x %.1f)", team, limit, c.cfg.BaselineTeamSize, *cons.TeamSizeMaxMultiplier),
					Actual:     float64(team),
					Limit:      limit,
				})
			}
		}
	}

	if cons.MoMGrowthMin != nil && len(plan.MonthlyGrowth) > 0 {
		lowest := plan.MonthlyGrowth[0]
		for _, g := range plan.MonthlyGrowth[1:] {
			lowest = min(lowest, g)
		}
		if lowest < *cons.MoMGrowthMin {
			out = append(out, Violation{
				Constraint: ConstraintMinGrowth,
				Message:    fmt.Sprintf("lowest monthly growth %.1f%% is below the %.1f%% floor", lowest, *cons.MoMGrowthMin),
				Actual:     lowest,
				Limit:      *cons.MoMGrowthMin,
			})
		}
	}

	return out
}

// CheckAllocation compares the sum of allocation entries (or channel
// budgets when no allocation is declared) with the required total.
// Returns nil when no total is required, nothing is declared, or the sum
// is within the allocation tolerance.
func (c *Checker) CheckAllocation(plan *answer.Plan, cons challenge.Constraints) *Violation {
	if plan == nil || cons.BudgetTotal == nil {
		return nil
	}
	var total float64
	switch {
	case len(plan.Allocation) > 0:
		for _, l := range plan.Allocation {
			total += l.Amount
		}
	case len(plan.Channels) > 0:
		for _, ch := range plan.Channels {
			total += ch.Budget
		}
	default:
		return nil
	}
	if tolerance.WithinRelative(total, *cons.BudgetTotal, c.cfg.AllocationTolerancePct) {
		return nil
	}
	return &Violation{
		Constraint: ConstraintBudgetTotal,
		Message:    fmt.Sprintf("allocations sum to %.2f, required total is %.2f", total, *cons.BudgetTotal),
		Actual:     total,
		Limit:      *cons.BudgetTotal,
	}
}

// teamSize returns the declared team size, or the baseline plus planned
// hires when only a hiring plan is declared.
func (c *Checker) teamSize(plan *answer.Plan) (int, bool) {
	if plan.TeamSize != nil {
		return *plan.TeamSize, true
	}
	if len(plan.Hiring) == 0 {
		return 0, false
	}
	team := c.cfg.BaselineTeamSize
	for _, h := range plan.Hiring {
		team += h.Hires
	}
	return team, true
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
