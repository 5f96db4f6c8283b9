// Package penalty turns layer findings and session counters into a score
// penalty. It never mutates the session.
package penalty

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/session"
)

// Kind identifies a penalty rule.
type Kind string

const (
	KindCalculation Kind = "calculation_error"
	KindLogicGap    Kind = "logic_gap"
	KindConstraint  Kind = "constraint_violation"
	KindStreak      Kind = "streak_multiplier"
	KindDirectFail  Kind = "direct_fail"
)

// Config holds the escalation tables.
type Config struct {
	Calculation      Ladder      `yaml:"calculation" validate:"dive"`
	LogicGap         Ladder      `yaml:"logic_gap" validate:"dive"`
	ConstraintFlat   float64     `yaml:"constraint_flat" validate:"gte=0"`
	Streak           StreakTable `yaml:"streak" validate:"dive"`
	DirectFailStreak int         `yaml:"direct_fail_streak" validate:"gte=1"`
	DirectFailTotal  float64     `yaml:"direct_fail_total" validate:"gte=0"`
}

// DefaultConfig returns the standard escalation: calculation errors
// 0/10/20, logic gaps 5/15/30, a flat 25 for constraint violations, streak
// factors 1.5/2/3 for streaks of 2/3/4 and a direct fail from 5.
func DefaultConfig() Config {
	return Config{
		Calculation:      Ladder{{From: 1, Points: 0}, {From: 2, Points: 10}, {From: 3, Points: 20}},
		LogicGap:         Ladder{{From: 1, Points: 5}, {From: 2, Points: 15}, {From: 3, Points: 30}},
		ConstraintFlat:   25,
		Streak:           StreakTable{{MinStreak: 2, Factor: 1.5}, {MinStreak: 3, Factor: 2.0}, {MinStreak: 4, Factor: 3.0}},
		DirectFailStreak: 5,
		DirectFailTotal:  100,
	}
}

// Findings is what the penalty rules read from the layer results.
type Findings struct {
	CalculationErrors    int
	LogicGaps            int
	ConstraintViolations int
}

// Applied is one penalty record.
type Applied struct {
	Kind   Kind    `json:"kind"`
	Points float64 `json:"points"`
	Reason string  `json:"reason"`
}

// Result is the penalty for one validation call.
type Result struct {
	Total      float64   `json:"total_penalty"`
	Applied    []Applied `json:"applied"`
	DirectFail bool      `json:"direct_fail,omitempty"`
	Multiplier float64   `json:"multiplier"`
}

// Compute applies the rules to f under the counters in s. A nil session
// reads as the first attempt with no streak.
//
// The streak multiplier scales the penalties computed in this call only,
// not anything accumulated across earlier calls.
func (c Config) Compute(f Findings, s *session.Session) Result {
	attempt, streak := s.Attempt(), s.Streak()

	if streak >= c.DirectFailStreak {
		return Result{
			Total:      c.DirectFailTotal,
			DirectFail: true,
			Multiplier: 1,
			Applied: []Applied{{
				Kind:   KindDirectFail,
				Points: c.DirectFailTotal,
				Reason: fmt.Sprintf("%d consecutive failed attempts", streak),
			}},
		}
	}

	res := Result{Multiplier: 1}
	if f.CalculationErrors > 0 {
		pts := c.Calculation.At(attempt)
		reason := fmt.Sprintf("%d calculation error(s) on attempt %d", f.CalculationErrors, attempt)
		if pts == 0 {
			reason += " (warning only)"
		}
		res.add(KindCalculation, pts, reason)
	}
	if f.LogicGaps > 0 {
		res.add(KindLogicGap, c.LogicGap.At(attempt),
			fmt.Sprintf("%d logic gap(s) on attempt %d", f.LogicGaps, attempt))
	}
	if f.ConstraintViolations > 0 {
		res.add(KindConstraint, c.ConstraintFlat,
			fmt.Sprintf("%d hard constraint violation(s)", f.ConstraintViolations))
	}

	if factor := c.Streak.Factor(streak); factor > 1 && res.Total > 0 {
		extra := res.Total*factor - res.Total
		res.Multiplier = factor
		res.Applied = append(res.Applied, Applied{
			Kind:   KindStreak,
			Points: extra,
			Reason: fmt.Sprintf("error streak of %d: penalties x%.1f", streak, factor),
		})
		res.Total += extra
	}
	return res
}

func (r *Result) add(k Kind, pts float64, reason string) {
	r.Applied = append(r.Applied, Applied{Kind: k, Points: pts, Reason: reason})
	r.Total += pts
}
