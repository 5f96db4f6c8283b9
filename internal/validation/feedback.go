package validation

import (
	"fmt"

	"github.com/abhisek/growthlab/internal/grade"
)

func feedback(o Outcome) []string {
	var lines []string
	if o.Penalties.DirectFail {
		lines = append(lines, "Too many failed attempts in a row: this attempt is an automatic fail.")
	}
	for _, l := range o.Layers {
		switch {
		case !l.Applicable:
			continue
		case len(l.Issues) == 0:
			lines = append(lines, fmt.Sprintf("%s: %.0f/%.0f, no issues", l.Layer, l.Score, l.Max))
		default:
			lines = append(lines, fmt.Sprintf("%s: %.0f/%.0f", l.Layer, l.Score, l.Max))
			for _, is := range l.Issues {
				lines = append(lines, "  - "+is.Message)
			}
		}
	}
	for _, c := range o.Critical {
		lines = append(lines, "Critical: "+c.Message)
	}
	for _, p := range o.Penalties.Applied {
		if p.Points > 0 {
			lines = append(lines, fmt.Sprintf("Penalty -%.1f: %s", p.Points, p.Reason))
		}
	}
	return lines
}

func nextSteps(o Outcome) []string {
	if o.Passed {
		steps := []string{fmt.Sprintf("Passed with grade %s.", o.Grade.Letter)}
		if o.Grade.Unlocks > 0 {
			steps = append(steps, fmt.Sprintf("%d new challenge(s) can unlock.", o.Grade.Unlocks))
		}
		if o.Grade.WeakPoint {
			steps = append(steps, "Marked as a weak point: it will come back for review.")
		}
		return steps
	}

	var steps []string
	if o.Penalties.DirectFail {
		steps = append(steps, "Review the worked examples for this topic before trying again.")
	}
	for _, e := range o.DetailedErrors {
		switch {
		case e.Missing() && e.Hint != "":
			steps = append(steps, fmt.Sprintf("Report %s: you submitted %q, did you mean it?", e.Variable, e.Hint))
		case e.Missing():
			steps = append(steps, fmt.Sprintf("Calculate and report %s.", e.Variable))
		default:
			steps = append(steps, fmt.Sprintf("Recheck your calculation of %s.", e.Variable))
		}
	}
	for _, l := range o.Layers {
		if l.Passed || l.Layer == "calculation" {
			continue
		}
		steps = append(steps, fmt.Sprintf("Address the %s issues listed above.", l.Layer))
	}
	if len(o.Critical) > 0 {
		steps = append(steps, "Fix the critical problems: they fail the answer at any score.")
	}
	if o.Grade.Letter == grade.F || len(steps) == 0 {
		steps = append(steps, "Revise and resubmit.")
	}
	return steps
}
