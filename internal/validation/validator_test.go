package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/grade"
	"github.com/abhisek/growthlab/internal/logic"
	"github.com/abhisek/growthlab/internal/session"
	"github.com/abhisek/growthlab/internal/tolerance"
)

func f(v float64) *float64 { return &v }

func first() *session.Session { return &session.Session{Attempts: 1} }

func ltvChallenge() *challenge.Challenge {
	abs := tolerance.Absolute(0.01)
	return &challenge.Challenge{
		ID:    "ltv-basics",
		Title: "Customer lifetime value",
		Type:  challenge.TypeCalculation,
		RequiredCalculations: []challenge.RequiredCalculation{
			{Variable: "ltv", Expected: 480, Formula: "arpu * lifetime_months", Tolerance: &abs},
		},
	}
}

func ltvAnswer(result float64) *answer.Answer {
	return &answer.Answer{
		Calculations: []answer.Calculation{
			{Name: "ltv_calc", Variable: "ltv", Formula: "40 * 12", Result: f(result)},
		},
	}
}

func strategyChallenge(cons challenge.Constraints) *challenge.Challenge {
	return &challenge.Challenge{
		ID:          "launch-plan",
		Title:       "Launch plan",
		Type:        challenge.TypeStrategyDesign,
		Constraints: cons,
	}
}

func layer(t *testing.T, o Outcome, name string) LayerResult {
	t.Helper()
	l, ok := o.Layer(name)
	require.True(t, ok, "layer %s", name)
	return l
}

func TestValidate_ExactCalculationFullCredit(t *testing.T) {
	o := New(DefaultConfig()).Validate(ltvAnswer(480), ltvChallenge(), first())

	calc := layer(t, o, "calculation")
	assert.Equal(t, 25.0, calc.Score)
	assert.Empty(t, calc.Errors)
	assert.Equal(t, 100.0, o.BaseScore)
	assert.True(t, o.Passed)
	assert.Equal(t, grade.APlus, o.Grade.Letter)
}

func TestValidate_ModerateCalculationError(t *testing.T) {
	o := New(DefaultConfig()).Validate(ltvAnswer(550), ltvChallenge(), first())

	calc := layer(t, o, "calculation")
	require.Len(t, calc.Errors, 1)
	e := calc.Errors[0]
	require.NotNil(t, e.ErrorPercent)
	assert.InDelta(t, 14.58, *e.ErrorPercent, 0.01)
	assert.Equal(t, tolerance.SeverityModerate, e.Severity)
	assert.Equal(t, 3.0, e.Points)
	assert.Equal(t, 22.0, calc.Score)
	assert.True(t, calc.Passed)

	// First attempt: the calculation penalty is a warning only.
	assert.Zero(t, o.Penalties.Total)
	assert.Equal(t, 97.0, o.Score)
	assert.Equal(t, o.DetailedErrors, calc.Errors)
}

func TestValidate_ZeroExpectedWrongValueEncodes(t *testing.T) {
	tol := tolerance.Absolute(0.5)
	c := &challenge.Challenge{
		ID:                   "flat-churn",
		Title:                "Flat churn",
		Type:                 challenge.TypeCalculation,
		RequiredCalculations: []challenge.RequiredCalculation{{Variable: "net_churn", Expected: 0, Tolerance: &tol}},
	}
	o := New(DefaultConfig()).Validate(&answer.Answer{Fields: map[string]float64{"net_churn": 3}}, c, first())

	calc := layer(t, o, "calculation")
	require.Len(t, calc.Errors, 1)
	e := calc.Errors[0]
	assert.Nil(t, e.ErrorPercent, "relative error against zero is unbounded")
	assert.Equal(t, tolerance.SeverityMajor, e.Severity)
	assert.Equal(t, 5.0, e.Points)
	assert.Equal(t, "net_churn: got 3, expected 0 (tolerance ±0.5)", e.String())

	_, err := json.Marshal(o)
	require.NoError(t, err)
}

func TestValidate_ConstraintViolationForcesFail(t *testing.T) {
	c := strategyChallenge(challenge.Constraints{CACMax: f(4500)})
	a := &answer.Answer{Plan: &answer.Plan{CAC: f(5200)}}

	o := New(DefaultConfig()).Validate(a, c, first())

	feas := layer(t, o, "feasibility")
	require.Equal(t, 1, feas.Count(IssueConstraintViolation))
	assert.Equal(t, 10.0, feas.Score, "15 minus the 5-point violation")
	assert.Equal(t, 95.0, o.BaseScore)
	assert.Equal(t, 25.0, o.Penalties.Total)
	assert.Equal(t, 70.0, o.Score)
	assert.False(t, o.Passed, "critical violation fails even at a passing score")
	require.Len(t, o.Critical, 1)
	assert.True(t, o.Grade.Pass, "the grade band alone still passes")
}

func TestValidate_ThirdAttemptCalculationPenalty(t *testing.T) {
	o := New(DefaultConfig()).Validate(ltvAnswer(550), ltvChallenge(), &session.Session{Attempts: 3})
	assert.Equal(t, 20.0, o.Penalties.Total)
	assert.Equal(t, 1.0, o.Penalties.Multiplier)
	assert.Equal(t, 77.0, o.Score)
}

func TestValidate_StreakExhaustionIsDirectFail(t *testing.T) {
	o := New(DefaultConfig()).Validate(ltvAnswer(480), ltvChallenge(), &session.Session{Attempts: 1, ErrorStreak: 5})
	assert.True(t, o.Penalties.DirectFail)
	assert.Equal(t, 100.0, o.Penalties.Total)
	assert.Equal(t, 100.0, o.BaseScore)
	assert.Zero(t, o.Score)
	assert.False(t, o.Passed)
}

func TestValidate_AllocationWithinOnePercent(t *testing.T) {
	c := strategyChallenge(challenge.Constraints{BudgetTotal: f(150000)})
	a := &answer.Answer{Plan: &answer.Plan{Allocation: []answer.BudgetLine{
		{Name: "paid", Amount: 90000},
		{Name: "content", Amount: 58500},
	}}}
	o := New(DefaultConfig()).Validate(a, c, first())

	feas := layer(t, o, "feasibility")
	assert.Zero(t, feas.Count(IssueBudgetMismatch))
	assert.Equal(t, 15.0, feas.Score)
	assert.True(t, o.Passed)
}

func TestValidate_AllocationMismatchIsCritical(t *testing.T) {
	c := strategyChallenge(challenge.Constraints{BudgetTotal: f(150000)})
	a := &answer.Answer{Plan: &answer.Plan{Allocation: []answer.BudgetLine{{Name: "paid", Amount: 120000}}}}
	o := New(DefaultConfig()).Validate(a, c, first())

	feas := layer(t, o, "feasibility")
	assert.Equal(t, 1, feas.Count(IssueBudgetMismatch))
	assert.Equal(t, 11.0, feas.Score)
	assert.Zero(t, o.Penalties.Total, "mismatch is not a constraint_violation penalty")
	assert.False(t, o.Passed)
}

func TestValidate_MalformedAnswer(t *testing.T) {
	o := New(DefaultConfig()).Validate(nil, ltvChallenge(), first())

	fmtLayer := layer(t, o, "format")
	assert.False(t, fmtLayer.Passed)
	assert.Zero(t, fmtLayer.Score)
	assert.Equal(t, 1, fmtLayer.Count(IssueMalformed))
	assert.Zero(t, o.BaseScore)
	assert.False(t, o.Passed)
	assert.Equal(t, grade.F, o.Grade.Letter)
}

func TestValidate_ShowWorkFailureIsCritical(t *testing.T) {
	c := ltvChallenge()
	c.Rules.MustShowWork = true
	a := &answer.Answer{Fields: map[string]float64{"ltv": 480}}

	o := New(DefaultConfig()).Validate(a, c, first())

	assert.Equal(t, 10.0, layer(t, o, "format").Score)
	calc := layer(t, o, "calculation")
	assert.Equal(t, 23.0, calc.Score, "correct value, but no work shown")
	assert.Equal(t, 1, calc.Count(IssueMissingWork))
	assert.Empty(t, calc.Errors)
	require.NotEmpty(t, o.Critical)
	assert.False(t, o.Passed)
}

func TestValidate_MissingVariableIsNotZero(t *testing.T) {
	a := &answer.Answer{Fields: map[string]float64{"LTV_": 480}}
	o := New(DefaultConfig()).Validate(a, ltvChallenge(), first())

	calc := layer(t, o, "calculation")
	require.Len(t, calc.Errors, 1)
	e := calc.Errors[0]
	assert.True(t, e.Missing())
	assert.Nil(t, e.ErrorPercent)
	assert.Equal(t, 5.0, e.Points)
	assert.Equal(t, "LTV_", e.Hint)
	assert.Equal(t, 20.0, calc.Score)

	comp := layer(t, o, "completeness")
	assert.Equal(t, 17.0, comp.Score)
	assert.Contains(t, comp.Missing, "ltv")
	assert.Contains(t, strings.Join(o.Feedback, "\n"), `did you mean "LTV_"?`)
}

func TestValidate_CompletenessElements(t *testing.T) {
	c := &challenge.Challenge{
		ID:    "exp",
		Title: "Experiment",
		Type:  challenge.TypeComprehensive,
		ExpectedElements: challenge.ExpectedElements{
			Sections:   []string{answer.SectionStrategy},
			Hypotheses: &challenge.HypothesisRequirement{MinCount: 2, RequiredFields: []string{"statement", "metric"}},
			Experiment: &challenge.ExperimentRequirement{RequiredFields: []string{"control_group", "sample_size"}},
		},
	}
	a := &answer.Answer{
		Hypotheses: []answer.Hypothesis{{Statement: "Shorter onboarding lifts activation"}},
		Experiment: &answer.Experiment{ControlGroup: "current flow"},
	}
	comp := layer(t, New(DefaultConfig()).Validate(a, c, first()), "completeness")

	// strategy -5, count -5, metric -2, sample_size -2
	assert.Equal(t, 6.0, comp.Score)
	assert.False(t, comp.Passed)
	assert.ElementsMatch(t, []string{"strategy", "hypotheses", "hypotheses[0].metric", "experiment_design.sample_size"}, comp.Missing)
}

func TestValidate_LogicGapAndHypotheses(t *testing.T) {
	c := &challenge.Challenge{ID: "churn", Title: "Churn spike", Type: challenge.TypeLogicPuzzle}
	a := &answer.Answer{
		Reasoning: "Signups fell 30% in March. Therefore the pricing change failed.",
		Hypotheses: []answer.Hypothesis{
			{Statement: "Pricing", Reasoning: "too short"},
		},
		Breakdowns: []answer.Breakdown{{Name: "churn reasons", Shares: []float64{50, 30}}},
	}
	o := New(DefaultConfig()).Validate(a, c, first())

	lg := layer(t, o, "logic")
	assert.Equal(t, 1, lg.Count(IssueLogicGap))
	assert.Equal(t, 1, lg.Count(IssueWeakHypothesis))
	assert.Equal(t, 1, lg.Count(IssueMissingValidation))
	assert.Equal(t, 1, lg.Count(IssueContradiction))
	assert.Equal(t, 9.0, lg.Score) // 20 - 3 - 2 - 2 - 4
	assert.Equal(t, 5.0, o.Penalties.Total, "first-attempt logic gap")
}

// The lexical classifier flags this gap even though a reader might accept
// the leap; an override classifier is how a reviewer corrects it.
func TestValidate_OverrideClassifierRemovesFalsePositive(t *testing.T) {
	c := &challenge.Challenge{ID: "churn", Title: "Churn spike", Type: challenge.TypeLogicPuzzle}
	a := &answer.Answer{Reasoning: "Signups fell 30% in March. Therefore the pricing change failed."}

	cfg := DefaultConfig()
	cfg.Classifiers = append([]logic.Classifier{&logic.OverrideClassifier{
		Roles: map[string]logic.Role{"therefore the pricing change failed": logic.RoleClaim},
	}}, cfg.Classifiers...)

	lg := layer(t, New(cfg).Validate(a, c, first()), "logic")
	assert.Zero(t, lg.Count(IssueLogicGap))
	assert.Equal(t, 20.0, lg.Score)
}

func TestValidate_CausalityAndDataSupport(t *testing.T) {
	c := &challenge.Challenge{
		ID:    "rca",
		Title: "Root cause",
		Type:  challenge.TypeComprehensive,
		Rules: challenge.Rules{MustAnalyzeRootCause: true, MustExplainCausality: true, MustProvideDataSupport: true},
	}
	weak := &answer.Answer{Reasoning: "Retention dropped."}
	lg := layer(t, New(DefaultConfig()).Validate(weak, c, first()), "logic")
	assert.Equal(t, 1, lg.Count(IssueNoCausality))
	assert.Equal(t, 1, lg.Count(IssueInsufficientData))
	assert.Equal(t, 11.0, lg.Score)

	strong := &answer.Answer{Reasoning: "Because the onboarding email was removed on 3 March, " +
		"day-7 retention fell from 42% to 31%, which is lower than the 40% seen in January and February. " +
		"Cohorts after 2025 show the same 11 point drop"}
	lg = layer(t, New(DefaultConfig()).Validate(strong, c, first()), "logic")
	assert.Zero(t, lg.Count(IssueNoCausality))
	assert.Zero(t, lg.Count(IssueInsufficientData))
}

func TestValidate_InapplicableLayersGiveFullScore(t *testing.T) {
	c := &challenge.Challenge{ID: "plain", Title: "Plain", Type: challenge.TypeCalculation}
	o := New(DefaultConfig()).Validate(&answer.Answer{Text: "hello"}, c, first())
	for _, name := range []string{"calculation", "logic", "feasibility"} {
		l := layer(t, o, name)
		assert.True(t, l.Passed, name)
		assert.Equal(t, l.Max, l.Score, name)
		assert.False(t, l.Applicable, name)
	}
}

func TestValidate_FeasibilityHeuristics(t *testing.T) {
	c := strategyChallenge(challenge.Constraints{})
	a := &answer.Answer{Plan: &answer.Plan{
		MonthlyGrowth: []float64{60, 70},
		Hiring:        []answer.HiringStep{{Month: 1, Hires: 5}},
		Milestones:    []answer.Milestone{{Name: "rebuild", Complexity: answer.ComplexityHigh, DurationDays: 10}},
	}}
	feas := layer(t, New(DefaultConfig()).Validate(a, c, first()), "feasibility")
	require.NotNil(t, feas.Realism)
	assert.Equal(t, 8, *feas.Realism)
	assert.Equal(t, 1, feas.Count(IssueResource))
	assert.Equal(t, 1, feas.Count(IssueTimeline))
	assert.Equal(t, 9.0, feas.Score) // 15 - 2 - 2 - 2
	assert.False(t, feas.Passed)
	assert.Empty(t, feas.Critical(), "soft findings never force a fail")
}

func TestValidate_ScoreBounds(t *testing.T) {
	var many []challenge.RequiredCalculation
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		many = append(many, challenge.RequiredCalculation{Variable: v, Expected: 100})
	}
	harsh := &challenge.Challenge{
		ID:                   "harsh",
		Title:                "Everything",
		Type:                 challenge.TypeComprehensive,
		RequiredCalculations: many,
		ExpectedElements:     challenge.ExpectedElements{Sections: []string{"strategy", "budget", "timeline", "resources", "channels"}},
		Rules: challenge.Rules{
			MustShowWork: true, MustExplain: true, MinWordCount: 500,
			MustAnalyzeRootCause: true, MustExplainCausality: true, MustProvideDataSupport: true,
			FeasibilityCheck: true,
		},
		Constraints: challenge.Constraints{CACMax: f(10), MoMGrowthMin: f(90)},
	}
	answers := []*answer.Answer{
		nil,
		{},
		{Text: "x", Plan: &answer.Plan{CAC: f(9999), MonthlyGrowth: []float64{500}}},
		ltvAnswer(-1e9),
	}
	v := New(DefaultConfig())
	for _, c := range []*challenge.Challenge{harsh, ltvChallenge(), strategyChallenge(challenge.Constraints{})} {
		for i, a := range answers {
			o := v.Validate(a, c, first())
			require.Len(t, o.Layers, 5)
			sum := 0.0
			for _, l := range o.Layers {
				assert.GreaterOrEqual(t, l.Score, 0.0, "%s answer %d %s", c.ID, i, l.Layer)
				assert.LessOrEqual(t, l.Score, l.Max, "%s answer %d %s", c.ID, i, l.Layer)
				sum += l.Score
			}
			assert.Equal(t, sum, o.BaseScore)
			assert.LessOrEqual(t, o.BaseScore, 100.0)
			assert.Equal(t, max(0, o.BaseScore-o.Penalties.Total), o.Score)
		}
	}
}

func TestDefaultConfig_LayerBudgets(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100.0, cfg.TotalMax())
	names := []string{"format", "completeness", "calculation", "logic", "feasibility"}
	maxes := []float64{20, 20, 25, 20, 15}
	for i, l := range New(cfg).Layers() {
		assert.Equal(t, names[i], l.Name())
		assert.Equal(t, maxes[i], l.Max())
	}
}

func TestClosestName(t *testing.T) {
	names := []string{"cac", "ltv_total", "arpu"}
	assert.Equal(t, "arpu", closestName("arpu_", names, 2))
	assert.Equal(t, "", closestName("payback", names, 2))
	assert.Equal(t, "", closestName("ltv", nil, 2))
}
