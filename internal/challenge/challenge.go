package challenge

import "github.com/abhisek/growthlab/internal/tolerance"

// Type selects which validation layers apply substantive checks.
type Type string

const (
	TypeCalculation    Type = "calculation"
	TypeLogicPuzzle    Type = "logic_puzzle"
	TypeStrategyDesign Type = "strategy_design"
	TypeComprehensive  Type = "comprehensive"
)

// Challenge is one scoring exercise. It is loaded with the catalog and
// never mutated afterwards.
type Challenge struct {
	ID          string `yaml:"id" validate:"required,min=1,max=100"`
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Type        Type   `yaml:"type" validate:"required,oneof=calculation logic_puzzle strategy_design comprehensive"`

	// RequiredCalculations are graded in order by the calculation layer.
	RequiredCalculations []RequiredCalculation `yaml:"required_calculations" validate:"dive"`

	ExpectedElements ExpectedElements `yaml:"expected_elements"`
	Rules            Rules            `yaml:"validation_rules"`
	Constraints      Constraints      `yaml:"constraints"`

	// Prerequisites are challenge IDs that must be passed before this one unlocks.
	Prerequisites []string `yaml:"prerequisites" validate:"dive,required"`
}

// RequiredCalculation is one expected numeric result.
type RequiredCalculation struct {
	Variable  string          `yaml:"variable" validate:"required"`
	Expected  float64         `yaml:"expected"`
	Formula   string          `yaml:"formula"`
	Tolerance *tolerance.Spec `yaml:"tolerance" validate:"omitempty"`
}

// ToleranceOrDefault returns the declared tolerance or the package default.
func (r RequiredCalculation) ToleranceOrDefault() tolerance.Spec {
	if r.Tolerance != nil {
		return *r.Tolerance
	}
	return tolerance.Default()
}

// ExpectedElements lists the structural elements an answer must contain.
type ExpectedElements struct {
	// Sections are answer sections that must be present, e.g. "budget".
	Sections []string `yaml:"sections" validate:"dive,required"`

	Hypotheses *HypothesisRequirement `yaml:"hypotheses"`
	Experiment *ExperimentRequirement `yaml:"experiment_design"`
}

// HypothesisRequirement asks for at least MinCount hypotheses, each with
// every field in RequiredFields.
type HypothesisRequirement struct {
	MinCount       int      `yaml:"min_count" validate:"gte=0"`
	RequiredFields []string `yaml:"required_fields" validate:"dive,oneof=statement reasoning validation_method metric"`
}

// ExperimentRequirement asks for an experiment design with every field in
// RequiredFields.
type ExperimentRequirement struct {
	RequiredFields []string `yaml:"required_fields" validate:"dive,oneof=control_group sample_size duration_days success_metric variants"`
}

// Rules are the flat validation flags of a challenge.
type Rules struct {
	MustShowWork           bool `yaml:"must_show_work"`
	MustExplain            bool `yaml:"must_explain"`
	MinWordCount           int  `yaml:"min_word_count" validate:"gte=0"`
	MustExplainCausality   bool `yaml:"must_explain_causality"`
	MustProvideDataSupport bool `yaml:"must_provide_data_support"`
	MustAnalyzeRootCause   bool `yaml:"must_analyze_root_cause"`
	FeasibilityCheck       bool `yaml:"feasibility_check"`
}

// Constraints are hard numeric limits on a declared plan. Nil means unset.
type Constraints struct {
	CACMax                *float64 `yaml:"cac_max" validate:"omitempty,gt=0"`
	BudgetFirst3Months    *float64 `yaml:"budget_first_3_months" validate:"omitempty,gt=0"`
	TeamSizeMaxMultiplier *float64 `yaml:"team_size_max_multiplier" validate:"omitempty,gt=0"`
	MoMGrowthMin          *float64 `yaml:"mom_growth_min"`
	BudgetTotal           *float64 `yaml:"budget_total" validate:"omitempty,gt=0"`
	TargetTotal           *float64 `yaml:"target_total" validate:"omitempty,gt=0"`
}

// LogicApplies reports whether the logic layer runs substantive checks.
func (c *Challenge) LogicApplies() bool {
	return c.Type == TypeLogicPuzzle || c.Rules.MustAnalyzeRootCause
}

// FeasibilityApplies reports whether the feasibility layer runs substantive checks.
func (c *Challenge) FeasibilityApplies() bool {
	return c.Type == TypeStrategyDesign || c.Rules.FeasibilityCheck
}
