package validation

import (
	"github.com/abhisek/growthlab/internal/feasibility"
	"github.com/abhisek/growthlab/internal/grade"
	"github.com/abhisek/growthlab/internal/logic"
	"github.com/abhisek/growthlab/internal/penalty"
	"github.com/abhisek/growthlab/internal/tolerance"
)

// Config holds every tunable threshold of the validator. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	// PassScore is the minimum final score for a pass.
	PassScore float64 `yaml:"pass_score" validate:"gte=0,lte=100"`

	Format       FormatConfig       `yaml:"format"`
	Completeness CompletenessConfig `yaml:"completeness"`
	Calculation  CalculationConfig  `yaml:"calculation"`
	Logic        LogicConfig        `yaml:"logic"`
	Feasibility  FeasibilityConfig  `yaml:"feasibility"`

	Penalty penalty.Config `yaml:"penalty"`
	Grades  grade.Table    `yaml:"grades" validate:"min=1,dive"`

	// Classifiers label reasoning statements for the logic layer, run in
	// order. Replace to plug in a different heuristic or a reviewed override.
	Classifiers []logic.Classifier `yaml:"-"`
}

// Budget is a layer's point budget and pass threshold.
type Budget struct {
	Max    float64 `yaml:"max" validate:"gt=0"`
	PassAt float64 `yaml:"pass_at" validate:"gte=0,ltefield=Max"`
}

// FormatConfig tunes layer 1.
type FormatConfig struct {
	Budget         `yaml:",inline"`
	NoCalculations float64 `yaml:"no_calculations" validate:"gte=0"`
	NoExplanation  float64 `yaml:"no_explanation" validate:"gte=0"`
	BelowWordCount float64 `yaml:"below_word_count" validate:"gte=0"`
}

// CompletenessConfig tunes layer 2.
type CompletenessConfig struct {
	Budget             `yaml:",inline"`
	MissingSection     float64 `yaml:"missing_section" validate:"gte=0"`
	TooFewHypotheses   float64 `yaml:"too_few_hypotheses" validate:"gte=0"`
	MissingSubField    float64 `yaml:"missing_sub_field" validate:"gte=0"`
	MissingExperiment  float64 `yaml:"missing_experiment" validate:"gte=0"`
	MissingCalculation float64 `yaml:"missing_calculation" validate:"gte=0"`
}

// CalculationConfig tunes layer 3.
type CalculationConfig struct {
	Budget   `yaml:",inline"`
	Missing  float64         `yaml:"missing" validate:"gte=0"`
	Major    float64         `yaml:"major" validate:"gte=0"`
	Moderate float64         `yaml:"moderate" validate:"gte=0"`
	Minor    float64         `yaml:"minor" validate:"gte=0"`
	NoWork   float64         `yaml:"no_work" validate:"gte=0"`
	Tiers    tolerance.Tiers `yaml:"tiers"`

	// HintDistance is the largest edit distance offered as "did you mean".
	HintDistance int `yaml:"hint_distance" validate:"gte=0"`
}

// LogicConfig tunes layer 4. The character and count thresholds are
// heuristics meant to be tuned.
type LogicConfig struct {
	Budget                 `yaml:",inline"`
	Gap                    float64 `yaml:"gap" validate:"gte=0"`
	NoCausality            float64 `yaml:"no_causality" validate:"gte=0"`
	MinCausalChars         int     `yaml:"min_causal_chars" validate:"gte=0"`
	InsufficientData       float64 `yaml:"insufficient_data" validate:"gte=0"`
	MinDataPoints          int     `yaml:"min_data_points" validate:"gte=0"`
	WeakHypothesis         float64 `yaml:"weak_hypothesis" validate:"gte=0"`
	MinHypothesisReasoning int     `yaml:"min_hypothesis_reasoning" validate:"gte=0"`
	MissingValidation      float64 `yaml:"missing_validation" validate:"gte=0"`
	Contradiction          float64 `yaml:"contradiction" validate:"gte=0"`
	BreakdownTolerance     float64 `yaml:"breakdown_tolerance" validate:"gte=0"`
}

// FeasibilityConfig tunes layer 5.
type FeasibilityConfig struct {
	Budget        `yaml:",inline"`
	Inconsistency float64            `yaml:"inconsistency" validate:"gte=0"`
	Violation     float64            `yaml:"violation" validate:"gte=0"`
	Allocation    float64            `yaml:"allocation" validate:"gte=0"`
	Resource      float64            `yaml:"resource" validate:"gte=0"`
	Timeline      float64            `yaml:"timeline" validate:"gte=0"`
	NoPlan        float64            `yaml:"no_plan" validate:"gte=0"`
	Checker       feasibility.Config `yaml:"checker"`
}

// DefaultConfig returns the standard layer budgets (20, 20, 25, 20, 15),
// deductions and thresholds.
func DefaultConfig() Config {
	return Config{
		PassScore: 70,
		Format: FormatConfig{
			Budget:         Budget{Max: 20, PassAt: 15},
			NoCalculations: 10,
			NoExplanation:  5,
			BelowWordCount: 5,
		},
		Completeness: CompletenessConfig{
			Budget:             Budget{Max: 20, PassAt: 14},
			MissingSection:     5,
			TooFewHypotheses:   5,
			MissingSubField:    2,
			MissingExperiment:  5,
			MissingCalculation: 3,
		},
		Calculation: CalculationConfig{
			Budget:       Budget{Max: 25, PassAt: 18},
			Missing:      5,
			Major:        5,
			Moderate:     3,
			Minor:        2,
			NoWork:       2,
			Tiers:        tolerance.DefaultTiers(),
			HintDistance: 2,
		},
		Logic: LogicConfig{
			Budget:                 Budget{Max: 20, PassAt: 14},
			Gap:                    3,
			NoCausality:            5,
			MinCausalChars:         100,
			InsufficientData:       4,
			MinDataPoints:          5,
			WeakHypothesis:         2,
			MinHypothesisReasoning: 50,
			MissingValidation:      2,
			Contradiction:          4,
			BreakdownTolerance:     5,
		},
		Feasibility: FeasibilityConfig{
			Budget:        Budget{Max: 15, PassAt: 10},
			Inconsistency: 3,
			Violation:     5,
			Allocation:    4,
			Resource:      2,
			Timeline:      2,
			NoPlan:        5,
			Checker:       feasibility.DefaultConfig(),
		},
		Penalty:     penalty.DefaultConfig(),
		Grades:      grade.DefaultTable(),
		Classifiers: logic.DefaultClassifiers(),
	}
}

// TotalMax is the sum of the layer budgets.
func (c Config) TotalMax() float64 {
	return c.Format.Max + c.Completeness.Max + c.Calculation.Max + c.Logic.Max + c.Feasibility.Max
}
