package feasibility

// Config holds the thresholds of the feasibility checks. None of these
// numbers is a semantic cutoff; they are tuning knobs.
type Config struct {
	// BaselineTeamSize is the assumed starting team size the team-size
	// multiplier applies to.
	BaselineTeamSize int `yaml:"baseline_team_size" validate:"gte=1"`

	// AllocationTolerancePct is the relative tolerance of the budget
	// allocation total.
	AllocationTolerancePct float64 `yaml:"allocation_tolerance_pct" validate:"gte=0"`

	// ConsistencyTolerancePct is the relative tolerance of cross-field
	// math checks.
	ConsistencyTolerancePct float64 `yaml:"consistency_tolerance_pct" validate:"gte=0"`

	// MaxHiresPerMonth flags hiring steps above this rate.
	MaxHiresPerMonth int `yaml:"max_hires_per_month" validate:"gte=0"`

	// MinHighComplexityDays flags high-complexity milestones with less time.
	MinHighComplexityDays float64 `yaml:"min_high_complexity_days" validate:"gte=0"`

	Realism RealismConfig `yaml:"realism"`
}

// RealismConfig parameterizes RealismScore.
type RealismConfig struct {
	Max                  int     `yaml:"max" validate:"gte=0"`
	HighGrowthPct        float64 `yaml:"high_growth_pct"`
	HighGrowthPenalty    int     `yaml:"high_growth_penalty" validate:"gte=0"`
	ExtremeGrowthPct     float64 `yaml:"extreme_growth_pct" validate:"gtefield=HighGrowthPct"`
	ExtremeGrowthPenalty int     `yaml:"extreme_growth_penalty" validate:"gte=0"`
	MinChannelCAC        float64 `yaml:"min_channel_cac" validate:"gte=0"`
	MaxConversionPct     float64 `yaml:"max_conversion_pct" validate:"gte=0"`
	ChannelPenalty       int     `yaml:"channel_penalty" validate:"gte=0"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		BaselineTeamSize:        5,
		AllocationTolerancePct:  1,
		ConsistencyTolerancePct: 5,
		MaxHiresPerMonth:        3,
		MinHighComplexityDays:   30,
		Realism: RealismConfig{
			Max:                  10,
			HighGrowthPct:        50,
			HighGrowthPenalty:    2,
			ExtremeGrowthPct:     100,
			ExtremeGrowthPenalty: 3,
			MinChannelCAC:        100,
			MaxConversionPct:     20,
			ChannelPenalty:       1,
		},
	}
}
