package answer

// Answer is one submitted attempt at a challenge. It is produced by an
// upstream parsing step and is never mutated by the validator.
type Answer struct {
	// Text is the free-form answer as typed by the learner.
	Text string `json:"text,omitempty"`

	// Calculations lists the worked calculations in submission order.
	Calculations []Calculation `json:"calculations,omitempty"`

	// Reasoning is the learner's reasoning text, analyzed for logic gaps.
	Reasoning string `json:"reasoning,omitempty"`

	// Explanation is an optional explanation block separate from Reasoning.
	Explanation string `json:"explanation,omitempty"`

	// Results holds named results reported outside the calculation list.
	Results map[string]float64 `json:"results,omitempty"`

	// Hypotheses are the learner's declared hypotheses (logic puzzles).
	Hypotheses []Hypothesis `json:"hypotheses,omitempty"`

	// Experiment is the declared experiment design, if any.
	Experiment *Experiment `json:"experiment_design,omitempty"`

	// Plan is the declared strategy plan (strategy design challenges).
	Plan *Plan `json:"plan,omitempty"`

	// Breakdowns are percentage breakdowns that should sum to ~100.
	Breakdowns []Breakdown `json:"breakdowns,omitempty"`

	// Fields holds every other numeric top-level field of the document.
	// Populated by Decode.
	Fields map[string]float64 `json:"-"`
}

// Calculation is a single worked calculation entry.
type Calculation struct {
	Variable string   `json:"variable,omitempty"`
	Name     string   `json:"name,omitempty"`
	Formula  string   `json:"formula,omitempty"`
	Steps    []string `json:"steps,omitempty"`
	Result   *float64 `json:"result,omitempty"`
}

// ShowsWork reports whether the entry carries a formula or worked steps.
func (c Calculation) ShowsWork() bool {
	if c.Formula != "" {
		return true
	}
	for _, s := range c.Steps {
		if s != "" {
			return true
		}
	}
	return false
}

// Hypothesis is a declared hypothesis with its supporting reasoning.
type Hypothesis struct {
	Statement        string `json:"statement,omitempty"`
	Reasoning        string `json:"reasoning,omitempty"`
	ValidationMethod string `json:"validation_method,omitempty"`
	Metric           string `json:"metric,omitempty"`
}

// Experiment is a declared experiment design.
type Experiment struct {
	ControlGroup  string   `json:"control_group,omitempty"`
	SampleSize    int      `json:"sample_size,omitempty"`
	DurationDays  int      `json:"duration_days,omitempty"`
	SuccessMetric string   `json:"success_metric,omitempty"`
	Variants      []string `json:"variants,omitempty"`
}

// Plan is a declared growth plan: budget, team, growth and timeline.
type Plan struct {
	// CAC is the declared blended customer-acquisition cost.
	CAC *float64 `json:"cac,omitempty"`

	// MonthlyBudget is the spend per month, month 1 first.
	MonthlyBudget []float64 `json:"monthly_budget,omitempty"`

	// Allocation splits the total budget across channels or categories.
	Allocation []BudgetLine `json:"allocation,omitempty"`

	// TeamSize is the declared final team size.
	TeamSize *int `json:"team_size,omitempty"`

	// Hiring lists planned hires per month.
	Hiring []HiringStep `json:"hiring,omitempty"`

	// MonthlyGrowth is the month-over-month growth per month, in percent.
	MonthlyGrowth []float64 `json:"monthly_growth,omitempty"`

	// Channels are the acquisition channels with their unit economics.
	Channels []Channel `json:"channels,omitempty"`

	// Milestones is the declared timeline.
	Milestones []Milestone `json:"milestones,omitempty"`

	// MonthlyGoals are per-month customer targets.
	MonthlyGoals []float64 `json:"monthly_goals,omitempty"`

	// Strategy is the narrative strategy section.
	Strategy string `json:"strategy,omitempty"`
}

// BudgetLine is one allocation entry.
type BudgetLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// HiringStep is the number of hires planned in a month.
type HiringStep struct {
	Month int `json:"month"`
	Hires int `json:"hires"`
}

// Channel is an acquisition channel with declared unit economics.
// ConversionRate is in percent.
type Channel struct {
	Name            string   `json:"name"`
	Budget          float64  `json:"budget,omitempty"`
	TargetCustomers float64  `json:"target_customers,omitempty"`
	CAC             *float64 `json:"cac,omitempty"`
	ConversionRate  *float64 `json:"conversion_rate,omitempty"`
}

// Complexity grades a milestone's difficulty.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Milestone is a timeline entry. DurationDays is the time allotted to it.
type Milestone struct {
	Name         string     `json:"name"`
	Complexity   Complexity `json:"complexity,omitempty"`
	DurationDays float64    `json:"duration_days,omitempty"`
}

// Breakdown is a named set of percentage shares.
type Breakdown struct {
	Name   string    `json:"name"`
	Shares []float64 `json:"shares"`
}

// Section names understood by Has.
const (
	SectionCalculations = "calculations"
	SectionReasoning    = "reasoning"
	SectionExplanation  = "explanation"
	SectionHypotheses   = "hypotheses"
	SectionExperiment   = "experiment_design"
	SectionStrategy     = "strategy"
	SectionBudget       = "budget"
	SectionTimeline     = "timeline"
	SectionResources    = "resources"
	SectionChannels     = "channels"
)

// Has reports whether the named section is present and non-empty.
func (a *Answer) Has(section string) bool {
	p := a.Plan
	switch section {
	case SectionCalculations:
		return len(a.Calculations) > 0
	case SectionReasoning:
		return a.Reasoning != ""
	case SectionExplanation:
		return a.Explanation != "" || a.Reasoning != ""
	case SectionHypotheses:
		return len(a.Hypotheses) > 0
	case SectionExperiment:
		return a.Experiment != nil
	case SectionStrategy:
		return p != nil && p.Strategy != ""
	case SectionBudget:
		return p != nil && (len(p.MonthlyBudget) > 0 || len(p.Allocation) > 0)
	case SectionTimeline:
		return p != nil && len(p.Milestones) > 0
	case SectionResources:
		return p != nil && (p.TeamSize != nil || len(p.Hiring) > 0)
	case SectionChannels:
		return p != nil && len(p.Channels) > 0
	default:
		_, ok := a.Fields[section]
		return ok
	}
}
