// Package grade maps a final score to a grade band.
package grade

// Letter is a grade band name.
type Letter string

const (
	APlus Letter = "A+"
	A     Letter = "A"
	B     Letter = "B"
	C     Letter = "C"
	F     Letter = "F"
)

// Band is one row of the grade table.
type Band struct {
	Letter    Letter  `yaml:"letter" validate:"required"`
	MinScore  float64 `yaml:"min_score" validate:"gte=0,lte=100"`
	Pass      bool    `yaml:"pass"`
	Unlocks   int     `yaml:"unlocks" validate:"gte=0"`
	WeakPoint bool    `yaml:"weak_point"`
}

// Table is ordered from highest MinScore to lowest; the last row is the
// catch-all.
type Table []Band

// DefaultTable returns A+ >= 90, A >= 80, B >= 70, C >= 60, F below.
func DefaultTable() Table {
	return Table{
		{Letter: APlus, MinScore: 90, Pass: true, Unlocks: 2},
		{Letter: A, MinScore: 80, Pass: true, Unlocks: 1},
		{Letter: B, MinScore: 70, Pass: true, Unlocks: 1},
		{Letter: C, MinScore: 60, Pass: true, WeakPoint: true},
		{Letter: F, MinScore: 0},
	}
}

// Decision is the grade for one score.
type Decision struct {
	Letter    Letter `json:"grade"`
	Pass      bool   `json:"pass"`
	Unlocks   int    `json:"unlocks"`
	WeakPoint bool   `json:"weak_point,omitempty"`
}

// Decide returns the first band whose MinScore the score reaches. It does
// not know about critical overrides: callers AND Pass with the validator's
// verdict.
func (t Table) Decide(score float64) Decision {
	for _, b := range t {
		if score >= b.MinScore {
			return b.decision()
		}
	}
	if len(t) == 0 {
		return Decision{Letter: F}
	}
	return t[len(t)-1].decision()
}

func (b Band) decision() Decision {
	return Decision{Letter: b.Letter, Pass: b.Pass, Unlocks: b.Unlocks, WeakPoint: b.WeakPoint}
}

// Decide maps score with the default table.
func Decide(score float64) Decision {
	return DefaultTable().Decide(score)
}

// AtLeast reports whether l ranks at or above other in the default table.
func (l Letter) AtLeast(other Letter) bool {
	return rank(l) <= rank(other)
}

func rank(l Letter) int {
	for i, b := range DefaultTable() {
		if b.Letter == l {
			return i
		}
	}
	return len(DefaultTable())
}
