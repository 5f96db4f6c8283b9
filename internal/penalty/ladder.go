package penalty

import "sort"

// Step is one rung of a Ladder: from attempt From onwards, Points apply.
type Step struct {
	From   int     `yaml:"from" validate:"gte=1"`
	Points float64 `yaml:"points" validate:"gte=0"`
}

// Ladder is a monotone step function keyed by attempt number.
type Ladder []Step

// At returns the points of the highest step whose From is <= attempt, or 0
// when attempt is below every step.
func (l Ladder) At(attempt int) float64 {
	var pts float64
	for _, s := range l.sorted() {
		if attempt < s.From {
			break
		}
		pts = s.Points
	}
	return pts
}

// Monotone reports whether points never decrease as attempts grow.
func (l Ladder) Monotone() bool {
	s := l.sorted()
	for i := 1; i < len(s); i++ {
		if s[i].Points < s[i-1].Points {
			return false
		}
	}
	return true
}

func (l Ladder) sorted() Ladder {
	if sort.SliceIsSorted(l, func(i, j int) bool { return l[i].From < l[j].From }) {
		return l
	}
	out := append(Ladder(nil), l...)
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Multiplier scales the penalty sum once the error streak reaches MinStreak.
type Multiplier struct {
	MinStreak int     `yaml:"min_streak" validate:"gte=1"`
	Factor    float64 `yaml:"factor" validate:"gte=1"`
}

// StreakTable maps an error streak to a multiplier.
type StreakTable []Multiplier

// Factor returns the multiplier for streak, 1 when no entry applies.
func (t StreakTable) Factor(streak int) float64 {
	f := 1.0
	best := 0
	for _, m := range t {
		if streak >= m.MinStreak && m.MinStreak > best {
			best = m.MinStreak
			f = m.Factor
		}
	}
	return f
}
