package tolerance

import (
	"errors"
	"fmt"
	"math"
)

// ErrPercentOfZero is returned when a relative tolerance is applied to an
// expected value of zero. Challenge authors must supply an absolute
// tolerance for zero-valued expectations.
var ErrPercentOfZero = errors.New("relative tolerance of zero expected value is undefined")

// Kind selects how a tolerance value is interpreted.
type Kind string

const (
	KindAbsolute Kind = "absolute" // Value is an allowed absolute deviation
	KindPercent  Kind = "percent"  // Value is a percent of the expected value
)

// DefaultPercent is the relative tolerance used when a required
// calculation does not declare one.
const DefaultPercent = 1.0

// CloseFactor widens the tolerance band for the "close" grade.
const CloseFactor = 3.0

// Spec describes an allowed deviation from an expected value.
type Spec struct {
	Kind  Kind    `json:"kind" yaml:"kind" validate:"required,oneof=absolute percent"`
	Value float64 `json:"value" yaml:"value" validate:"gte=0"`
}

// Absolute returns a Spec allowing |actual-expected| <= v.
func Absolute(v float64) Spec { return Spec{Kind: KindAbsolute, Value: v} }

// Percent returns a Spec allowing a deviation of p percent of expected.
func Percent(p float64) Spec { return Spec{Kind: KindPercent, Value: p} }

// Default returns the tolerance applied when none is declared.
func Default() Spec { return Percent(DefaultPercent) }

// Band returns the absolute width of the tolerance band around expected.
func (s Spec) Band(expected float64) (float64, error) {
	switch s.Kind {
	case KindAbsolute:
		return math.Abs(s.Value), nil
	case KindPercent:
		if expected == 0 {
			return 0, ErrPercentOfZero
		}
		return math.Abs(expected) * s.Value / 100, nil
	default:
		return 0, fmt.Errorf("unknown tolerance kind %q", s.Kind)
	}
}

func (s Spec) String() string {
	if s.Kind == KindPercent {
		return fmt.Sprintf("±%g%%", s.Value)
	}
	return fmt.Sprintf("±%g", s.Value)
}
