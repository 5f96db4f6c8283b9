package tolerance

import "math"

// Grade is the graded distance between a submitted and an expected value.
type Grade string

const (
	GradeCorrect Grade = "correct"
	GradeClose   Grade = "close"
	GradeWrong   Grade = "wrong"
)

// Severity buckets a wrong value by its relative error.
type Severity int

const (
	SeverityNone     Severity = iota // within tolerance, or relative error <= minor threshold
	SeverityMinor                    // 5-10%
	SeverityModerate                 // 10-20%
	SeverityMajor                    // > 20%
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeverityMajor:
		return "major"
	default:
		return "none"
	}
}

// Tiers holds the relative-error thresholds (in percent) of the severity
// buckets. A relative error strictly above a threshold falls in its bucket.
type Tiers struct {
	Minor    float64 `yaml:"minor" validate:"gte=0"`
	Moderate float64 `yaml:"moderate" validate:"gtefield=Minor"`
	Major    float64 `yaml:"major" validate:"gtefield=Moderate"`
}

// DefaultTiers returns the 5 / 10 / 20 percent buckets.
func DefaultTiers() Tiers {
	return Tiers{Minor: 5, Moderate: 10, Major: 20}
}

// Severity returns the bucket for a relative error given in percent.
func (t Tiers) Severity(errorPercent float64) Severity {
	switch {
	case errorPercent > t.Major:
		return SeverityMajor
	case errorPercent > t.Moderate:
		return SeverityModerate
	case errorPercent > t.Minor:
		return SeverityMinor
	default:
		return SeverityNone
	}
}

// Classify grades actual against expected using the full three-grade scale:
// correct within the band, close within CloseFactor bands, wrong otherwise.
// Used for data-accuracy checks.
func Classify(actual, expected float64, spec Spec) (Grade, error) {
	band, err := spec.Band(expected)
	if err != nil {
		return GradeWrong, err
	}
	diff := math.Abs(actual - expected)
	switch {
	case diff <= band:
		return GradeCorrect, nil
	case diff <= CloseFactor*band:
		return GradeClose, nil
	default:
		return GradeWrong, nil
	}
}

// ClassifyStrict grades actual against expected with no "close" grade.
// Calculation checks use this form.
func ClassifyStrict(actual, expected float64, spec Spec) (Grade, error) {
	band, err := spec.Band(expected)
	if err != nil {
		return GradeWrong, err
	}
	if math.Abs(actual-expected) <= band {
		return GradeCorrect, nil
	}
	return GradeWrong, nil
}

// ErrorPercent returns |actual-expected| / |expected| * 100.
// For expected == 0 it returns 0 when actual is also 0 and +Inf otherwise.
func ErrorPercent(actual, expected float64) float64 {
	if expected == 0 {
		if actual == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(actual-expected) / math.Abs(expected) * 100
}

// WithinRelative reports whether actual is within pct percent of expected.
// A zero expected value only matches a zero actual value.
func WithinRelative(actual, expected, pct float64) bool {
	// Cross-multiplied so integer-valued inputs compare exactly at the boundary.
	return math.Abs(actual-expected)*100 <= pct*math.Abs(expected)
}
