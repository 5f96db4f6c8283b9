package validation

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// closestName returns the submitted name nearest to want, if one lies
// within maxDist edits (case-insensitive). Ties go to the alphabetically
// first name.
func closestName(want string, submitted []string, maxDist int) string {
	if want == "" || len(submitted) == 0 {
		return ""
	}
	names := slices.Clone(submitted)
	slices.Sort(names)

	best, bestDist := "", maxDist+1
	lw := strings.ToLower(want)
	for _, n := range names {
		if n == want {
			continue
		}
		d := levenshtein.ComputeDistance(lw, strings.ToLower(n))
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
