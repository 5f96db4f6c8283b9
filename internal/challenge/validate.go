package challenge

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/growthlab/internal/tolerance"
)

var validate = validator.New()

// Validate checks struct constraints and the semantic rules the tags
// can't express.
func (c *Challenge) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("challenge %q: %w", c.ID, err)
	}

	var errs []error
	seen := make(map[string]bool, len(c.RequiredCalculations))
	for _, rc := range c.RequiredCalculations {
		if seen[rc.Variable] {
			errs = append(errs, fmt.Errorf("duplicate required calculation %q", rc.Variable))
		}
		seen[rc.Variable] = true

		// A percent of zero is undefined: zero expectations need an
		// explicit absolute tolerance.
		if rc.Expected == 0 && (rc.Tolerance == nil || rc.Tolerance.Kind != tolerance.KindAbsolute) {
			errs = append(errs, fmt.Errorf("required calculation %q expects 0 and needs an absolute tolerance", rc.Variable))
		}
	}
	for _, p := range c.Prerequisites {
		if p == c.ID {
			errs = append(errs, fmt.Errorf("challenge lists itself as a prerequisite"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("challenge %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}
