// Package config loads the optional YAML file that tunes the validator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/growthlab/internal/validation"
)

// EnvPath names the environment variable consulted when no --config flag
// is given.
const EnvPath = "GROWTHLAB_CONFIG"

// totalBudget is what the five layer maxima must add up to.
const totalBudget = 100

var validate = validator.New()

// ResolvePath returns flagValue, else $GROWTHLAB_CONFIG, else "" for
// built-in defaults.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvPath)
}

// Load reads the file at path and overlays it onto the defaults. An empty
// path returns the defaults.
func Load(path string) (validation.Config, error) {
	if path == "" {
		return validation.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return validation.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays YAML data onto the defaults and validates the result.
// Keys that are absent keep their default; lists such as ladders and the
// grade table are replaced whole. Unknown keys are an error.
func Parse(data []byte) (validation.Config, error) {
	cfg := validation.DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return validation.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return validation.Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags and the rules spanning several fields.
func Validate(cfg validation.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var errs []error
	if total := cfg.TotalMax(); math.Abs(total-totalBudget) > 1e-9 {
		errs = append(errs, fmt.Errorf("layer maxima sum to %g, want %d", total, totalBudget))
	}
	if !cfg.Penalty.Calculation.Monotone() {
		errs = append(errs, errors.New("penalty.calculation must not decrease with attempts"))
	}
	if !cfg.Penalty.LogicGap.Monotone() {
		errs = append(errs, errors.New("penalty.logic_gap must not decrease with attempts"))
	}
	for i := 1; i < len(cfg.Grades); i++ {
		if cfg.Grades[i].MinScore >= cfg.Grades[i-1].MinScore {
			errs = append(errs, fmt.Errorf("grades must be ordered by descending min_score (row %d)", i))
			break
		}
	}
	if n := len(cfg.Grades); n > 0 && cfg.Grades[n-1].MinScore != 0 {
		errs = append(errs, errors.New("the last grade must have min_score 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
