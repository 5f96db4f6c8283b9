// Package metrics collects grading outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/growthlab/internal/validation"
)

// scoreBuckets spans the 0-100 score range in steps of 10.
var scoreBuckets = prometheus.LinearBuckets(10, 10, 10)

// Metrics owns the grading collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	validations      *prometheus.CounterVec
	directFails      *prometheus.CounterVec
	criticalFails    *prometheus.CounterVec
	baseScore        *prometheus.HistogramVec
	finalScore       *prometheus.HistogramVec
	penalty          *prometheus.HistogramVec
	layerScore       *prometheus.HistogramVec
	submissionErrors *prometheus.CounterVec
}

// New registers the grading collectors in a fresh registry, so several
// instances (one per test, say) never collide in the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		validations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthlab_validations_total",
				Help: "Validated submissions by challenge type, grade and pass/fail.",
			},
			[]string{"type", "grade", "passed"},
		),
		directFails: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthlab_direct_fails_total",
				Help: "Submissions failed outright by the error-streak rule.",
			},
			[]string{"type"},
		),
		criticalFails: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthlab_critical_overrides_total",
				Help: "Critical issues that forced a fail, by issue type.",
			},
			[]string{"issue"},
		),
		baseScore: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthlab_base_score",
				Help:    "Sum of the five layer scores before penalties.",
				Buckets: scoreBuckets,
			},
			[]string{"type"},
		),
		finalScore: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthlab_final_score",
				Help:    "Score after penalties.",
				Buckets: scoreBuckets,
			},
			[]string{"type"},
		),
		penalty: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthlab_penalty_points",
				Help:    "Total penalty subtracted from the base score.",
				Buckets: []float64{0, 5, 10, 20, 30, 50, 75, 100},
			},
			[]string{"type"},
		),
		layerScore: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growthlab_layer_score_ratio",
				Help:    "Layer score as a fraction of the layer maximum.",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"layer"},
		),
		submissionErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growthlab_submission_errors_total",
				Help: "Submissions that could not be graded, by stage.",
			},
			[]string{"stage"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOutcome records one validation outcome for a challenge of type
// challengeType.
func (m *Metrics) ObserveOutcome(challengeType string, o validation.Outcome) {
	m.validations.WithLabelValues(challengeType, string(o.Grade.Letter), strconv.FormatBool(o.Passed)).Inc()
	if o.Penalties.DirectFail {
		m.directFails.WithLabelValues(challengeType).Inc()
	}
	for _, is := range o.Critical {
		m.criticalFails.WithLabelValues(string(is.Type)).Inc()
	}
	m.baseScore.WithLabelValues(challengeType).Observe(o.BaseScore)
	m.finalScore.WithLabelValues(challengeType).Observe(o.Score)
	m.penalty.WithLabelValues(challengeType).Observe(o.Penalties.Total)
	for _, l := range o.Layers {
		if l.Max > 0 {
			m.layerScore.WithLabelValues(l.Layer).Observe(l.Score / l.Max)
		}
	}
}

// ObserveError counts a submission that failed at stage.
func (m *Metrics) ObserveError(stage string) {
	m.submissionErrors.WithLabelValues(stage).Inc()
}

// WriteTextfile writes the current values in the Prometheus text format,
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
