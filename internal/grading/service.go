// Package grading is the caller side of validation: it resolves the
// challenge, decodes the submission, validates it under the learner's
// serialized session and records the consequences (attempt history,
// unlocks, weak-point reviews, metrics).
package grading

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abhisek/growthlab/internal/catalog"
	"github.com/abhisek/growthlab/internal/metrics"
	"github.com/abhisek/growthlab/internal/session"
	"github.com/abhisek/growthlab/internal/spacedrep"
	"github.com/abhisek/growthlab/internal/store"
	"github.com/abhisek/growthlab/internal/validation"
)

// History persists what grading produces beyond the session counters.
// *store.Store implements it.
type History interface {
	AppendAttempt(ctx context.Context, ev *store.AttemptEvent) error
	PassedChallenges(ctx context.Context, userID string) (map[string]bool, error)
	Unlocked(ctx context.Context, userID string) (map[string]bool, error)
	Unlock(ctx context.Context, userID string, challengeIDs []string, now time.Time) error
	LoadReviews(ctx context.Context, userID string) ([]spacedrep.WeakPoint, error)
	SaveReview(ctx context.Context, userID string, rs spacedrep.WeakPoint) error
}

var _ History = (*store.Store)(nil)

// DefaultConcurrency bounds SubmitBatch when no limit is configured.
const DefaultConcurrency = 4

// Service grades submissions against a catalog.
type Service struct {
	catalog   *catalog.Catalog
	validator *validation.Validator
	tracker   *session.Tracker
	history   History

	logger      *zap.Logger
	tracer      trace.Tracer
	metrics     *metrics.Metrics
	now         func() time.Time
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTracer sets the tracer used for submission spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithMetrics records every outcome in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithStore keeps sessions in st and records attempts, unlocks and
// reviews there.
func WithStore(st *store.Store) Option {
	return func(s *Service) {
		s.tracker = session.NewTracker(st.SessionRepo())
		s.history = st
	}
}

// WithHistory records attempts, unlocks and reviews in h without changing
// where sessions live.
func WithHistory(h History) Option {
	return func(s *Service) { s.history = h }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithConcurrency bounds how many submissions SubmitBatch grades at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Service. Without WithStore, sessions are kept in memory
// and nothing else is persisted.
func New(cat *catalog.Catalog, v *validation.Validator, opts ...Option) *Service {
	s := &Service{
		catalog:     cat,
		validator:   v,
		logger:      zap.NewNop(),
		tracer:      otel.Tracer("github.com/abhisek/growthlab/internal/grading"),
		now:         time.Now,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = session.NewTracker(nil)
	}
	return s
}

// Abandon drops the learner's session on a challenge, so the next
// submission starts again at the first attempt.
func (s *Service) Abandon(ctx context.Context, userID, challengeID string) error {
	return s.tracker.Abandon(ctx, userID, challengeID)
}
