package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abhisek/growthlab/internal/answer"
	"github.com/abhisek/growthlab/internal/challenge"
	"github.com/abhisek/growthlab/internal/session"
	"github.com/abhisek/growthlab/internal/spacedrep"
	"github.com/abhisek/growthlab/internal/store"
	"github.com/abhisek/growthlab/internal/validation"
)

// Result is everything one submission produced.
type Result struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
	SessionID   string `json:"session_id"`

	// Attempt and ErrorStreak are the counters the submission was graded
	// under, before it was recorded.
	Attempt     int `json:"attempt"`
	ErrorStreak int `json:"error_streak"`

	Outcome validation.Outcome `json:"outcome"`

	// Malformed explains why the document was not a structured answer.
	Malformed string `json:"malformed,omitempty"`

	// Unlocked lists the challenges this pass unlocked.
	Unlocked []string `json:"unlocked,omitempty"`

	// Review is the weak-point schedule after this submission, if the
	// challenge is tracked.
	Review       *spacedrep.WeakPoint `json:"review,omitempty"`
	ReviewChange spacedrep.Change     `json:"review_change,omitempty"`
}

// Submit grades raw (a JSON answer document) for userID on challengeID.
// A malformed document is graded as such, not returned as an error; errors
// come only from an unknown challenge or from persistence.
func (s *Service) Submit(ctx context.Context, userID, challengeID string, raw []byte) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "grading.Submit", trace.WithAttributes(
		attribute.String("growthlab.user_id", userID),
		attribute.String("growthlab.challenge_id", challengeID),
	))
	defer span.End()

	res, err := s.submit(ctx, userID, challengeID, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	span.SetAttributes(
		attribute.String("growthlab.grade", string(res.Outcome.Grade.Letter)),
		attribute.Float64("growthlab.score", res.Outcome.Score),
		attribute.Bool("growthlab.passed", res.Outcome.Passed),
		attribute.Int("growthlab.attempt", res.Attempt),
	)
	if res.Outcome.Penalties.DirectFail {
		span.AddEvent("direct_fail", trace.WithAttributes(attribute.Int("growthlab.error_streak", res.ErrorStreak)))
	}
	return res, nil
}

func (s *Service) submit(ctx context.Context, userID, challengeID string, raw []byte) (Result, error) {
	res := Result{UserID: userID, ChallengeID: challengeID}
	log := s.logger.With(zap.String("user", userID), zap.String("challenge", challengeID))

	ch, err := s.catalog.Get(challengeID)
	if err != nil {
		s.observeError("catalog")
		return res, err
	}

	a, err := answer.Decode(raw)
	var malformed *answer.MalformedError
	switch {
	case errors.As(err, &malformed):
		res.Malformed = malformed.Error()
		log.Debug("malformed answer", zap.Error(err))
	case err != nil:
		s.observeError("decode")
		return res, fmt.Errorf("decode answer: %w", err)
	}

	now := s.now()
	err = s.tracker.Do(ctx, userID, challengeID, func(sess *session.Session) error {
		res.SessionID = sess.ID
		res.Attempt = sess.Attempt()
		res.ErrorStreak = sess.Streak()
		res.Outcome = s.validator.Validate(a, ch, sess)
		if err := s.recordAttempt(ctx, ch, &res, now); err != nil {
			return err
		}
		sess.Record(res.Outcome.Passed, now)
		return nil
	})
	if err != nil {
		s.observeError("session")
		return res, err
	}

	if err := s.updateReview(ctx, &res, now); err != nil {
		s.observeError("review")
		return res, err
	}
	if err := s.unlock(ctx, &res, now); err != nil {
		s.observeError("unlock")
		return res, err
	}

	if s.metrics != nil {
		s.metrics.ObserveOutcome(string(ch.Type), res.Outcome)
	}
	log.Info("graded submission",
		zap.Int("attempt", res.Attempt),
		zap.Int("error_streak", res.ErrorStreak),
		zap.Float64("base_score", res.Outcome.BaseScore),
		zap.Float64("penalty", res.Outcome.Penalties.Total),
		zap.Float64("score", res.Outcome.Score),
		zap.String("grade", string(res.Outcome.Grade.Letter)),
		zap.Bool("passed", res.Outcome.Passed),
		zap.Strings("unlocked", res.Unlocked),
	)
	return res, nil
}

// recordAttempt appends the attempt event. It runs under the session lock,
// so a failed write leaves the session counters untouched.
func (s *Service) recordAttempt(ctx context.Context, ch *challenge.Challenge, res *Result, now time.Time) error {
	if s.history == nil {
		return nil
	}
	body, err := json.Marshal(res.Outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	ev := &store.AttemptEvent{
		Timestamp:   now,
		UserID:      res.UserID,
		ChallengeID: ch.ID,
		SessionID:   res.SessionID,
		Attempt:     res.Attempt,
		ErrorStreak: res.ErrorStreak,
		BaseScore:   res.Outcome.BaseScore,
		Penalty:     res.Outcome.Penalties.Total,
		Score:       res.Outcome.Score,
		Grade:       string(res.Outcome.Grade.Letter),
		Passed:      res.Outcome.Passed,
		DirectFail:  res.Outcome.Penalties.DirectFail,
		Critical:    len(res.Outcome.Critical),
		Outcome:     string(body),
	}
	if err := s.history.AppendAttempt(ctx, ev); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// updateReview feeds the outcome to the learner's weak-point schedule. A
// grade whose band passes counts as a pass here unless a critical issue
// or a direct fail overrode it, so a C below the pass score still
// registers as a weak point.
func (s *Service) updateReview(ctx context.Context, res *Result, now time.Time) error {
	if s.history == nil {
		return nil
	}
	states, err := s.history.LoadReviews(ctx, res.UserID)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	o := res.Outcome
	bandPass := o.Grade.Pass && len(o.Critical) == 0 && !o.Penalties.DirectFail

	sched := spacedrep.NewScheduler(states)
	w, change := sched.Record(res.ChallengeID, o.Grade, bandPass, now)
	if change == spacedrep.ChangeNone {
		return nil
	}
	if err := s.history.SaveReview(ctx, res.UserID, *w); err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	res.Review, res.ReviewChange = w, change
	return nil
}

// unlock opens up to the grade's unlock count of dependents after an
// authoritative pass.
func (s *Service) unlock(ctx context.Context, res *Result, now time.Time) error {
	if s.history == nil || !res.Outcome.Passed || res.Outcome.Grade.Unlocks == 0 {
		return nil
	}
	passed, err := s.history.PassedChallenges(ctx, res.UserID)
	if err != nil {
		return fmt.Errorf("load passed challenges: %w", err)
	}
	passed[res.ChallengeID] = true
	unlocked, err := s.history.Unlocked(ctx, res.UserID)
	if err != nil {
		return fmt.Errorf("load unlocks: %w", err)
	}

	ids := s.catalog.Unlockable(res.ChallengeID, passed, unlocked, res.Outcome.Grade.Unlocks)
	if len(ids) == 0 {
		return nil
	}
	if err := s.history.Unlock(ctx, res.UserID, ids, now); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	res.Unlocked = ids
	return nil
}

func (s *Service) observeError(stage string) {
	if s.metrics != nil {
		s.metrics.ObserveError(stage)
	}
}
