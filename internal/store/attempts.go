package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttemptEvent records one graded submission.
type AttemptEvent struct {
	Sequence    int64
	ID          string
	Timestamp   time.Time
	UserID      string
	ChallengeID string
	SessionID   string

	// Attempt and ErrorStreak are the session counters the submission was
	// graded under.
	Attempt     int
	ErrorStreak int

	BaseScore  float64
	Penalty    float64
	Score      float64
	Grade      string
	Passed     bool
	DirectFail bool
	Critical   int

	// Outcome is the full validation outcome as JSON.
	Outcome string
}

// ChallengeStats aggregates a learner's attempts on one challenge.
type ChallengeStats struct {
	ChallengeID string
	Attempts    int
	Passes      int
	BestScore   float64
	LastAttempt time.Time
}

// PassRate returns Passes / Attempts, or 0 with no attempts.
func (cs ChallengeStats) PassRate() float64 {
	if cs.Attempts == 0 {
		return 0
	}
	return float64(cs.Passes) / float64(cs.Attempts)
}

// AppendAttempt assigns the next global sequence, an ID and (when unset) a
// timestamp to ev and stores it.
func (s *Store) AppendAttempt(ctx context.Context, ev *AttemptEvent) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	ev.Sequence = seq
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.Outcome == "" {
		ev.Outcome = "{}"
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attempt_events (
			sequence, id, timestamp, user_id, challenge_id, session_id,
			attempt, error_streak, base_score, penalty, score, grade,
			passed, direct_fail, critical, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Sequence, ev.ID, formatTime(ev.Timestamp), ev.UserID, ev.ChallengeID, ev.SessionID,
		ev.Attempt, ev.ErrorStreak, ev.BaseScore, ev.Penalty, ev.Score, ev.Grade,
		boolInt(ev.Passed), boolInt(ev.DirectFail), ev.Critical, ev.Outcome,
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

// QueryAttempts returns a learner's attempt events in sequence order. An
// empty challengeID matches every challenge.
func (s *Store) QueryAttempts(ctx context.Context, userID, challengeID string, opts QueryOpts) ([]AttemptEvent, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if challengeID != "" {
		where = append(where, "challenge_id = ?")
		args = append(args, challengeID)
	}
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, formatTime(opts.From))
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, formatTime(opts.To))
	}
	q := `SELECT sequence, id, timestamp, user_id, challenge_id, session_id,
			attempt, error_streak, base_score, penalty, score, grade,
			passed, direct_fail, critical, outcome
		FROM attempt_events WHERE ` + strings.Join(where, " AND ") + ` ORDER BY sequence`
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var (
			ev                 AttemptEvent
			ts                 string
			passed, directFail int
		)
		if err := rows.Scan(&ev.Sequence, &ev.ID, &ts, &ev.UserID, &ev.ChallengeID, &ev.SessionID,
			&ev.Attempt, &ev.ErrorStreak, &ev.BaseScore, &ev.Penalty, &ev.Score, &ev.Grade,
			&passed, &directFail, &ev.Critical, &ev.Outcome); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if ev.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		ev.Passed, ev.DirectFail = passed == 1, directFail == 1
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Stats aggregates a learner's attempts per challenge, ordered by
// challenge ID.
func (s *Store) Stats(ctx context.Context, userID string) ([]ChallengeStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT challenge_id, COUNT(*), SUM(passed), MAX(score), MAX(timestamp)
		 FROM attempt_events WHERE user_id = ?
		 GROUP BY challenge_id ORDER BY challenge_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var out []ChallengeStats
	for rows.Next() {
		var (
			cs   ChallengeStats
			last string
		)
		if err := rows.Scan(&cs.ChallengeID, &cs.Attempts, &cs.Passes, &cs.BestScore, &last); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		if cs.LastAttempt, err = parseTime(last); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// PassedChallenges returns the set of challenges the learner has passed.
func (s *Store) PassedChallenges(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT challenge_id FROM attempt_events WHERE user_id = ? AND passed = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query passed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan passed: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
