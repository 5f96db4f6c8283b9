package store

import (
	"context"
	"fmt"

	"github.com/abhisek/growthlab/internal/spacedrep"
)

// LoadReviews returns a learner's weak-point schedules.
func (s *Store) LoadReviews(ctx context.Context, userID string) ([]spacedrep.WeakPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT challenge_id, stage, due_at, clean_passes, graduated, last_graded_at
		 FROM weak_points WHERE user_id = ? ORDER BY challenge_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []spacedrep.WeakPoint
	for rows.Next() {
		var (
			w          spacedrep.WeakPoint
			next, last string
			graduated  int
		)
		if err := rows.Scan(&w.ChallengeID, &w.Stage, &next, &w.CleanPasses, &graduated, &last); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if w.DueAt, err = parseTime(next); err != nil {
			return nil, fmt.Errorf("parse due_at: %w", err)
		}
		if w.LastGradedAt, err = parseTime(last); err != nil {
			return nil, fmt.Errorf("parse last_graded_at: %w", err)
		}
		w.Graduated = graduated == 1
		out = append(out, w)
	}
	return out, rows.Err()
}

// SaveReview upserts one weak-point schedule.
func (s *Store) SaveReview(ctx context.Context, userID string, w spacedrep.WeakPoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weak_points (user_id, challenge_id, stage, due_at, clean_passes, graduated, last_graded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, challenge_id) DO UPDATE SET
			stage = excluded.stage,
			due_at = excluded.due_at,
			clean_passes = excluded.clean_passes,
			graduated = excluded.graduated,
			last_graded_at = excluded.last_graded_at`,
		userID, w.ChallengeID, w.Stage, formatTime(w.DueAt), w.CleanPasses,
		boolInt(w.Graduated), formatTime(w.LastGradedAt))
	if err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	return nil
}
