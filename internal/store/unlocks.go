package store

import (
	"context"
	"fmt"
	"time"
)

// Unlock marks challenges as unlocked for a learner. Already unlocked
// challenges keep their original sequence and time.
func (s *Store) Unlock(ctx context.Context, userID string, challengeIDs []string, now time.Time) error {
	for _, id := range challengeIDs {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO unlocks (user_id, challenge_id, sequence, unlocked_at)
			 VALUES (?, ?, ?, ?)`,
			userID, id, seq, formatTime(now))
		if err != nil {
			return fmt.Errorf("save unlock: %w", err)
		}
	}
	return nil
}

// Unlocked returns the set of challenges unlocked for a learner.
func (s *Store) Unlocked(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT challenge_id FROM unlocks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query unlocks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
