package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhisek/growthlab/internal/session"
)

// SessionRepo returns a session.Repo backed by this store.
func (s *Store) SessionRepo() session.Repo {
	return &sessionRepo{db: s.db}
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) LoadSession(ctx context.Context, userID, challengeID string) (*session.Session, error) {
	var (
		sess             session.Session
		started, updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, attempts, error_streak, started_at, updated_at
		 FROM sessions WHERE user_id = ? AND challenge_id = ?`,
		userID, challengeID,
	).Scan(&sess.ID, &sess.Attempts, &sess.ErrorStreak, &started, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	sess.UserID, sess.ChallengeID = userID, challengeID
	if sess.StartedAt, err = parseTime(started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if sess.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &sess, nil
}

func (r *sessionRepo) SaveSession(ctx context.Context, sess *session.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, challenge_id, id, attempts, error_streak, started_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, challenge_id) DO UPDATE SET
			id = excluded.id,
			attempts = excluded.attempts,
			error_streak = excluded.error_streak,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at`,
		sess.UserID, sess.ChallengeID, sess.ID, sess.Attempts, sess.ErrorStreak,
		formatTime(sess.StartedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteSession(ctx context.Context, userID, challengeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ? AND challenge_id = ?`, userID, challengeID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
