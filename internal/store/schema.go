package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		user_id      TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		id           TEXT NOT NULL,
		attempts     INTEGER NOT NULL,
		error_streak INTEGER NOT NULL,
		started_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (user_id, challenge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attempt_events (
		sequence     INTEGER PRIMARY KEY,
		id           TEXT NOT NULL UNIQUE,
		timestamp    TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		session_id   TEXT NOT NULL,
		attempt      INTEGER NOT NULL,
		error_streak INTEGER NOT NULL,
		base_score   REAL NOT NULL,
		penalty      REAL NOT NULL,
		score        REAL NOT NULL,
		grade        TEXT NOT NULL,
		passed       INTEGER NOT NULL,
		direct_fail  INTEGER NOT NULL,
		critical     INTEGER NOT NULL,
		outcome      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS attempt_events_user_challenge
		ON attempt_events (user_id, challenge_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS unlocks (
		user_id      TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		sequence     INTEGER NOT NULL,
		unlocked_at  TEXT NOT NULL,
		PRIMARY KEY (user_id, challenge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS weak_points (
		user_id        TEXT NOT NULL,
		challenge_id   TEXT NOT NULL,
		stage          INTEGER NOT NULL,
		due_at         TEXT NOT NULL,
		clean_passes   INTEGER NOT NULL,
		graduated      INTEGER NOT NULL,
		last_graded_at TEXT NOT NULL,
		PRIMARY KEY (user_id, challenge_id)
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
