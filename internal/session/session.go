package session

import (
	"time"

	"github.com/google/uuid"
)

// Record applies a validation outcome to the session. A pass resets the
// sequence; a fail moves to the next attempt and extends the error streak.
func (s *Session) Record(passed bool, now time.Time) {
	if passed {
		s.Reset(now)
		return
	}
	s.Attempts = s.Attempt() + 1
	s.ErrorStreak = s.Streak() + 1
	s.UpdatedAt = now
}

// Reset starts a fresh attempt sequence for the same user and challenge,
// e.g. after a pass or when the challenge is abandoned.
func (s *Session) Reset(now time.Time) {
	s.ID = uuid.New().String()
	s.Attempts = 1
	s.ErrorStreak = 0
	s.StartedAt = now
	s.UpdatedAt = now
}
