package session

import (
	"time"

	"github.com/google/uuid"
)

// Session tracks one learner's attempt sequence on one challenge. It is
// owned by the caller: the validator reads it and never mutates it.
type Session struct {
	// ID is the UUID of this attempt sequence.
	ID string `json:"id"`

	// UserID and ChallengeID identify the sequence.
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`

	// Attempts is the number of the attempt being graded (1 for the first).
	Attempts int `json:"attempts"`

	// ErrorStreak is the count of consecutive failed validations.
	ErrorStreak int `json:"error_streak"`

	// StartedAt is when the sequence began; reset with the session.
	StartedAt time.Time `json:"started_at"`

	// UpdatedAt is when an outcome was last recorded.
	UpdatedAt time.Time `json:"updated_at"`
}

// New starts a session at the first attempt with no error streak.
func New(userID, challengeID string, now time.Time) *Session {
	return &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		ChallengeID: challengeID,
		Attempts:    1,
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// Attempt returns the attempt number, treating anything below 1 as the
// first attempt.
func (s *Session) Attempt() int {
	if s == nil || s.Attempts < 1 {
		return 1
	}
	return s.Attempts
}

// Streak returns the error streak, treating a nil session as no streak.
func (s *Session) Streak() int {
	if s == nil || s.ErrorStreak < 0 {
		return 0
	}
	return s.ErrorStreak
}
