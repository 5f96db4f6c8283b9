package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Repo persists sessions. Load returns (nil, nil) when no session exists.
type Repo interface {
	LoadSession(ctx context.Context, userID, challengeID string) (*Session, error)
	SaveSession(ctx context.Context, s *Session) error
	DeleteSession(ctx context.Context, userID, challengeID string) error
}

type key struct {
	userID      string
	challengeID string
}

// Tracker hands out sessions keyed by (user, challenge) and serializes
// access per key, so a double submit cannot interleave two validations
// on the same session.
type Tracker struct {
	repo Repo
	now  func() time.Time

	mu    sync.Mutex
	locks map[key]*keyLock
}

// keyLock is a per-key mutex shared by the callers currently holding or
// waiting on it. It is dropped from the map when refs reaches zero.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewTracker creates a Tracker backed by repo. A nil repo keeps sessions
// in memory.
func NewTracker(repo Repo) *Tracker {
	if repo == nil {
		repo = NewMemoryRepo()
	}
	return &Tracker{
		repo:  repo,
		now:   time.Now,
		locks: make(map[key]*keyLock),
	}
}

func (t *Tracker) lock(k key) func() {
	t.mu.Lock()
	l, ok := t.locks[k]
	if !ok {
		l = &keyLock{}
		t.locks[k] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, k)
		}
		t.mu.Unlock()
	}
}

// Do loads (or starts) the session for (userID, challengeID), runs fn with
// exclusive access to it, and saves it when fn succeeds.
func (t *Tracker) Do(ctx context.Context, userID, challengeID string, fn func(*Session) error) error {
	defer t.lock(key{userID, challengeID})()

	s, err := t.repo.LoadSession(ctx, userID, challengeID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		s = New(userID, challengeID, t.now())
	}
	if err := fn(s); err != nil {
		return err
	}
	if err := t.repo.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Abandon drops the session for (userID, challengeID).
func (t *Tracker) Abandon(ctx context.Context, userID, challengeID string) error {
	defer t.lock(key{userID, challengeID})()
	return t.repo.DeleteSession(ctx, userID, challengeID)
}

// MemoryRepo is an in-process Repo.
type MemoryRepo struct {
	mu       sync.Mutex
	sessions map[key]Session
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{sessions: make(map[key]Session)}
}

func (r *MemoryRepo) LoadSession(_ context.Context, userID, challengeID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key{userID, challengeID}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepo) SaveSession(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key{s.UserID, s.ChallengeID}] = *s
	return nil
}

func (r *MemoryRepo) DeleteSession(_ context.Context, userID, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key{userID, challengeID})
	return nil
}
