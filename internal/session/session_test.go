package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	s := New("u1", "ltv-basics", t0)
	if s.Attempts != 1 || s.ErrorStreak != 0 {
		t.Errorf("got attempts=%d streak=%d, want 1/0", s.Attempts, s.ErrorStreak)
	}
	if s.ID == "" {
		t.Error("expected a session ID")
	}
}

func TestRecord_FailThenPass(t *testing.T) {
	s := New("u1", "c1", t0)
	firstID := s.ID

	s.Record(false, t0.Add(time.Minute))
	s.Record(false, t0.Add(2*time.Minute))
	if s.Attempts != 3 || s.ErrorStreak != 2 {
		t.Fatalf("got attempts=%d streak=%d, want 3/2", s.Attempts, s.ErrorStreak)
	}
	if s.ID != firstID {
		t.Error("failed attempts should keep the sequence ID")
	}

	s.Record(true, t0.Add(3*time.Minute))
	if s.Attempts != 1 || s.ErrorStreak != 0 {
		t.Errorf("after pass got attempts=%d streak=%d, want 1/0", s.Attempts, s.ErrorStreak)
	}
	if s.ID == firstID {
		t.Error("pass should start a new sequence")
	}
	if !s.StartedAt.Equal(t0.Add(3 * time.Minute)) {
		t.Errorf("StartedAt = %v, want reset time", s.StartedAt)
	}
}

func TestAttemptAndStreak_Defaults(t *testing.T) {
	var nilSession *Session
	if nilSession.Attempt() != 1 || nilSession.Streak() != 0 {
		t.Error("nil session should read as first attempt, no streak")
	}
	s := &Session{Attempts: 0, ErrorStreak: -2}
	if s.Attempt() != 1 || s.Streak() != 0 {
		t.Errorf("got %d/%d, want 1/0", s.Attempt(), s.Streak())
	}
}

func TestTracker_PersistsAcrossCalls(t *testing.T) {
	tr := NewTracker(nil)
	ctx := context.Background()

	for range 2 {
		err := tr.Do(ctx, "u1", "c1", func(s *Session) error {
			s.Record(false, t0)
			return nil
		})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
	}

	var got Session
	_ = tr.Do(ctx, "u1", "c1", func(s *Session) error {
		got = *s
		return nil
	})
	if got.Attempts != 3 || got.ErrorStreak != 2 {
		t.Errorf("got attempts=%d streak=%d, want 3/2", got.Attempts, got.ErrorStreak)
	}
}

func TestTracker_ErrorSkipsSave(t *testing.T) {
	tr := NewTracker(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tr.Do(ctx, "u1", "c1", func(s *Session) error {
		s.Record(false, t0)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	_ = tr.Do(ctx, "u1", "c1", func(s *Session) error {
		if s.Attempts != 1 {
			t.Errorf("attempts = %d, want 1 (failed Do must not save)", s.Attempts)
		}
		return nil
	})
}

func TestTracker_SerializesSameKey(t *testing.T) {
	tr := NewTracker(nil)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.Do(ctx, "u1", "c1", func(s *Session) error {
				s.Record(false, t0)
				return nil
			})
		}()
	}
	wg.Wait()

	_ = tr.Do(ctx, "u1", "c1", func(s *Session) error {
		if s.ErrorStreak != n {
			t.Errorf("streak = %d, want %d (lost update)", s.ErrorStreak, n)
		}
		return nil
	})
}

func TestTracker_Abandon(t *testing.T) {
	tr := NewTracker(nil)
	ctx := context.Background()
	_ = tr.Do(ctx, "u1", "c1", func(s *Session) error {
		s.Record(false, t0)
		return nil
	})
	if err := tr.Abandon(ctx, "u1", "c1"); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	_ = tr.Do(ctx, "u1", "c1", func(s *Session) error {
		if s.Attempts != 1 {
			t.Errorf("attempts = %d, want fresh session", s.Attempts)
		}
		return nil
	})
}

func TestTracker_ReleasesIdleLocks(t *testing.T) {
	tr := NewTracker(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.Do(ctx, "u1", fmt.Sprintf("c%d", i%4), func(s *Session) error {
				s.Record(false, t0)
				return nil
			})
		}()
	}
	wg.Wait()
	if err := tr.Abandon(ctx, "u1", "c0"); err != nil {
		t.Fatalf("Abandon: %v", err)
	}

	tr.mu.Lock()
	n := len(tr.locks)
	tr.mu.Unlock()
	if n != 0 {
		t.Errorf("locks held after all calls returned = %d, want 0", n)
	}
}
