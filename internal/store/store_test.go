package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/growthlab/internal/session"
	"github.com/abhisek/growthlab/internal/spacedrep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()
	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	db := openTestStore(t).DB()
	for _, table := range []string{"sessions", "attempt_events", "unlocks", "weak_points", "global_sequence"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growthlab.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := s.AppendAttempt(ctx, &AttemptEvent{UserID: "u", ChallengeID: "c", Grade: "A"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	ev := &AttemptEvent{UserID: "u", ChallengeID: "c", Grade: "B"}
	if err := s.AppendAttempt(ctx, ev); err != nil {
		t.Fatalf("append: %v", err)
	}
	if ev.Sequence != 2 {
		t.Errorf("sequence after reopen = %d, want 2", ev.Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i) {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}
}

func TestSessionRepo(t *testing.T) {
	repo := openTestStore(t).SessionRepo()
	ctx := context.Background()

	got, err := repo.LoadSession(ctx, "u1", "ltv")
	if err != nil || got != nil {
		t.Fatalf("LoadSession on empty = %v, %v; want nil, nil", got, err)
	}

	sess := session.New("u1", "ltv", t0)
	sess.Record(false, t0.Add(time.Minute))
	if err := repo.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	sess.Record(false, t0.Add(2*time.Minute))
	if err := repo.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err = repo.LoadSession(ctx, "u1", "ltv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != sess.ID || got.Attempts != 3 || got.ErrorStreak != 2 {
		t.Errorf("loaded %+v, want %+v", got, sess)
	}
	if !got.UpdatedAt.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("UpdatedAt = %v", got.UpdatedAt)
	}

	if err := repo.DeleteSession(ctx, "u1", "ltv"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := repo.LoadSession(ctx, "u1", "ltv"); got != nil {
		t.Error("expected session to be deleted")
	}
}

func TestTrackerWithStore(t *testing.T) {
	tr := session.NewTracker(openTestStore(t).SessionRepo())
	ctx := context.Background()
	for range 3 {
		if err := tr.Do(ctx, "u1", "ltv", func(s *session.Session) error {
			s.Record(false, t0)
			return nil
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	_ = tr.Do(ctx, "u1", "ltv", func(s *session.Session) error {
		if s.Attempts != 4 || s.ErrorStreak != 3 {
			t.Errorf("got attempts=%d streak=%d, want 4/3", s.Attempts, s.ErrorStreak)
		}
		return nil
	})
}

func TestAttemptsAndStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := []AttemptEvent{
		{UserID: "u1", ChallengeID: "ltv", Attempt: 1, Score: 55, Grade: "F", Timestamp: t0},
		{UserID: "u1", ChallengeID: "ltv", Attempt: 2, Score: 82, Grade: "A", Passed: true, Timestamp: t0.Add(time.Hour)},
		{UserID: "u1", ChallengeID: "plan", Attempt: 1, Score: 70, Grade: "B", Critical: 1, Timestamp: t0.Add(2 * time.Hour)},
		{UserID: "u2", ChallengeID: "ltv", Attempt: 1, Score: 99, Grade: "A+", Passed: true, Timestamp: t0},
	}
	for i := range events {
		if err := s.AppendAttempt(ctx, &events[i]); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if events[i].ID == "" {
			t.Error("expected an attempt ID")
		}
	}

	all, err := s.QueryAttempts(ctx, "u1", "", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d attempts, want 3", len(all))
	}
	if all[1].Sequence <= all[0].Sequence || !all[1].Passed || all[1].Grade != "A" {
		t.Errorf("unexpected second attempt %+v", all[1])
	}
	if !all[0].Timestamp.Equal(t0) {
		t.Errorf("timestamp = %v, want %v", all[0].Timestamp, t0)
	}

	ltv, _ := s.QueryAttempts(ctx, "u1", "ltv", QueryOpts{Limit: 1})
	if len(ltv) != 1 || ltv[0].Score != 55 {
		t.Errorf("limited query = %+v", ltv)
	}
	later, _ := s.QueryAttempts(ctx, "u1", "", QueryOpts{From: t0.Add(30 * time.Minute)})
	if len(later) != 2 {
		t.Errorf("From filter returned %d, want 2", len(later))
	}

	stats, err := s.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stats rows, want 2", len(stats))
	}
	if st := stats[0]; st.ChallengeID != "ltv" || st.Attempts != 2 || st.Passes != 1 || st.BestScore != 82 {
		t.Errorf("ltv stats = %+v", st)
	}
	if r := stats[0].PassRate(); r != 0.5 {
		t.Errorf("PassRate() = %v, want 0.5", r)
	}
	if !stats[1].LastAttempt.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("LastAttempt = %v", stats[1].LastAttempt)
	}

	passed, err := s.PassedChallenges(ctx, "u1")
	if err != nil {
		t.Fatalf("passed: %v", err)
	}
	if !passed["ltv"] || passed["plan"] || len(passed) != 1 {
		t.Errorf("passed = %v", passed)
	}
}

func TestUnlocks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Unlock(ctx, "u1", []string{"a", "b"}, t0); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := s.Unlock(ctx, "u1", []string{"b"}, t0.Add(time.Hour)); err != nil {
		t.Fatalf("unlock again: %v", err)
	}
	got, err := s.Unlocked(ctx, "u1")
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if len(got) != 2 || !got["a"] || !got["b"] {
		t.Errorf("unlocked = %v", got)
	}
	if other, _ := s.Unlocked(ctx, "u2"); len(other) != 0 {
		t.Errorf("u2 unlocked = %v", other)
	}
}

func TestReviews(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	w := spacedrep.WeakPoint{
		ChallengeID:  "ltv",
		Stage:        2,
		DueAt:        t0.AddDate(0, 0, 7),
		LastGradedAt: t0,
	}
	if err := s.SaveReview(ctx, "u1", w); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.Stage, w.Graduated = 6, true
	if err := s.SaveReview(ctx, "u1", w); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := s.LoadReviews(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Stage != 6 || !got[0].Graduated || !got[0].DueAt.Equal(w.DueAt) {
		t.Errorf("loaded %+v", got)
	}
}

func TestResetUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_ = s.AppendAttempt(ctx, &AttemptEvent{UserID: "u1", ChallengeID: "ltv", Grade: "F"})
	_ = s.AppendAttempt(ctx, &AttemptEvent{UserID: "u2", ChallengeID: "ltv", Grade: "F"})
	_ = s.Unlock(ctx, "u1", []string{"a"}, t0)
	_ = s.SessionRepo().SaveSession(ctx, session.New("u1", "ltv", t0))

	if err := s.ResetUser(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if evs, _ := s.QueryAttempts(ctx, "u1", "", QueryOpts{}); len(evs) != 0 {
		t.Errorf("u1 attempts left: %d", len(evs))
	}
	if evs, _ := s.QueryAttempts(ctx, "u2", "", QueryOpts{}); len(evs) != 1 {
		t.Errorf("u2 attempts = %d, want 1", len(evs))
	}
	if sess, _ := s.SessionRepo().LoadSession(ctx, "u1", "ltv"); sess != nil {
		t.Error("session should be gone")
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	want := filepath.Join(t.TempDir(), "sub", "x.db")
	t.Setenv("GROWTHLAB_DB", want)
	got, err := DefaultDBPath()
	if err != nil || got != want {
		t.Errorf("DefaultDBPath() = %q, %v; want %q", got, err, want)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GROWTHLAB_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "growthlab", "growthlab.db"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
