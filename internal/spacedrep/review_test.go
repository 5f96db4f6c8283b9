package spacedrep

import (
	"testing"
	"time"
)

var deadline = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestIsDueAndOverdue(t *testing.T) {
	w := &WeakPoint{DueAt: deadline}
	tests := []struct {
		now     time.Time
		isDue   bool
		overdue time.Duration
	}{
		{deadline.Add(-time.Hour), false, 0},
		{deadline, true, 0},
		{deadline.Add(72 * time.Hour), true, 72 * time.Hour},
	}
	for _, tt := range tests {
		if got := w.IsDue(tt.now); got != tt.isDue {
			t.Errorf("IsDue(%v) = %v, want %v", tt.now, got, tt.isDue)
		}
		if got := w.Overdue(tt.now); got != tt.overdue {
			t.Errorf("Overdue(%v) = %v, want %v", tt.now, got, tt.overdue)
		}
	}
}

func TestIntervalDays(t *testing.T) {
	for stage, want := range []int{1, 3, 7, 14, 30, 60, 60} {
		w := &WeakPoint{Stage: stage}
		if got := w.IntervalDays(); got != want {
			t.Errorf("stage %d: interval %d, want %d", stage, got, want)
		}
	}
	if got := (&WeakPoint{Stage: -1}).IntervalDays(); got != Intervals[0] {
		t.Errorf("negative stage interval = %d, want %d", got, Intervals[0])
	}
	if got := (&WeakPoint{Graduated: true}).IntervalDays(); got != CheckInDays {
		t.Errorf("graduated interval = %d, want %d", got, CheckInDays)
	}
}

func TestLapsed_BoundaryIsExclusive(t *testing.T) {
	// Stage 1 waits 3 days, so the re-grade may slide a day and a half.
	w := &WeakPoint{Stage: 1, DueAt: deadline}
	grace := 36 * time.Hour
	if w.Lapsed(deadline.Add(grace)) {
		t.Error("Lapsed at exactly the grace boundary, want not lapsed")
	}
	if !w.Lapsed(deadline.Add(grace + time.Minute)) {
		t.Error("not Lapsed past the grace boundary")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		w    WeakPoint
		now  time.Time
		want DueStatus
	}{
		{"scheduled", WeakPoint{Stage: 2, DueAt: deadline}, deadline.Add(-24 * time.Hour), StatusScheduled},
		{"due within grace", WeakPoint{Stage: 2, DueAt: deadline}, deadline.Add(24 * time.Hour), StatusDue},
		{"lapsed", WeakPoint{Stage: 2, DueAt: deadline}, deadline.Add(5 * 24 * time.Hour), StatusLapsed},
		{"graduated", WeakPoint{Graduated: true, DueAt: deadline}, deadline.Add(-24 * time.Hour), StatusGraduated},
		{"graduated check-in due", WeakPoint{Graduated: true, DueAt: deadline}, deadline.Add(10 * 24 * time.Hour), StatusDue},
		{"graduated check-in lapsed", WeakPoint{Graduated: true, DueAt: deadline}, deadline.Add(50 * 24 * time.Hour), StatusLapsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Status(tt.now); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := deadline.Add(-108 * time.Hour) // 4.5 days early
	w := &WeakPoint{DueAt: deadline}
	if got := w.DaysUntilDue(now); got != 5 {
		t.Errorf("DaysUntilDue() = %d, want 5", got)
	}
	if got := w.DaysUntilDue(deadline.Add(time.Hour)); got != 0 {
		t.Errorf("DaysUntilDue() after due = %d, want 0", got)
	}
}
