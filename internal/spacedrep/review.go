// Package spacedrep brings back challenges a learner scraped through with
// a C. Each such weak point is re-graded on an expanding schedule until it
// has been passed cleanly at every stage.
package spacedrep

import "time"

// Intervals is the wait in days before each re-grade, indexed by stage.
var Intervals = []int{1, 3, 7, 14, 30, 60}

// GraduationStage is the stage reached after a clean pass at every interval.
const GraduationStage = 6

// CheckInDays is the wait between re-grades once a weak point graduates.
const CheckInDays = 90

// LapseFactor is the fraction of the current interval a learner may let a
// due re-grade slide before it counts as lapsed.
const LapseFactor = 0.5

// WeakPoint is the re-grade schedule of one challenge for one learner.
type WeakPoint struct {
	ChallengeID string `json:"challenge_id"`

	// Stage indexes Intervals; it returns to 0 when the learner fails the
	// challenge or scrapes through with another C.
	Stage int `json:"stage"`

	DueAt time.Time `json:"due_at"`

	// CleanPasses counts B-or-better passes since the schedule last started.
	CleanPasses int `json:"clean_passes"`

	Graduated    bool      `json:"graduated"`
	LastGradedAt time.Time `json:"last_graded_at"`
}

// IntervalDays is the wait that produced DueAt.
func (w *WeakPoint) IntervalDays() int {
	switch {
	case w.Graduated:
		return CheckInDays
	case w.Stage < 0:
		return Intervals[0]
	case w.Stage >= len(Intervals):
		return Intervals[len(Intervals)-1]
	}
	return Intervals[w.Stage]
}

// IsDue reports whether the challenge should be re-graded at now.
func (w *WeakPoint) IsDue(now time.Time) bool {
	return !now.Before(w.DueAt)
}

// Overdue is how long the re-grade has been due, or 0.
func (w *WeakPoint) Overdue(now time.Time) time.Duration {
	if !w.IsDue(now) {
		return 0
	}
	return now.Sub(w.DueAt)
}

// Lapsed reports whether the re-grade slipped past LapseFactor of its
// interval.
func (w *WeakPoint) Lapsed(now time.Time) bool {
	grace := time.Duration(float64(w.IntervalDays()) * LapseFactor * float64(24*time.Hour))
	return w.Overdue(now) > grace
}

// DaysUntilDue rounds the wait up to whole days; 0 once due.
func (w *WeakPoint) DaysUntilDue(now time.Time) int {
	if w.IsDue(now) {
		return 0
	}
	return int(w.DueAt.Sub(now).Hours()/24) + 1
}

// DueStatus is what the challenge listing shows for a weak point.
type DueStatus string

const (
	StatusScheduled DueStatus = "scheduled"
	StatusDue       DueStatus = "due"
	StatusLapsed    DueStatus = "lapsed"
	StatusGraduated DueStatus = "graduated"
)

// Status is the listing status at now. A graduated weak point still shows
// as due or lapsed once its check-in comes round.
func (w *WeakPoint) Status(now time.Time) DueStatus {
	switch {
	case w.Lapsed(now):
		return StatusLapsed
	case w.IsDue(now):
		return StatusDue
	case w.Graduated:
		return StatusGraduated
	}
	return StatusScheduled
}
