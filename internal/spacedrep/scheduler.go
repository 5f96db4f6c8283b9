package spacedrep

import (
	"sort"
	"time"

	"github.com/abhisek/growthlab/internal/grade"
)

// Change says what Record did to a weak point.
type Change string

const (
	ChangeNone       Change = ""
	ChangeRegistered Change = "registered"
	ChangeAdvanced   Change = "advanced"
	ChangeGraduated  Change = "graduated"
	ChangeReset      Change = "reset"
)

// Scheduler tracks the weak points of one learner. It is not safe for
// concurrent use; callers load, update and save it under their own lock.
type Scheduler struct {
	points map[string]*WeakPoint
}

// NewScheduler creates a scheduler seeded with persisted weak points.
func NewScheduler(states []WeakPoint) *Scheduler {
	s := &Scheduler{points: make(map[string]*WeakPoint, len(states))}
	for i := range states {
		w := states[i]
		s.points[w.ChallengeID] = &w
	}
	return s
}

// Record applies a graded outcome for challengeID. A passing grade C
// registers the challenge as a weak point (or restarts its schedule).
// For tracked challenges, a pass at B or better advances a stage and a
// fail restarts the schedule. Untracked challenges are otherwise ignored.
func (s *Scheduler) Record(challengeID string, d grade.Decision, passed bool, now time.Time) (*WeakPoint, Change) {
	w := s.points[challengeID]
	weak := passed && d.WeakPoint

	switch {
	case w == nil && weak:
		w = s.start(challengeID, now)
		return w, ChangeRegistered
	case w == nil:
		return nil, ChangeNone
	case weak || !passed:
		w = s.start(challengeID, now)
		return w, ChangeReset
	}

	w.LastGradedAt = now
	w.CleanPasses++
	if !w.Graduated {
		w.Stage++
		if w.Stage >= GraduationStage {
			w.Graduated = true
		}
	}
	w.DueAt = now.AddDate(0, 0, w.IntervalDays())
	if w.Graduated {
		return w, ChangeGraduated
	}
	return w, ChangeAdvanced
}

func (s *Scheduler) start(challengeID string, now time.Time) *WeakPoint {
	w := &WeakPoint{
		ChallengeID:  challengeID,
		DueAt:        now.AddDate(0, 0, Intervals[0]),
		LastGradedAt: now,
	}
	s.points[challengeID] = w
	return w
}

// Get returns the weak point for challengeID, or nil if it is not one.
func (s *Scheduler) Get(challengeID string) *WeakPoint {
	return s.points[challengeID]
}

// Due returns weak points due for review, most overdue first.
func (s *Scheduler) Due(now time.Time) []string {
	type due struct {
		id      string
		overdue time.Duration
	}
	var ds []due
	for id, w := range s.points {
		if w.IsDue(now) {
			ds = append(ds, due{id: id, overdue: w.Overdue(now)})
		}
	}
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].overdue != ds[j].overdue {
			return ds[i].overdue > ds[j].overdue
		}
		return ds[i].id < ds[j].id
	})
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.id
	}
	return ids
}

// States returns a copy of every weak point, sorted by challenge ID.
func (s *Scheduler) States() []WeakPoint {
	out := make([]WeakPoint, 0, len(s.points))
	for _, w := range s.points {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChallengeID < out[j].ChallengeID })
	return out
}
