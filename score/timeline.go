package score

import (
	"sort"
	"time"
)

// Timeline tracks the playback position of a score against the wall clock.
type Timeline struct {
	Playing   bool
	StartedAt time.Time
	PausedAt  float64 // s
}

// Now returns the playback position at wall clock time t.
func (tl *Timeline) Now(t time.Time) float64 {
	if !tl.Playing || tl.StartedAt.IsZero() {
		return tl.PausedAt
	}
	return tl.PausedAt + t.Sub(tl.StartedAt).Seconds()
}

// Play resumes playback from the paused position.
func (tl *Timeline) Play(t time.Time) {
	if tl.Playing {
		return
	}
	tl.Playing = true
	tl.StartedAt = t
}

// Pause freezes the position at its value at t.
func (tl *Timeline) Pause(t time.Time) {
	if !tl.Playing {
		return
	}
	tl.PausedAt = tl.Now(t)
	tl.Playing = false
	tl.StartedAt = time.Time{}
}

// Seek moves to pos seconds, keeping the playing state.
func (tl *Timeline) Seek(pos float64, t time.Time) {
	if pos < 0 {
		pos = 0
	}
	tl.PausedAt = pos
	if tl.Playing {
		tl.StartedAt = t
	}
}

// ActiveIndex returns the Idx of the event sounding at t. Events must be
// sorted by start time and must not overlap.
func ActiveIndex(events []Event, t float64) (int, bool) {
	i := sort.Search(len(events), func(i int) bool { return events[i].T0 > t })
	if i == 0 {
		return 0, false
	}
	ev := events[i-1]
	if t >= ev.T0 && t < ev.End() {
		return ev.Idx, true
	}
	return 0, false
}
