package score

import (
	"errors"
	"log/slog"
)

// Playable is an instrument that can schedule a note on the audio clock.
type Playable interface {
	Play(pitch int, start, duration float64, velocity int) error
}

// Schedule plays every event on p at offset seconds plus the event start.
// Events that p rejects are skipped; their errors are joined and returned.
func Schedule(p Playable, events []Event, offset float64, velocity int) error {
	var errs []error
	for _, ev := range events {
		if err := p.Play(ev.MidiSounding, offset+ev.T0, ev.Dur, velocity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sequencer feeds a score to an instrument a little ahead of the audio
// clock, so that long scores do not build their whole graph up front.
type Sequencer struct {
	Velocity int

	p      Playable
	events []Event
	offset float64
	next   int
}

// NewSequencer plays events, which must be sorted by start time, with the
// score starting at offset seconds on the audio clock.
func NewSequencer(p Playable, events []Event, offset float64, velocity int) *Sequencer {
	return &Sequencer{Velocity: velocity, p: p, events: events, offset: offset}
}

// Tick schedules the events that start before now+lookahead. Events whose
// start has already passed are played late rather than dropped.
func (s *Sequencer) Tick(now, lookahead float64) {
	for ; s.next < len(s.events); s.next++ {
		ev := s.events[s.next]
		start := s.offset + ev.T0
		if start >= now+lookahead {
			return
		}
		if start < now {
			start = now
		}
		if err := s.p.Play(ev.MidiSounding, start, ev.Dur, s.Velocity); err != nil {
			slog.Warn("skipping note", "idx", ev.Idx, "err", err)
		}
	}
}

// Seek restarts the sequence at pos seconds into the score, which then
// sounds at time now on the audio clock.
func (s *Sequencer) Seek(pos, now float64) {
	s.offset = now - pos
	s.next = 0
	for s.next < len(s.events) && s.events[s.next].T0 < pos {
		s.next++
	}
}

// Done reports whether every event has been scheduled.
func (s *Sequencer) Done() bool { return s.next >= len(s.events) }

// End is the audio clock time at which the last event ends.
func (s *Sequencer) End() float64 { return s.offset + Duration(s.events) }
