package sax

import (
	"errors"
	"fmt"
	"math"
)

// DefaultVelocity is used by callers that have no velocity information.
const DefaultVelocity = 80

var ErrInvalidNote = errors.New("invalid note")

// Note is a request to play one pitch. Start is in seconds on the clock of
// the audio context the note is played on.
type Note struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"startTime"`
	Duration float64 `json:"duration"`
	Velocity int     `json:"velocity"`
}

// MidiToFreq converts a MIDI note number to Hz, with A4 (69) at 440Hz.
func MidiToFreq(pitch int) float64 {
	return 440 * math.Exp2(float64(pitch-69)/12)
}

// Validate rejects start times and durations that cannot be scheduled.
// Out of range pitches and velocities are clamped when the note is played.
func (n Note) Validate() error {
	if math.IsNaN(n.Start) || math.IsInf(n.Start, 0) || n.Start < 0 {
		return fmt.Errorf("%w: start time %v", ErrInvalidNote, n.Start)
	}
	if math.IsNaN(n.Duration) || math.IsInf(n.Duration, 0) || n.Duration < 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidNote, n.Duration)
	}
	return nil
}

// normalize clamps pitch and velocity to the MIDI range.
func (n Note) normalize() (Note, error) {
	if err := n.Validate(); err != nil {
		return n, err
	}
	n.Pitch = clamp(n.Pitch, 0, 127)
	n.Velocity = clamp(n.Velocity, 0, 127)
	return n, nil
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
