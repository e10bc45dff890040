// Package score holds the note events of a parsed score and schedules them
// onto an instrument.
package score

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// AltoTranspose is the interval from written to sounding pitch on an alto
// saxophone, a major sixth down.
const AltoTranspose = -9

var ErrNoEvents = errors.New("no note events")

// Event is one monophonic note of a score.
type Event struct {
	Idx          int     `json:"idx"`
	T0           float64 `json:"t0_sec"`
	Dur          float64 `json:"dur_sec"`
	QL           float64 `json:"ql,omitempty"`
	MidiWritten  int     `json:"midi_written"`
	MidiSounding int     `json:"midi_sounding"`
	Spelling     string  `json:"spelling"`
}

// End is the time at which the event stops sounding.
func (e Event) End() float64 { return e.T0 + e.Dur }

// Metadata describes how the events were derived from the score.
type Metadata struct {
	QPM               float64  `json:"qpm"`
	SecondsPerQuarter float64  `json:"secondsPerQuarter"`
	Transpose         int      `json:"transposeSemitonesSounding"`
	Warnings          []string `json:"warnings"`
}

// Payload is the response of the score parsing service.
type Payload struct {
	Metadata   Metadata        `json:"metadata"`
	Events     []Event         `json:"events"`
	Fingerings []EventFingering `json:"fingerings,omitempty"`
	MIDIBase64 string          `json:"midiBase64,omitempty"`
}

// MIDI decodes the embedded standard MIDI file, if any.
func (p *Payload) MIDI() ([]Event, error) {
	if p.MIDIBase64 == "" {
		return nil, ErrNoEvents
	}
	data, err := base64.StdEncoding.DecodeString(p.MIDIBase64)
	if err != nil {
		return nil, fmt.Errorf("decode midi: %w", err)
	}
	return ReadMIDI(bytes.NewReader(data))
}

// Load reads events from either a parser payload or a bare JSON array of
// events. Events are returned in time order.
func Load(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var events []Event
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
	} else {
		var p Payload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		events = p.Events
		if len(events) == 0 && p.MIDIBase64 != "" {
			if events, err = p.MIDI(); err != nil {
				return nil, err
			}
		}
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	for i, ev := range events {
		if ev.Dur < 0 || ev.T0 < 0 {
			return nil, fmt.Errorf("event %d: negative time", ev.Idx)
		}
		if ev.MidiSounding == 0 && ev.MidiWritten != 0 {
			events[i].MidiSounding = ev.MidiWritten + AltoTranspose
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].T0 < events[j].T0 })
	return events, nil
}

// Duration is the end of the last event.
func Duration(events []Event) float64 {
	var end float64
	for _, ev := range events {
		if ev.End() > end {
			end = ev.End()
		}
	}
	return end
}
