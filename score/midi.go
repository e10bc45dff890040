package score

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticksPerQuarter = 480

// WriteMIDI writes the sounding pitches of events as a single track
// standard MIDI file at qpm quarter notes per minute.
func WriteMIDI(w io.Writer, events []Event, qpm float64) error {
	if qpm <= 0 {
		qpm = 120
	}
	secPerTick := 60 / qpm / ticksPerQuarter

	type msg struct {
		tick int64
		off  bool
		data midi.Message
	}
	var msgs []msg
	for _, ev := range events {
		start := int64(math.Round(ev.T0 / secPerTick))
		dur := int64(math.Round(ev.Dur / secPerTick))
		if dur < 1 {
			dur = 1
		}
		key := uint8(clampKey(ev.MidiSounding))
		msgs = append(msgs,
			msg{start, false, midi.NoteOn(0, key, 90)},
			msg{start + dur, true, midi.NoteOff(0, key)},
		)
	}
	// note offs go first so that repeated pitches retrigger
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(qpm))
	tr.Add(0, smf.MetaMeter(4, 4))
	var last int64
	for _, m := range msgs {
		tr.Add(uint32(m.tick-last), m.data)
		last = m.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write midi: %w", err)
	}
	return nil
}

// ReadMIDI reads the notes of a standard MIDI file as events. Pitches are
// taken as sounding; written pitches assume an alto saxophone.
func ReadMIDI(r io.Reader) ([]Event, error) {
	type pending struct {
		start float64
	}
	open := map[uint8]pending{}
	var events []Event

	rd := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		var ch, key, vel uint8
		t := float64(te.AbsMicroSeconds) / 1e6
		m := midi.Message(te.Message)
		switch {
		case m.GetNoteStart(&ch, &key, &vel):
			open[key] = pending{start: t}
		case m.GetNoteEnd(&ch, &key):
			p, ok := open[key]
			if !ok {
				return
			}
			delete(open, key)
			events = append(events, Event{
				T0:           p.start,
				Dur:          t - p.start,
				MidiSounding: int(key),
				MidiWritten:  int(key) - AltoTranspose,
				Spelling:     Spelling(int(key) - AltoTranspose),
			})
		}
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read midi: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].T0 < events[j].T0 })
	for i := range events {
		events[i].Idx = i
	}
	return events, nil
}

var noteNames = [12]string{"C", "C#", "D", "E-", "E", "F", "F#", "G", "G#", "A", "B-", "B"}

// Spelling names a MIDI pitch with its octave, such as C4 for 60.
func Spelling(pitch int) string {
	return fmt.Sprintf("%s%d", noteNames[((pitch%12)+12)%12], pitch/12-1)
}

func clampKey(k int) int {
	if k < 0 {
		return 0
	}
	if k > 127 {
		return 127
	}
	return k
}
