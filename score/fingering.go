package score

import (
	"sort"
	"strings"
)

// Key is one key of an alto saxophone.
type Key int

const (
	Octave Key = iota
	LH1
	LH2
	LH3
	RH1
	RH2
	RH3
	GSharp
	BisBb
	SideBb
	SideC
	SideEb
	LowC
	LowB
	LowBb
	LowCSharp
	PalmD
	PalmEb
	PalmF
	numKeys
)

var keyNames = [numKeys]string{
	"octave", "lh1", "lh2", "lh3", "rh1", "rh2", "rh3",
	"gSharp", "bisBb", "sideBb", "sideC", "sideEb",
	"lowC", "lowB", "lowBb", "lowCsharp",
	"palmD", "palmEb", "palmF",
}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return "?"
	}
	return keyNames[k]
}

// Fingering is the set of pressed keys.
type Fingering uint32

func keys(ks ...Key) Fingering {
	var f Fingering
	for _, k := range ks {
		f |= 1 << k
	}
	return f
}

// Pressed reports whether k is held down.
func (f Fingering) Pressed(k Key) bool { return f&(1<<k) != 0 }

// Keys returns the pressed keys in key order.
func (f Fingering) Keys() []Key {
	var ks []Key
	for k := Key(0); k < numKeys; k++ {
		if f.Pressed(k) {
			ks = append(ks, k)
		}
	}
	return ks
}

// KeyStates maps every key name to whether it is pressed.
func (f Fingering) KeyStates() map[string]bool {
	m := make(map[string]bool, numKeys)
	for k := Key(0); k < numKeys; k++ {
		m[k.String()] = f.Pressed(k)
	}
	return m
}

func (f Fingering) String() string {
	ks := f.Keys()
	if len(ks) == 0 {
		return "open"
	}
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.String()
	}
	return strings.Join(names, " ")
}

var main6 = []Key{LH1, LH2, LH3, RH1, RH2, RH3}

func with(base []Key, extra ...Key) Fingering {
	return keys(append(append([]Key{}, base...), extra...)...)
}

// altoFingerings are the standard fingerings by written MIDI pitch.
var altoFingerings = map[int]Fingering{
	58: with(main6, LowBb),
	59: with(main6, LowB),
	60: with(main6, LowC),
	61: with(main6, LowCSharp),

	62: keys(main6...),
	63: keys(LH1, LH2, LH3, RH1, RH2, SideEb),
	64: keys(LH1, LH2, LH3, RH1, RH2),
	65: keys(LH1, LH2, LH3, RH1),
	66: keys(LH1, LH2, LH3, SideEb),
	67: keys(LH1, LH2, LH3),
	68: keys(LH1, LH2, LH3, GSharp),
	69: keys(LH1, LH2),
	70: keys(LH1, BisBb),
	71: keys(LH1, LH2),
	72: keys(LH1),
	73: keys(LH1, SideBb),

	74: with(main6, Octave),
	75: keys(Octave, LH1, LH2, LH3, RH1, RH2, SideEb),
	76: keys(Octave, LH1, LH2, LH3, RH1, RH2),
	77: keys(Octave, LH1, LH2, LH3, RH1),
	78: keys(Octave, LH1, LH2, LH3, SideEb),
	79: keys(Octave, LH1, LH2, LH3),
	80: keys(Octave, LH1, LH2, LH3, GSharp),
	81: keys(Octave, LH1, LH2),
	82: keys(Octave, LH1, BisBb),
	83: keys(Octave, LH1, LH2),
	84: keys(Octave, LH1),
	85: keys(Octave, LH1, SideBb),

	86: keys(Octave, LH1, LH2, LH3, PalmD),
	87: keys(Octave, LH1, LH2, LH3, PalmEb),
	88: keys(Octave, LH1, LH2, PalmEb),
	89: keys(Octave, LH1, LH2, LH3, PalmF),
}

// FingeringFor returns the alto fingering of a written pitch. Pitches
// without a mapping return all keys up and false.
func FingeringFor(written int) (Fingering, bool) {
	f, ok := altoFingerings[written]
	return f, ok
}

// EventFingering is the fingering of one event, keyed by event index.
type EventFingering struct {
	EventIndex int             `json:"eventIndex"`
	KeyStates  map[string]bool `json:"keyStates"`
}

// Fingerings returns the fingering of every event and the sorted, distinct
// written pitches that have no mapping.
func Fingerings(events []Event) ([]EventFingering, []int) {
	out := make([]EventFingering, len(events))
	seen := map[int]bool{}
	var unsupported []int
	for i, ev := range events {
		f, ok := FingeringFor(ev.MidiWritten)
		out[i] = EventFingering{EventIndex: ev.Idx, KeyStates: f.KeyStates()}
		if !ok && !seen[ev.MidiWritten] {
			seen[ev.MidiWritten] = true
			unsupported = append(unsupported, ev.MidiWritten)
		}
	}
	sort.Ints(unsupported)
	return out, unsupported
}
