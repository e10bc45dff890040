package sax

import (
	"math"

	"github.com/mrdg/saxophone/audio"
)

const (
	// NoiseFloor stands in for silence at the ends of exponential ramps.
	NoiseFloor = 0.001
	// ReleaseTail is how long sources keep running after a note ends.
	ReleaseTail = 0.1
)

// Partial is one sine component of a voice.
type Partial struct {
	Harmonic  int
	Frequency float64
	Amplitude float64
}

// Voice describes a scheduled note. It is built once by PlayNote and never
// changes afterwards; the methods below evaluate the automation that was scheduled
// for it.
type Voice struct {
	Note      Note
	Config    Config
	Frequency float64
	Velocity  float64 // normalized to [0, 1]
	Partials  []Partial

	PeakGain    float64
	SustainGain float64
	AttackTime  float64

	// End is the time after which the voice is silent and its nodes are
	// released.
	End float64

	gain     *audio.Gain
	mix      *audio.Gain
	bend     *audio.Param
	vibrato  []*audio.Gain
	breath   *audio.Gain
	click    *transient
	attack   *transient
	formants []*audio.Biquad
}

// Level is the note envelope at time t.
func (v *Voice) Level(t float64) float64 { return v.gain.Gain.ValueAt(t) }

// VibratoDepth is the vibrato depth in cents at time t.
func (v *Voice) VibratoDepth(t float64) float64 {
	if len(v.vibrato) == 0 {
		return 0
	}
	return v.vibrato[0].Gain.ValueAt(t)
}

// BreathLevel is the gain of the breath noise at time t.
func (v *Voice) BreathLevel(t float64) float64 { return v.breath.Gain.ValueAt(t) }

// PitchBend is the attack detune of the fundamental in cents at time t,
// excluding vibrato.
func (v *Voice) PitchBend(t float64) float64 {
	if v.bend == nil {
		return 0
	}
	return v.bend.ValueAt(t)
}

// builder constructs the subgraph of one voice from a config snapshot.
type builder struct {
	ctx   *audio.Context
	cfg   Config
	voice *Voice
	start float64
	dur   float64
	vel   float64
}

func newBuilder(ctx *audio.Context, cfg Config, n Note) *builder {
	vel := float64(n.Velocity) / 127
	return &builder{
		ctx:   ctx,
		cfg:   cfg,
		start: n.Start,
		dur:   n.Duration,
		vel:   vel,
		voice: &Voice{
			Note:      n,
			Config:    cfg,
			Frequency: MidiToFreq(n.Pitch),
			Velocity:  vel,
			End:       n.Start + n.Duration + math.Max(cfg.ReleaseTime, ReleaseTail),
		},
	}
}

// build wires the voice and returns its output node, which is not yet
// connected to anything.
func (b *builder) build() *audio.Gain {
	out := b.ctx.NewGain()
	out.Gain.SetValue(NoiseFloor)
	b.voice.gain = out

	in := b.formants(out)
	b.harmonics(in)
	b.breathNoise(in)
	b.keyClick(in)
	b.breathAttack(in)
	b.envelope(out.Gain)
	return out
}

// sourceEnd is when oscillators and noise beds stop.
func (b *builder) sourceEnd() float64 { return b.start + b.dur + ReleaseTail }
