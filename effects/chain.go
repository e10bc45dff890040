// Package effects is a static effects chain for pre-recorded samples: a
// brightness dependent tone filter followed by a delay based reverb.
package effects

import "github.com/mrdg/saxophone/audio"

// ToneFilter settings derived from brightness.
func toneFilter(brightness float64) (typ audio.FilterType, freq, q, gain float64) {
	if brightness < 50 {
		return audio.Lowpass, 1000 + brightness/50*3000, 1, 0
	}
	amt := (brightness - 50) / 50
	return audio.Highshelf, 2000 + amt*2000, 1, amt * 6
}

// NewToneFilter darkens the sound with a lowpass below brightness 50 and
// lifts the highs with a shelf above it.
func NewToneFilter(ctx *audio.Context, brightness float64) *audio.Biquad {
	typ, freq, q, gain := toneFilter(brightness)
	f := ctx.NewBiquad(typ, freq, q)
	f.Gain.SetValue(gain)
	return f
}

// Tap is one early reflection of the reverb.
type Tap struct {
	Delay float64 // s
	Gain  float64
}

var reverbTaps = []Tap{
	{0.023, 0.7},
	{0.037, 0.5},
	{0.053, 0.4},
	{0.071, 0.3},
}

// Reverb mixes the dry signal with four delayed copies.
type Reverb struct {
	Input  *audio.Gain
	Output *audio.Gain
	Dry    *audio.Gain
	Wet    *audio.Gain
}

// NewReverb builds a reverb for amount in 0-100.
func NewReverb(ctx *audio.Context, amount float64) *Reverb {
	r := &Reverb{
		Input:  ctx.NewGain(),
		Output: ctx.NewGain(),
		Dry:    ctx.NewGain(),
		Wet:    ctx.NewGain(),
	}
	r.Dry.Gain.SetValue(1)
	r.Wet.Gain.SetValue(amount / 100 * 0.3)

	r.Input.Connect(r.Dry)
	r.Dry.Connect(r.Output)
	for _, tap := range reverbTaps {
		d := ctx.NewDelay(tap.Delay)
		g := ctx.NewGain()
		g.Gain.SetValue(tap.Gain)
		r.Input.Connect(d)
		d.Connect(g)
		g.Connect(r.Wet)
	}
	r.Wet.Connect(r.Output)
	return r
}

// SetAmount changes the wet level.
func (r *Reverb) SetAmount(amount float64) {
	r.Wet.Gain.SetValue(amount / 100 * 0.3)
}

// Chain is input -> tone filter -> reverb -> output.
type Chain struct {
	Settings Settings
	Input    *audio.Gain
	Tone     *audio.Biquad
	Reverb   *Reverb
}

func NewChain(ctx *audio.Context, s Settings) *Chain {
	c := &Chain{
		Settings: s,
		Input:    ctx.NewGain(),
		Tone:     NewToneFilter(ctx, s.Brightness),
		Reverb:   NewReverb(ctx, s.ReverbAmount),
	}
	c.Input.Connect(c.Tone)
	c.Tone.Connect(c.Reverb.Input)
	return c
}

// Output is the node to attach to the destination.
func (c *Chain) Output() *audio.Gain { return c.Reverb.Output }
