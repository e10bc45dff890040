package sax

import (
	"math"

	"github.com/mrdg/saxophone/audio"
)

// breathNoise adds band-passed noise that fades from the attack level to the
// sustain level and dies away after the note.
func (b *builder) breathNoise(dst audio.Input) {
	sr := b.ctx.SampleRate()
	noise := b.ctx.NewBufferSource(b.ctx.Noise(int(sr * (b.dur + ReleaseTail))))

	bandpass := b.ctx.NewBiquad(audio.Bandpass, b.cfg.BreathNoiseFilterFreq, b.cfg.BreathNoiseFilterQ)
	gain := b.ctx.NewGain()

	attack := b.cfg.BreathNoiseLevelAttack * b.vel
	sustain := b.cfg.BreathNoiseLevelSustain * b.vel
	gain.Gain.
		SetValueAtTime(attack, b.start).
		ExponentialRampToValueAtTime(sustain, b.start+b.cfg.BreathNoiseFadeTime).
		SetValueAtTime(sustain, b.start+b.dur).
		ExponentialRampToValueAtTime(NoiseFloor, b.sourceEnd())

	noise.Connect(bandpass)
	bandpass.Connect(gain)
	gain.Connect(dst)
	noise.Start(b.start)

	b.voice.breath = gain
}

// transient is a decaying noise burst at the onset of a note.
type transient struct {
	src    *audio.BufferSource
	filter *audio.Biquad
	gain   *audio.Gain
}

func (b *builder) onset(dst audio.Input, f *audio.Biquad, dur, div, gain float64) *transient {
	tr := &transient{
		src:    b.ctx.NewBufferSource(b.burst(dur, div)),
		filter: f,
		gain:   b.ctx.NewGain(),
	}
	tr.gain.Gain.SetValue(gain)

	tr.src.Connect(tr.filter)
	tr.filter.Connect(tr.gain)
	tr.gain.Connect(dst)
	tr.src.Start(b.start)
	return tr
}

// keyClick is a short high-passed noise burst at the onset.
func (b *builder) keyClick(dst audio.Input) {
	highpass := b.ctx.NewBiquad(audio.Highpass, b.cfg.KeyClickFilterFreq, 1)
	b.voice.click = b.onset(dst, highpass, b.cfg.KeyClickDuration, 3, b.cfg.KeyClickGain*b.vel)
}

// breathAttack is a band-passed noise burst at the onset, longer and softer
// than the key click.
func (b *builder) breathAttack(dst audio.Input) {
	bandpass := b.ctx.NewBiquad(audio.Bandpass, b.cfg.BreathAttackFilterFreq, b.cfg.BreathAttackFilterQ)
	b.voice.attack = b.onset(dst, bandpass, b.cfg.BreathAttackDuration, 2.5, b.cfg.BreathAttackGain*b.vel)
}

// burst returns dur seconds of white noise decaying exponentially with a
// time constant of dur/div.
func (b *builder) burst(dur, div float64) []float64 {
	sr := b.ctx.SampleRate()
	buf := b.ctx.Noise(int(sr * dur))
	decay(buf, sr*dur/div)
	return buf
}

// decay shapes buf with exp(-i/tau), tau in samples.
func decay(buf []float64, tau float64) {
	for i := range buf {
		buf[i] *= math.Exp(-float64(i) / tau)
	}
}
