package sax

import (
	"math"

	"github.com/mrdg/saxophone/audio"
)

// oddHarmonics is the partial series of a conical bore.
var oddHarmonics = [...]int{1, 3, 5, 7, 9, 11, 13, 15, 17}

// harmonicCount returns how many partials sound at normalized velocity vel.
func harmonicCount(cfg Config, vel float64) int {
	n := int(math.Floor(float64(cfg.MinHarmonics) + vel*float64(cfg.MaxHarmonics-cfg.MinHarmonics)))
	if n > len(oddHarmonics) {
		n = len(oddHarmonics)
	}
	if n < 0 {
		n = 0
	}
	return n
}

// partials returns the harmonic table for a fundamental.
func partials(cfg Config, freq, vel float64) []Partial {
	rolloff := cfg.HarmonicRolloff + vel*cfg.HarmonicRolloffVelocity
	ps := make([]Partial, harmonicCount(cfg, vel))
	for i := range ps {
		h := oddHarmonics[i]
		ps[i] = Partial{
			Harmonic:  h,
			Frequency: freq * float64(h),
			Amplitude: 1 / float64(h) * math.Pow(rolloff, float64(i)) * (1 + vel*0.3),
		}
	}
	return ps
}

func (b *builder) harmonics(dst audio.Input) {
	mix := b.ctx.NewGain()
	mix.Gain.SetValue(b.cfg.HarmonicMixLevel)
	mix.Connect(dst)
	b.voice.mix = mix

	b.voice.Partials = partials(b.cfg, b.voice.Frequency, b.vel)
	for i, p := range b.voice.Partials {
		osc := b.ctx.NewOscillator(p.Frequency)
		gain := b.ctx.NewGain()
		gain.Gain.SetValue(p.Amplitude)

		b.vibrato(osc)
		if i == 0 {
			osc.Detune.
				SetValueAtTime(b.cfg.AttackPitchBend, b.start).
				ExponentialRampToValueAtTime(0.1, b.start+b.cfg.AttackPitchBendTime)
			b.voice.bend = osc.Detune
		}

		osc.Connect(gain)
		gain.Connect(mix)
		osc.Start(b.start)
		osc.Stop(b.sourceEnd())
	}
}
