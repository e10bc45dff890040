package sax

import "github.com/mrdg/saxophone/audio"

// adsr holds the velocity dependent envelope numbers.
type adsr struct {
	attack  float64
	peak    float64
	sustain float64
}

func envelopeFor(cfg Config, vel float64) adsr {
	peak := cfg.PeakGainMin + vel*(cfg.PeakGainMax-cfg.PeakGainMin)
	return adsr{
		attack:  cfg.AttackTimeMax - vel*(cfg.AttackTimeMax-cfg.AttackTimeMin),
		peak:    peak,
		sustain: peak * cfg.SustainLevel,
	}
}

// envelope schedules the note level. Every segment starts where the
// previous one ends.
func (b *builder) envelope(gain *audio.Param) {
	env := envelopeFor(b.cfg, b.vel)
	b.voice.AttackTime = env.attack
	b.voice.PeakGain = env.peak
	b.voice.SustainGain = env.sustain

	end := b.start + b.dur
	gain.SetValueAtTime(NoiseFloor, b.start).
		ExponentialRampToValueAtTime(env.peak, b.start+env.attack).
		ExponentialRampToValueAtTime(env.sustain, b.start+env.attack+b.cfg.DecayTime).
		SetValueAtTime(env.sustain, end).
		ExponentialRampToValueAtTime(NoiseFloor, end+b.cfg.ReleaseTime)
}
