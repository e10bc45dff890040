package sax

import "github.com/mrdg/saxophone/audio"

// vibrato modulates the detune of osc with a sine whose depth stays at zero
// until the vibrato delay and then ramps up linearly.
func (b *builder) vibrato(osc *audio.Oscillator) {
	lfo := b.ctx.NewOscillator(b.cfg.VibratoRate)
	depth := b.ctx.NewGain()
	depth.Gain.SetValue(0)

	onset := b.start + b.cfg.VibratoDelay
	depth.Gain.
		SetValueAtTime(0, onset).
		LinearRampToValueAtTime(b.cfg.VibratoDepth, onset+b.cfg.VibratoRampTime)

	lfo.Connect(depth)
	depth.Connect(osc.Detune)
	lfo.Start(b.start)
	lfo.Stop(b.sourceEnd())

	b.voice.vibrato = append(b.voice.vibrato, depth)
}
