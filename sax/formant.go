package sax

import "github.com/mrdg/saxophone/audio"

// formants chains three peaking filters in front of dst and returns the
// input of the first one.
func (b *builder) formants(dst audio.Input) audio.Input {
	bands := [3][3]float64{
		{b.cfg.Formant1Freq, b.cfg.Formant1Q, b.cfg.Formant1Gain},
		{b.cfg.Formant2Freq, b.cfg.Formant2Q, b.cfg.Formant2Gain},
		{b.cfg.Formant3Freq, b.cfg.Formant3Q, b.cfg.Formant3Gain},
	}
	filters := make([]*audio.Biquad, len(bands))
	next := dst
	for i := len(bands) - 1; i >= 0; i-- {
		f := b.ctx.NewBiquad(audio.Peaking, bands[i][0], bands[i][1])
		f.Gain.SetValue(bands[i][2])
		f.Connect(next)
		filters[i] = f
		next = f
	}
	b.voice.formants = filters
	return next
}
