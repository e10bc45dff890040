package audio

import (
	"fmt"
	"math"

	"github.com/justyntemme/vst3go/pkg/dsp/filter"
)

// FilterType selects the biquad design. Q follows the Web Audio
// BiquadFilterNode: lowpass and highpass read it in dB, bandpass and
// peaking read it as a linear quality factor and highshelf ignores it.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
	Peaking
	Highshelf
)

var filterNames = map[FilterType]string{
	Lowpass:   "lowpass",
	Highpass:  "highpass",
	Bandpass:  "bandpass",
	Peaking:   "peaking",
	Highshelf: "highshelf",
}

func (t FilterType) String() string {
	if s, ok := filterNames[t]; ok {
		return s
	}
	return fmt.Sprintf("FilterType(%d)", int(t))
}

// shelfQ is the quality factor of a shelf with slope 1.
const shelfQ = 1 / math.Sqrt2

// Biquad is a second order filter. Its params are read once per block.
type Biquad struct {
	node
	Type      FilterType
	Frequency *Param
	Q         *Param
	Gain      *Param // dB, peaking and shelf types only

	bq  *filter.Biquad
	buf []float32
}

func (c *Context) NewBiquad(typ FilterType, freq, q float64) *Biquad {
	return &Biquad{
		node:      node{ctx: c},
		Type:      typ,
		Frequency: newParam(freq),
		Q:         newParam(q),
		Gain:      newParam(0),
		bq:        filter.NewBiquad(1),
		buf:       make([]float32, blockSize),
	}
}

func (f *Biquad) Connect(dst Input) { dst.addInput(f) }

func (f *Biquad) render(frame uint64, n int) []float64 {
	out, ok := f.block(frame, n)
	if ok {
		return out
	}
	f.mix(frame, out)
	t := f.time(frame)
	design(f.bq, f.Type, f.ctx.sampleRate, f.Frequency.ValueAt(t), f.Q.ValueAt(t), f.Gain.ValueAt(t))

	if cap(f.buf) < len(out) {
		f.buf = make([]float32, len(out))
	}
	buf := f.buf[:len(out)]
	for i, x := range out {
		buf[i] = float32(x)
	}
	f.bq.Process(buf, 0)
	for i, y := range buf {
		out[i] = float64(y)
	}
	return out
}

// Response measures the filter's gain at freq, in dB, with the params it
// has at the current time. A sine is run through a fresh copy of the
// filter and correlated with the input after the transient has decayed.
func (f *Biquad) Response(freq float64) float64 {
	sr := f.ctx.sampleRate
	t := f.ctx.CurrentTime()
	bq := filter.NewBiquad(1)
	design(bq, f.Type, sr, f.Frequency.ValueAt(t), f.Q.ValueAt(t), f.Gain.ValueAt(t))

	settle, n := int(sr/2), int(sr)
	w := twoPi * freq / sr
	buf := make([]float32, settle+n)
	for i := range buf {
		buf[i] = float32(math.Sin(w * float64(i)))
	}
	bq.Process(buf, 0)

	var re, im float64
	for i, y := range buf[settle:] {
		phase := w * float64(settle+i)
		re += float64(y) * math.Sin(phase)
		im += float64(y) * math.Cos(phase)
	}
	return 20 * math.Log10(2*math.Hypot(re, im)/float64(n))
}

// design loads the coefficients for typ into bq.
func design(bq *filter.Biquad, typ FilterType, sampleRate, freq, q, gainDB float64) {
	switch typ {
	case Lowpass:
		bq.SetLowpass(sampleRate, freq, math.Pow(10, q/20))
	case Highpass:
		bq.SetHighpass(sampleRate, freq, math.Pow(10, q/20))
	case Bandpass:
		bq.SetBandpass(sampleRate, freq, q)
	case Peaking:
		bq.SetPeakingEQ(sampleRate, freq, q, gainDB)
	case Highshelf:
		bq.SetHighShelf(sampleRate, freq, shelfQ, gainDB)
	default:
		bq.SetCoefficients(1, 0, 0, 1, 0, 0)
	}
}
