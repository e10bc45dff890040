package audio

import (
	"math"

	"github.com/justyntemme/vst3go/pkg/dsp/delay"
)

// Delay outputs its summed inputs a fixed time later, rounded to whole
// samples.
type Delay struct {
	node
	line    *delay.Line
	samples float64
}

func (c *Context) NewDelay(seconds float64) *Delay {
	n := math.Round(seconds * c.sampleRate)
	if n < 0 {
		n = 0
	}
	return &Delay{
		node:    node{ctx: c},
		line:    delay.New((n+1)/c.sampleRate, c.sampleRate),
		samples: n,
	}
}

func (d *Delay) Connect(dst Input) { dst.addInput(d) }

func (d *Delay) render(frame uint64, n int) []float64 {
	out, ok := d.block(frame, n)
	if ok {
		return out
	}
	d.mix(frame, out)
	if d.samples == 0 {
		return out
	}
	for i, x := range out {
		out[i] = float64(d.line.Process(float32(x), d.samples))
	}
	return out
}
