package audio

import "math"

const twoPi = 2 * math.Pi

// Oscillator is a scheduled sine source. Its pitch is Frequency shifted by
// Detune cents; both params accept modulation.
type Oscillator struct {
	node
	Frequency *Param
	Detune    *Param

	start, stop float64
	phase       float64
}

func (c *Context) NewOscillator(freq float64) *Oscillator {
	return &Oscillator{
		node:      node{ctx: c},
		Frequency: newParam(freq),
		Detune:    newParam(0),
		start:     math.Inf(1),
		stop:      math.Inf(1),
	}
}

// Start schedules the oscillator to begin at time t.
func (o *Oscillator) Start(t float64) { o.start = t }

// Stop schedules the oscillator to end at time t.
func (o *Oscillator) Stop(t float64) { o.stop = t }

func (o *Oscillator) Connect(dst Input) { dst.addInput(o) }

func (o *Oscillator) render(frame uint64, n int) []float64 {
	out, ok := o.block(frame, n)
	if ok {
		return out
	}
	sr := o.ctx.sampleRate
	freq := o.Frequency.render(frame, n, sr)
	detune := o.Detune.render(frame, n, sr)
	for i := range out {
		t := o.time(frame + uint64(i))
		if t < o.start || t >= o.stop {
			out[i] = 0
			continue
		}
		out[i] = math.Sin(o.phase)
		o.phase += twoPi * freq[i] * math.Exp2(detune[i]/1200) / sr
		if o.phase >= twoPi {
			o.phase -= twoPi
		} else if o.phase < 0 {
			o.phase += twoPi
		}
	}
	return out
}

// BufferSource plays a buffer once, starting at a scheduled time. A
// playback rate other than one, or a non-zero Detune in cents, resamples the
// buffer with linear interpolation.
type BufferSource struct {
	node
	Detune *Param

	buf   []float64
	rate  float64
	start float64
	pos   float64
}

func (c *Context) NewBufferSource(buf []float64) *BufferSource {
	return &BufferSource{
		node:   node{ctx: c},
		Detune: newParam(0),
		buf:    buf,
		rate:   1,
		start:  math.Inf(1),
	}
}

func (b *BufferSource) SetPlaybackRate(rate float64) { b.rate = rate }

// Start schedules playback to begin at time t.
func (b *BufferSource) Start(t float64) { b.start = t }

// Duration is the playback length in seconds, ignoring Detune.
func (b *BufferSource) Duration() float64 {
	return float64(len(b.buf)) / b.rate / b.ctx.sampleRate
}

func (b *BufferSource) Connect(dst Input) { dst.addInput(b) }

func (b *BufferSource) render(frame uint64, n int) []float64 {
	out, ok := b.block(frame, n)
	if ok {
		return out
	}
	detune := b.Detune.render(frame, n, b.ctx.sampleRate)
	for i := range out {
		out[i] = 0
		if b.time(frame+uint64(i)) < b.start {
			continue
		}
		k := int(b.pos)
		if k >= len(b.buf) {
			continue
		}
		x := b.buf[k]
		if frac := b.pos - float64(k); frac > 0 && k+1 < len(b.buf) {
			x += frac * (b.buf[k+1] - x)
		}
		out[i] = x
		if d := detune[i]; d != 0 {
			b.pos += b.rate * math.Exp2(d/1200)
		} else {
			b.pos += b.rate
		}
	}
	return out
}
