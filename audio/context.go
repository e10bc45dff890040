// Package audio is a small scheduled signal-graph engine. Nodes are created
// and wired on a control goroutine, parameter automation is given in
// absolute context time, and finished subgraphs are handed to the render
// thread, which pulls samples from the destination node.
package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/justyntemme/vst3go/pkg/dsp/utility"
)

const (
	DefaultSampleRate = 44100
	bufferSize        = 512
	blockSize         = 64 // filter coefficients are updated once per block, about 1.5ms
	queueSize         = 1024
)

// Context owns the sample clock and the destination node.
//
// An offline context is driven by Render from the goroutine that builds the
// graph. Once a Sink starts, the context is realtime: Render and Process run
// on the audio thread, and Attach may be called from any goroutine.
type Context struct {
	sampleRate float64
	frames     uint64
	dest       *Gain

	mu       sync.Mutex // guards noise
	noise    *utility.NoiseGenerator
	pushMu   sync.Mutex // serializes producers of events
	events   *eventBuffer
	realtime int32

	// render thread only
	attached []event
	out      []float64
}

func NewContext(sampleRate float64) *Context {
	c := &Context{
		sampleRate: sampleRate,
		noise:      utility.NewNoiseGenerator(utility.WhiteNoise),
		events:     newEventBuffer(queueSize),
	}
	c.dest = c.NewGain()
	return c
}

func (c *Context) SampleRate() float64 { return c.sampleRate }

// CurrentTime is the time of the next sample to be rendered, in seconds.
func (c *Context) CurrentTime() float64 {
	return float64(atomic.LoadUint64(&c.frames)) / c.sampleRate
}

// Destination is the node whose output is rendered.
func (c *Context) Destination() *Gain { return c.dest }

// Seed makes subsequent noise buffers deterministic.
func (c *Context) Seed(seed int64) {
	c.mu.Lock()
	c.noise.SetSeed(seed)
	c.mu.Unlock()
}

// Noise returns n samples of uniform white noise in [-1, 1].
func (c *Context) Noise(n int) []float64 {
	if n < 0 {
		n = 0
	}
	white := make([]float32, n)
	c.mu.Lock()
	c.noise.Generate(white)
	c.mu.Unlock()
	buf := make([]float64, n)
	for i, x := range white {
		buf[i] = float64(x)
	}
	return buf
}

// Attach connects src to dst, where dst is part of the graph that is being
// rendered. The connection is removed once the clock passes end, which
// releases src and everything feeding it. Use math.Inf(1) for a permanent
// connection.
func (c *Context) Attach(src Node, dst Input, end float64) {
	ev := event{src: src, dst: dst, end: end}
	if atomic.LoadInt32(&c.realtime) == 0 {
		c.attach(ev)
		return
	}
	c.pushMu.Lock()
	c.events.push(ev)
	c.pushMu.Unlock()
}

// setRealtime switches attachment to the render thread queue. It must be
// called before the render thread starts.
func (c *Context) setRealtime(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&c.realtime, v)
}

func (c *Context) attach(ev event) {
	ev.dst.addInput(ev.src)
	c.attached = append(c.attached, ev)
}

// reap drops attachments that ended before t.
func (c *Context) reap(t float64) {
	live := c.attached[:0]
	for _, ev := range c.attached {
		if ev.end < t {
			ev.dst.removeInput(ev.src)
			continue
		}
		live = append(live, ev)
	}
	for i := len(live); i < len(c.attached); i++ {
		c.attached[i] = event{}
	}
	c.attached = live
}

// Active returns the number of live attachments, including permanent ones
// and those still queued. Like Render, it belongs to the render thread.
func (c *Context) Active() int {
	return len(c.attached) + c.events.len()
}

// Render renders the next seconds of output and advances the clock.
func (c *Context) Render(seconds float64) []float64 {
	n := int(math.Round(seconds * c.sampleRate))
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	c.render(out)
	return out
}

// Process adds the next len(samples[0]) samples to every channel of
// samples. It implements Source.
func (c *Context) Process(samples [][]float32) {
	if len(samples) == 0 {
		return
	}
	n := len(samples[0])
	if cap(c.out) < n {
		c.out = make([]float64, n)
	}
	out := c.out[:n]
	c.render(out)
	for ch := range samples {
		for i, x := range out {
			samples[ch][i] += float32(x)
		}
	}
}

func (c *Context) render(out []float64) {
	for off := 0; off < len(out); off += blockSize {
		n := blockSize
		if len(out)-off < n {
			n = len(out) - off
		}
		frame := atomic.LoadUint64(&c.frames)
		t := float64(frame) / c.sampleRate

		c.events.iter(t, c.attach)
		c.reap(t)

		copy(out[off:off+n], c.dest.render(frame, n))
		atomic.AddUint64(&c.frames, uint64(n))
	}
}
