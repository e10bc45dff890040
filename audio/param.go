package audio

import (
	"math"
	"sort"
	"sync/atomic"
)

type rampKind int

const (
	setValue rampKind = iota
	linearRamp
	exponentialRamp
)

type automationEvent struct {
	kind  rampKind
	time  float64
	value float64
}

// Param is a scalar node parameter. Its value at a point in time is the
// intrinsic value, overridden by any scheduled automation, plus the summed
// output of the nodes connected to it.
//
// Automation must be scheduled before the owning node is attached to a live
// context; the intrinsic value may be changed at any time.
type Param struct {
	value  uint64 // float64 bits
	events []automationEvent
	inputs []Node
	buf    []float64
}

func newParam(v float64) *Param {
	p := &Param{}
	p.SetValue(v)
	return p
}

// Value returns the intrinsic value.
func (p *Param) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.value))
}

// SetValue sets the intrinsic value immediately. It is safe to call while
// the context is rendering.
func (p *Param) SetValue(v float64) {
	atomic.StoreUint64(&p.value, math.Float64bits(v))
}

// SetValueAtTime holds v from time t until the next scheduled event.
func (p *Param) SetValueAtTime(v, t float64) *Param {
	p.insert(automationEvent{setValue, t, v})
	return p
}

// LinearRampToValueAtTime ramps linearly from the previous event's value to
// v, arriving at time t.
func (p *Param) LinearRampToValueAtTime(v, t float64) *Param {
	p.insert(automationEvent{linearRamp, t, v})
	return p
}

// ExponentialRampToValueAtTime ramps with a constant proportional rate of
// change from the previous event's value to v, arriving at time t. Both ends
// of the ramp must be non-zero and of the same sign; otherwise the previous
// value is held until t.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) *Param {
	p.insert(automationEvent{exponentialRamp, t, v})
	return p
}

// Events with equal times keep their scheduling order.
func (p *Param) insert(e automationEvent) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > e.time })
	p.events = append(p.events, automationEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// ValueAt evaluates the automation timeline at time t, ignoring connected
// inputs. A ramp with no preceding event starts from the intrinsic value at
// time zero.
func (p *Param) ValueAt(t float64) float64 {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > t })
	if i < len(p.events) && p.events[i].kind != setValue {
		next := p.events[i]
		t0, v0 := 0.0, p.Value()
		if i > 0 {
			t0, v0 = p.events[i-1].time, p.events[i-1].value
		}
		if t < t0 {
			return v0
		}
		frac := (t - t0) / (next.time - t0)
		switch next.kind {
		case linearRamp:
			return v0 + (next.value-v0)*frac
		case exponentialRamp:
			if v0 == 0 || v0*next.value <= 0 {
				return v0
			}
			return v0 * math.Pow(next.value/v0, frac)
		}
	}
	if i == 0 {
		return p.Value()
	}
	return p.events[i-1].value
}

func (p *Param) addInput(src Node) { p.inputs = append(p.inputs, src) }

func (p *Param) removeInput(src Node) { p.inputs = removeNode(p.inputs, src) }

// render fills one block of computed values starting at frame.
func (p *Param) render(frame uint64, n int, sampleRate float64) []float64 {
	if cap(p.buf) < n {
		p.buf = make([]float64, n)
	}
	out := p.buf[:n]
	if len(p.events) == 0 {
		v := p.Value()
		for i := range out {
			out[i] = v
		}
	} else {
		for i := range out {
			out[i] = p.ValueAt(float64(frame+uint64(i)) / sampleRate)
		}
	}
	for _, src := range p.inputs {
		for i, x := range src.render(frame, n) {
			out[i] += x
		}
	}
	return out
}
