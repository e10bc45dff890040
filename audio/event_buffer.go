package audio

import (
	"runtime"
	"sync/atomic"
)

// event attaches a finished subgraph to a node owned by the render thread.
// The attachment is dropped once the context clock passes end.
type event struct {
	src Node
	dst Input
	end float64
}

// eventBuffer is a lock-free spsc queue.
type eventBuffer struct {
	events      []event
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

// push blocks while the buffer is full.
func (b *eventBuffer) push(ev event) {
	for atomic.LoadUint32(b.write)-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		runtime.Gosched()
	}
	write := atomic.LoadUint32(b.write)
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
}

// iter calls f for every queued event whose end lies at or after until.
// Events that have already expired are consumed without calling f.
func (b *eventBuffer) iter(until float64, f func(event)) {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	for read != write {
		i := read % uint32(len(b.events))
		ev := b.events[i]
		b.events[i] = event{}
		if ev.end >= until {
			f(ev)
		}
		read++
	}
	atomic.StoreUint32(b.read, read)
}

func (b *eventBuffer) len() int {
	return int(atomic.LoadUint32(b.write) - atomic.LoadUint32(b.read))
}
