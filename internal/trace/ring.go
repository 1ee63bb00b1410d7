package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in a fixed-size buffer so that a
// failed run can be dumped after the fact.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	next   int // slot of the next write
	count  int // number of valid slots
	level  Level
}

// NewRingTracer returns a ring holding up to capacity events; a
// non-positive capacity selects 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = *ev
	t.events[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.events)
	t.count = min(t.count+1, len(t.events))
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.Tail(0)
}

// Tail returns the last n stored events, oldest first. n <= 0 returns all.
func (t *RingTracer) Tail(n int) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 || n > t.count {
		n = t.count
	}
	out := make([]Event, n)
	start := t.next - n
	if start < 0 {
		start += len(t.events)
	}
	for i := range out {
		out[i] = t.events[(start+i)%len(t.events)]
	}
	return out
}

// Dump writes the stored events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return dumpEvents(w, t.Snapshot(), format)
}

func dumpEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t, if it has one.
func RingOf(t Tracer) *RingTracer {
	switch tt := t.(type) {
	case *RingTracer:
		return tt
	case *MultiTracer:
		return tt.Ring()
	}
	return nil
}

// DumpTail writes the last n events kept by t to w. Tracers without a ring
// write nothing.
func DumpTail(t Tracer, w io.Writer, n int, format Format) error {
	ring := RingOf(t)
	if ring == nil {
		return nil
	}
	return dumpEvents(w, ring.Tail(n), format)
}
