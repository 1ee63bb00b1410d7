package trace

import "errors"

// MultiTracer forwards every event to each child. Children filter on
// their own levels and each receives a private copy of the event.
type MultiTracer struct {
	level    Level
	children []Tracer
}

func NewMultiTracer(level Level, children ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, children: children}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, c := range t.children {
		dup := *ev
		c.Emit(&dup)
	}
}

func (t *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(t.children))
	for _, c := range t.children {
		errs = append(errs, fn(c))
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

// Ring returns the first child that keeps a ring buffer.
func (t *MultiTracer) Ring() *RingTracer {
	for _, c := range t.children {
		if r := RingOf(c); r != nil {
			return r
		}
	}
	return nil
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
