package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer formats each admitted event and writes it straight away.
// Write errors are dropped so that tracing never fails a lowering.
type StreamTracer struct {
	level  Level
	format Format
	start  time.Time

	mu sync.Mutex
	w  io.Writer
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format, start: time.Now()}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	line := formatEvent(ev, t.format, t.start)
	t.mu.Lock()
	_, _ = t.w.Write(line) //nolint:errcheck
	t.mu.Unlock()
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the output. Stdout and stderr stay open.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.flushLocked(); err != nil {
		return err
	}
	c, ok := t.w.(io.Closer)
	if !ok || isStdStream(t.w) {
		return nil
	}
	return c.Close()
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
