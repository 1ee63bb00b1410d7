package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// getGoroutineID parses the id out of the "goroutine N [...]" stack header.
func getGoroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b, ok := bytes.CutPrefix(b, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(b, ' '); end >= 0 {
		b = b[:end]
	}
	gid, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open begin/end pair. The zero-cost form returned for filtered
// scopes ignores every call.
type Span struct {
	tracer  Tracer
	base    Event
	started time.Time
}

var disabled = &Span{tracer: Nop}

// Begin emits the begin event of a span named name under parent (0 for a
// root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		tracer: t,
		base: Event{
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			GID:      getGoroutineID(),
			Name:     name,
		},
		started: time.Now(),
	}
	ev := s.base
	ev.Time, ev.Seq, ev.Kind = s.started, NextSeq(), KindSpanBegin
	t.Emit(&ev)
	return s
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

// End emits the end event with detail and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	ev := s.base
	ev.Time, ev.Seq, ev.Kind, ev.Detail = time.Now(), NextSeq(), KindSpanEnd, detail
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.started)
}

// EndErr ends the span with "ok" or the text of err.
func (s *Span) EndErr(err error) time.Duration {
	if err != nil {
		return s.End(err.Error())
	}
	return s.End("ok")
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.base.Extra == nil {
		s.base.Extra = make(map[string]string)
	}
	s.base.Extra[key] = value
	return s
}

// ID returns the span ID, or 0 for a filtered span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.base.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
