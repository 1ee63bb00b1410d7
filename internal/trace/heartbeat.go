package trace

import (
	"context"
	"fmt"
	"time"
)

// Heartbeat emits a driver-scope event every interval so that a long
// `lower --watch` session shows it is alive between runs.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat returns nil when tracing is off or interval is not
// positive. A nil Heartbeat may be stopped.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.beat(ctx, tracer, interval)
	return h
}

func (h *Heartbeat) beat(ctx context.Context, tracer Tracer, interval time.Duration) {
	defer close(h.done)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	start := time.Now()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d", n),
				Extra:  map[string]string{"uptime": now.Sub(start).Round(time.Millisecond).String()},
			})
		}
	}
}

// Stop ends the heartbeat and waits for the last event to be emitted.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}
