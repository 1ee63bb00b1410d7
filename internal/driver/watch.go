package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"hilo/internal/trace"
)

const (
	// watchDebounce coalesces the bursts of events editors produce on save.
	watchDebounce = 50 * time.Millisecond
	// watchHeartbeat is the interval of trace heartbeats while idle.
	watchHeartbeat = 5 * time.Second
)

// Watch calls fn once, then again after every change to path, until ctx is
// done. Errors returned by fn do not stop the loop; fn is expected to report
// them itself. The parent directory is watched so that editors replacing the
// file by rename are noticed.
func Watch(ctx context.Context, path string, fn func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	tracer := trace.FromContext(ctx)
	hb := trace.StartHeartbeat(tracer, watchHeartbeat)
	defer hb.Stop()

	run := func(reason string) {
		trace.Point(tracer, trace.ScopeDriver, "watch", trace.CurrentSpan(ctx).SpanID, reason)
		_ = fn(ctx)
	}
	run("initial")

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		case <-fire:
			fire = nil
			run("changed")
		}
	}
}
