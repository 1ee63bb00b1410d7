package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hilo/internal/trace"
)

// failureTail is how many ring events are printed after a failed lowering.
const failureTail = 64

func addTraceFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("trace", "", "trace output file (\"-\" for stderr)")
	f.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	f.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	f.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	f.Int("trace-ring-size", 4096, "events kept by the ring buffer")
	f.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
}

// traceConfig reads the persistent trace flags. A --trace path given
// without a level traces phases.
func traceConfig(cmd *cobra.Command) (trace.Config, error) {
	f := cmd.Root().PersistentFlags()
	var (
		cfg                 trace.Config
		level, mode, format string
		err                 error
	)
	if cfg.OutputPath, err = f.GetString("trace"); err != nil {
		return cfg, err
	}
	if level, err = f.GetString("trace-level"); err != nil {
		return cfg, err
	}
	if mode, err = f.GetString("trace-mode"); err != nil {
		return cfg, err
	}
	if format, err = f.GetString("trace-format"); err != nil {
		return cfg, err
	}
	if cfg.RingSize, err = f.GetInt("trace-ring-size"); err != nil {
		return cfg, err
	}
	if cfg.Heartbeat, err = f.GetDuration("trace-heartbeat"); err != nil {
		return cfg, err
	}

	if cfg.Level, err = trace.ParseLevel(level); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff && cfg.OutputPath != "" {
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(mode); err != nil {
		return cfg, err
	}
	if cfg.Format, err = trace.ParseFormat(format); err != nil {
		return cfg, err
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "-"
	}
	return cfg, nil
}

// setupTracing installs the configured tracer in the command context and
// returns the function that flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("trace flags: %w", err)
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	if !tracer.Enabled() {
		return func() {}, nil
	}

	var hb *trace.Heartbeat
	if cfg.Heartbeat > 0 {
		hb = trace.StartHeartbeat(tracer, cfg.Heartbeat)
	}
	stderr := cmd.ErrOrStderr()
	return func() {
		hb.Stop()
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(stderr, "trace: flush: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close: %v\n", err)
		}
	}, nil
}

// dumpTraceTail prints the last ring events after a failure. Tracers that
// already stream their events print nothing here.
func dumpTraceTail(w io.Writer, tracer trace.Tracer) {
	ring, ok := tracer.(*trace.RingTracer)
	if !ok || len(ring.Snapshot()) == 0 {
		return
	}
	fmt.Fprintf(w, "trace: last %d events before the failure\n", failureTail)
	if err := trace.DumpTail(ring, w, failureTail, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump: %v\n", err)
	}
}
