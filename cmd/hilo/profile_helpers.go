package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hilo/internal/prof"
)

func addProfileFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("cpu-profile", "", "write a CPU profile to file")
	f.String("mem-profile", "", "write a heap profile to file on exit")
	f.String("runtime-trace", "", "write a Go runtime trace to file")
}

// setupProfiling starts the profilers named on the command line and returns
// the function that stops them.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	var cfg prof.Config
	for flag, dst := range map[string]*string{
		"cpu-profile":   &cfg.CPU,
		"mem-profile":   &cfg.Mem,
		"runtime-trace": &cfg.Trace,
	} {
		v, err := cmd.Root().PersistentFlags().GetString(flag)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
