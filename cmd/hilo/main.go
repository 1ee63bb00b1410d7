package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hilo/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "hilo",
	Short:         "High IR to Low IR lowering toolchain",
	Long:          `hilo lowers High IR snapshots to Low IR and emits textual IR, LLVM IR or new snapshots`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runTraceCleanup()
	},
}

// traceCleanup flushes the tracer installed by PersistentPreRunE.
var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)
}

// main executes the root command. Any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRun is skipped when RunE fails.
		runTraceCleanup()
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
