package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hilo/internal/driver"
	"hilo/internal/trace"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
)

var lowerCmd = &cobra.Command{
	Use:   "lower <file.hlpack>...",
	Short: "Lower High IR snapshots to Low IR",
	Long: `Lower reads High IR snapshots, converts them to Low IR and writes the result
as textual IR (ll), LLVM IR (llvm) or a new snapshot (pack).
Settings are read from hilo.toml in the first input's directory or its parents.
A single input without -o is written to stdout; several inputs are written
next to their sources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().String("emit", "", "output kind (ll|llvm|pack); overrides [lower].emit")
	lowerCmd.Flags().StringP("output", "o", "", "write output to file (single input only)")
	lowerCmd.Flags().Bool("watch", false, "re-run whenever the input changes (single input only)")
	lowerCmd.Flags().String("config", "", "path to hilo.toml (default: search from the input directory)")
	lowerCmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json)")
	lowerCmd.Flags().Int("max-iterations", 0, "sweep limit; overrides [lower].max_iterations")
	lowerCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

type lowerFlags struct {
	output     string
	watch      bool
	diagFormat string
	timings    bool
	ui         uiMode
	opts       driver.Options
}

func readLowerFlags(cmd *cobra.Command, files []string) (*lowerFlags, error) {
	f := &lowerFlags{}
	var err error
	if f.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if f.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return nil, err
	}
	if len(files) > 1 && (f.output != "" || f.watch) {
		return nil, errors.New("-o and --watch take a single input")
	}
	if f.diagFormat, err = cmd.Flags().GetString("diag-format"); err != nil {
		return nil, err
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return nil, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, _, err := driver.ResolveConfig(configPath, filepath.Dir(files[0]))
	if err != nil {
		return nil, err
	}
	if iters, _ := cmd.Flags().GetInt("max-iterations"); iters > 0 {
		cfg.Lower.MaxIterations = iters
	}

	f.opts = driver.Options{
		Config:         cfg,
		MaxDiagnostics: maxDiags,
		EnableTimings:  f.timings,
	}
	if s, _ := cmd.Flags().GetString("emit"); s != "" {
		kind, err := driver.ParseEmitKind(s)
		if err != nil {
			return nil, err
		}
		f.opts.Emit = kind
	}
	return f, nil
}

func runLower(cmd *cobra.Command, args []string) error {
	flags, err := readLowerFlags(cmd, args)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	if flags.watch {
		path := args[0]
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		status(cmd, color.New(color.Faint), "watching %s (ctrl-c to stop)", path)
		return driver.Watch(ctx, path, func(ctx context.Context) error {
			err := lowerBatch(ctx, cmd, args, flags)
			if err != nil {
				status(cmd, failureColor, "%v", err)
			}
			return err
		})
	}
	return lowerBatch(cmd.Context(), cmd, args, flags)
}

// toStdout reports whether the output of a single input goes to stdout.
func (f *lowerFlags) toStdout(files []string) bool {
	return len(files) == 1 && f.output == ""
}

func lowerBatch(ctx context.Context, cmd *cobra.Command, files []string, flags *lowerFlags) error {
	var (
		results []*driver.Result
		err     error
	)
	if shouldUseTUI(flags.ui, flags.toStdout(files)) {
		results, err = runBatchWithUI(ctx, "hilo lower", files, flags.opts, lowerFiles)
	} else {
		results, err = lowerFiles(ctx, files, flags.opts)
	}

	for _, res := range results {
		if perr := reportResult(cmd, res, flags); perr != nil {
			return perr
		}
		if res.Output == nil {
			continue
		}
		if flags.toStdout(files) {
			if _, werr := cmd.OutOrStdout().Write(res.Output); werr != nil {
				return werr
			}
		} else {
			out := flags.output
			if out == "" {
				out = driver.OutputPath(res.Path, res.Emit)
			}
			if werr := driver.WriteOutput(out, res.Output); werr != nil {
				return fmt.Errorf("write %s: %w", out, werr)
			}
		}
		status(cmd, successColor, "lowered %s (%s, %d sweeps, %d rewrites)", res.Path, res.Emit, res.Stats.Sweeps, res.Stats.Rewrites)
	}
	if err != nil {
		dumpTraceTail(cmd.ErrOrStderr(), trace.FromContext(ctx))
	}
	return err
}

// lowerFiles runs driver.Lower over files in order. Every file is attempted;
// failures are joined.
func lowerFiles(ctx context.Context, files []string, opts driver.Options) ([]*driver.Result, error) {
	results := make([]*driver.Result, 0, len(files))
	var errs []error
	for _, path := range files {
		if opts.Progress != nil {
			opts.Progress.OnEvent(driver.Event{File: path, Status: driver.StatusQueued})
		}
	}
	for _, path := range files {
		res, err := driver.Lower(ctx, path, opts)
		results = append(results, res)
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}

func reportResult(cmd *cobra.Command, res *driver.Result, flags *lowerFlags) error {
	items := res.Bag.Sorted()
	if flags.timings && flags.diagFormat == "pretty" {
		items = withoutTimings(items)
		printTimings(cmd.ErrOrStderr(), res.Path, res.Timer)
	}
	return printDiagnostics(cmd, res.Path, flags.diagFormat, items)
}
