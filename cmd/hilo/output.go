package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hilo/internal/diag"
	"hilo/internal/diagfmt"
	"hilo/internal/observ"
)

// useColor resolves the --color flag against the terminal state of stdout.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
	}
}

// applyColorMode makes fatih/color follow the --color flag.
func applyColorMode(cmd *cobra.Command) error {
	on, err := useColor(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !on
	return nil
}

func printDiagnostics(cmd *cobra.Command, path, format string, items []diag.Diagnostic) error {
	if len(items) == 0 {
		return nil
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	wd, _ := os.Getwd()
	out := cmd.ErrOrStderr()
	switch format {
	case "json":
		return diagfmt.JSON(out, items, diagfmt.JSONOpts{
			Path:         path,
			BaseDir:      wd,
			Max:          maxDiags,
			IncludeNotes: true,
		})
	case "pretty":
		colored, err := useColor(cmd)
		if err != nil {
			return err
		}
		return diagfmt.Pretty(out, items, diagfmt.PrettyOpts{
			Color:     colored,
			Path:      path,
			BaseDir:   wd,
			Max:       maxDiags,
			ShowNotes: true,
		})
	default:
		return fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", format)
	}
}

// withoutTimings drops the timing diagnostic so that it is not printed
// next to the table.
func withoutTimings(items []diag.Diagnostic) []diag.Diagnostic {
	out := items[:0:0]
	for _, d := range items {
		if d.Code != diag.IOInfo {
			out = append(out, d)
		}
	}
	return out
}

func printTimings(out io.Writer, path string, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprintf(out, "%s %s", filepath.Base(path), timer.Summary())
}

// status prints a one-line message unless --quiet is set.
func status(cmd *cobra.Command, c *color.Color, format string, args ...any) {
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), c.Sprintf(format, args...))
}
