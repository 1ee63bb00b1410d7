package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hilo/internal/irpack"
	"hilo/internal/version"
)

// buildReport is what `hilo version` prints. Commit and date are dropped
// unless asked for.
type buildReport struct {
	Tool string `json:"tool"`
	version.Info
	Snapshot string `json:"snapshot_format"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show hilo build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	f := versionCmd.Flags()
	f.Bool("hash", false, "include git commit hash")
	f.Bool("date", false, "include build timestamp")
	f.Bool("full", false, "include all build metadata")
	f.String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	full, _ := cmd.Flags().GetBool("full")
	hash, _ := cmd.Flags().GetBool("hash")
	date, _ := cmd.Flags().GetBool("date")

	report := buildReport{Tool: "hilo", Info: version.Current(), Snapshot: irpack.Format}
	if !hash && !full {
		report.Commit = ""
	} else if report.Commit == "" {
		report.Commit = "unknown"
	}
	if !date && !full {
		report.Date = ""
	} else if report.Date == "" {
		report.Date = "unknown"
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "pretty":
		if err := applyColorMode(cmd); err != nil {
			return err
		}
		printBuildReport(out, report)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func printBuildReport(w io.Writer, r buildReport) {
	fmt.Fprintf(w, "hilo %s\n", version.Colored())
	fmt.Fprintf(w, "snapshot format: %s\n", r.Snapshot)
	if r.Commit != "" {
		fmt.Fprintf(w, "commit: %s\n", r.Commit)
	}
	if r.Date != "" {
		fmt.Fprintf(w, "built:  %s\n", r.Date)
	}
}
