package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hilo/internal/ir"
	"hilo/internal/irpack"
)

var printCmd = &cobra.Command{
	Use:   "print <file.hlpack>",
	Short: "Print a snapshot as textual IR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headerOnly, err := cmd.Flags().GetBool("header")
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if headerOnly {
			h, err := irpack.ReadHeader(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			supported := "supported"
			if err := irpack.CheckFormat(h.Format); err != nil {
				supported = "unsupported"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", h.Magic, h.Format, supported)
			return nil
		}

		mod, err := irpack.Decode(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return ir.Print(cmd.OutOrStdout(), mod)
	},
}

func init() {
	printCmd.Flags().Bool("header", false, "print only the snapshot header")
}
