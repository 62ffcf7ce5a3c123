package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AiToByte/safemask/pkg/pipeline"
)

var maskCmd = &cobra.Command{
	Use:   "mask <input> <output>",
	Short: "Mask a single file",
	Long:  "Stream input through the mask engine, writing the masked result to output.",
	Args:  cobra.ExactArgs(2),
	RunE:  runMask,
}

func runMask(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	cell, _, err := loadEngineRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stats, err := pipeline.ProcessFile(input, output, cell.Snapshot(), func(frac float64) {
		if verbose {
			fmt.Fprintf(out, "\rmasking... %.0f%%", frac*100)
		}
	})
	if err != nil {
		return fmt.Errorf("masking %s: %w", input, err)
	}
	if verbose {
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "masked %d bytes, %d lines, in %.2fs -> %s\n",
		stats.ProcessedBytes, stats.TotalLines, stats.DurationSecs, output)
	return nil
}
