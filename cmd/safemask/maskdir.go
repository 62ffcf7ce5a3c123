package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AiToByte/safemask/pkg/batch"
)

var (
	maskDirOutput        string
	maskDirIncludeHidden bool
	maskDirMaxFileSize   int64
)

var maskDirCmd = &cobra.Command{
	Use:   "mask-dir <directory>",
	Short: "Mask every eligible file in a directory tree",
	Long:  "Walk a directory (honoring .gitignore) and mask each file, writing output alongside the original or under --output.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaskDir,
}

func init() {
	maskDirCmd.Flags().StringVar(&maskDirOutput, "output", "", "mirror masked files under this directory instead of alongside originals")
	maskDirCmd.Flags().BoolVar(&maskDirIncludeHidden, "include-hidden", false, "include hidden files and directories")
	maskDirCmd.Flags().Int64Var(&maskDirMaxFileSize, "max-file-size", 0, "skip files larger than this many bytes (0 = unlimited)")
}

func runMaskDir(cmd *cobra.Command, args []string) error {
	root := args[0]

	cell, _, err := loadEngineRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results, err := batch.Run(context.Background(), batch.Config{
		Root:          root,
		IncludeHidden: maskDirIncludeHidden,
		MaxFileSize:   maskDirMaxFileSize,
		OutputDir:     maskDirOutput,
	}, cell.Snapshot(), func(path string, frac float64) {
		if verbose && frac == 1.0 {
			fmt.Fprintf(out, "masked %s\n", path)
		}
	})
	if err != nil {
		return fmt.Errorf("masking directory %s: %w", root, err)
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %v\n", r.Path, r.Err)
		}
	}

	fmt.Fprintf(out, "masked %d/%d files\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to mask", failed)
	}
	return nil
}
