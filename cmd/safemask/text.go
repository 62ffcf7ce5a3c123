package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AiToByte/safemask/pkg/facade"
)

var textCmd = &cobra.Command{
	Use:   "text [string]",
	Short: "Mask a single string",
	Long:  "Mask the given argument, or stdin if no argument is given, and print the result.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runText,
}

func runText(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = strings.TrimRight(string(data), "\n")
	}

	cell, _, err := loadEngineRegistry()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), facade.MaskText(cell, input))
	return nil
}
