package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AiToByte/safemask/pkg/types"
)

var (
	rulesOutputFormat string
	ruleAddPattern     string
	ruleAddMask        string
	ruleAddPriority    int
	ruleAddDisabled    bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage masking rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom rules",
	RunE:  runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a custom rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesAdd,
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a custom rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesRm,
}

func init() {
	rulesListCmd.Flags().StringVar(&rulesOutputFormat, "format", "table", "output format: table, json")

	rulesAddCmd.Flags().StringVar(&ruleAddPattern, "pattern", "", "literal text or regex pattern to match (required)")
	rulesAddCmd.Flags().StringVar(&ruleAddMask, "mask", "", "replacement text written in place of a match (required)")
	rulesAddCmd.Flags().IntVar(&ruleAddPriority, "priority", 0, "priority: higher wins when matches overlap")
	rulesAddCmd.Flags().BoolVar(&ruleAddDisabled, "disabled", false, "add the rule disabled")
	rulesAddCmd.MarkFlagRequired("pattern")
	rulesAddCmd.MarkFlagRequired("mask")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRmCmd)
}

func runRulesList(cmd *cobra.Command, args []string) error {
	_, loader, err := loadEngineRegistry()
	if err != nil {
		return err
	}

	rules, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	switch rulesOutputFormat {
	case "table":
		return outputRulesTable(cmd, rules)
	case "json":
		return outputRulesJSON(cmd, rules)
	default:
		return fmt.Errorf("unknown output format: %s", rulesOutputFormat)
	}
}

func outputRulesTable(cmd *cobra.Command, rules []types.Rule) error {
	enabled := color.New(color.FgHiGreen)
	disabled := color.New(color.FgHiBlack)
	custom := color.New(color.FgHiBlue)
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "NAME\tPATTERN\tPRIORITY\tSTATUS\tSOURCE\n")
	for _, r := range rules {
		status := enabled.Sprint("enabled")
		if !r.Enabled {
			status = disabled.Sprint("disabled")
		}
		source := "built-in"
		if r.IsCustom {
			source = custom.Sprint("custom")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.Name, r.Pattern, r.Priority, status, source)
	}
	return nil
}

func outputRulesJSON(cmd *cobra.Command, rules []types.Rule) error {
	type jsonRule struct {
		Name     string `json:"name"`
		Pattern  string `json:"pattern"`
		Mask     string `json:"mask"`
		Priority int    `json:"priority"`
		Enabled  bool   `json:"enabled"`
		IsCustom bool   `json:"is_custom"`
	}
	out := make([]jsonRule, len(rules))
	for i, r := range rules {
		out[i] = jsonRule{r.Name, r.Pattern, string(r.Mask), r.Priority, r.Enabled, r.IsCustom}
	}
	return writeJSON(cmd, out)
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	_, loader, err := loadEngineRegistry()
	if err != nil {
		return err
	}

	r := types.Rule{
		Name:     args[0],
		Pattern:  ruleAddPattern,
		Mask:     []byte(ruleAddMask),
		Priority: ruleAddPriority,
		Enabled:  !ruleAddDisabled,
	}

	if err := loader.SaveCustomRule(r); err != nil {
		return fmt.Errorf("saving rule %q: %w", r.Name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved custom rule %q\n", r.Name)
	return nil
}

func runRulesRm(cmd *cobra.Command, args []string) error {
	_, loader, err := loadEngineRegistry()
	if err != nil {
		return err
	}

	if err := loader.DeleteCustomRule(args[0]); err != nil {
		return fmt.Errorf("deleting rule %q: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted custom rule %q\n", args[0])
	return nil
}
