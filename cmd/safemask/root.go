// Command safemask masks secrets and PII out of files, directories, and
// clipboard text using a small, hot-reloadable set of literal and regex
// rules.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AiToByte/safemask/internal/config"
	"github.com/AiToByte/safemask/internal/logging"
	"github.com/AiToByte/safemask/pkg/registry"
	"github.com/AiToByte/safemask/pkg/rule"
)

var (
	verbose    bool
	configPath string
	rulesPath  string
)

var rootCmd = &cobra.Command{
	Use:   "safemask",
	Short: "Mask secrets and PII in text, files, and directories",
	Long: `safemask replaces secrets and personally identifiable information with
opaque masks, using a built-in rule set plus any custom rules you add.
It can mask a single file, an entire directory tree, a clipboard's
contents, or a string given on the command line.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config YAML file")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to a custom rules file (overrides the default location)")

	rootCmd.AddCommand(maskCmd)
	rootCmd.AddCommand(maskDirCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadEngineRegistry builds the rule loader and registry every subcommand
// shares: built-in rules plus whichever custom file is in effect, wired
// into a hot-swappable Cell.
func loadEngineRegistry() (*registry.Cell, *rule.Loader, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Sync()

	userFile := rulesPath
	if userFile == "" {
		userFile, err = rule.DefaultUserRulesPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving user rules path: %w", err)
		}
	}

	loader := rule.NewLoader(userFile)
	loader.OnWarning(func(path string, err error) {
		if verbose {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
		}
	})

	rules, err := loader.LoadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("loading rules: %w", err)
	}

	cell, diags := registry.New(rules)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: rule %q: %v\n", d.RuleName, d.Err)
	}

	return cell, loader, nil
}
