package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/config"
)

// rulesPath is where init writes the editable keyword rules.
var rulesPath = filepath.Join("rules", "categorization-rules.yaml")

func newInitCommand(a *app) *cobra.Command {
	var fallback string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finsight project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, a.flags.session, fallback); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized finsight project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&fallback, "fallback-date", "", "as-of date (YYYY-MM-DD) for named periods when the data is stale")

	return cmd
}

func runInit(dir, session, fallback string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	for _, d := range []string{"data", "rules", "exports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	if session != "" {
		cfg.Source.SessionID = session
	}
	cfg.Reference.FallbackDate = fallback
	cfg.Categorize.RulesFile = rulesPath
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "data", cfg.Source.SessionID), 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := categorize.SaveRules(filepath.Join(dir, rulesPath), categorize.DefaultRules()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := "data/\nexports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}
