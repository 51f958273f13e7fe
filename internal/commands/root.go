package commands

import (
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/buildinfo"
	"github.com/finsight-dev/finsight/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := newApp()

	rootCmd := &cobra.Command{
		Use:     "finsight",
		Short:   "Normalize, categorize and summarize personal finance exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", config.FileName, "path to finsight.yaml")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory of <session>/fetch_*.json payloads")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "data server base URL; overrides --data-dir")
	pf.StringVar(&a.flags.session, "session", "", "session ID to fetch")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newTransactionsCommand(a),
		newSpendCommand(a),
		newNudgesCommand(a),
		newChartCommand(a),
		newExportCommand(a),
		newWhatIfCommand(),
	)

	return rootCmd
}
