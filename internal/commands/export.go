package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/logger"
)

func newExportCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session's merged transactions as monthly ledger CSVs",
		Long: `Write merged bank, mutual fund and stock transactions to
<dir>/YYYY/MM/transactions.csv, one file per month. Existing month files
are replaced. The directory can be read back with spend --input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.categorizer()
			if err != nil {
				return err
			}
			b, err := a.fetch(cmd.Context())
			if err != nil {
				return err
			}
			res := importer.Merge(c, b.BankPayload(), b.MFPayload(), b.StockPayload())
			a.logParsed(sourceAll, res)

			paths, err := ledger.NewStore(dir).WriteMonths(res.Transactions)
			if err != nil {
				return err
			}
			a.log.Info().Str("dir", dir).Int(logger.FieldCount, len(paths)).Msg("exported ledgers")
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "exports", "export directory")

	return cmd
}
