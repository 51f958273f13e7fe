package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/importer"
	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
)

// Output formats for transaction listings.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

const sourceAll = "all"

func newTransactionsCommand(a *app) *cobra.Command {
	var source string
	var format string

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Print normalized transactions for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatCSV {
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}
			c, err := a.categorizer()
			if err != nil {
				return err
			}
			registry := importer.DefaultRegistry(c)
			var parser importer.Parser
			if source != sourceAll {
				if parser = registry.Get(source); parser == nil {
					return fmt.Errorf("unknown source %q (want all or one of %v)", source, registry.Sources())
				}
			}

			b, err := a.fetch(cmd.Context())
			if err != nil {
				return err
			}

			var res importer.Result
			if parser == nil {
				res = importer.Merge(c, b.BankPayload(), b.MFPayload(), b.StockPayload())
				a.logParsed(sourceAll, res)
			} else {
				res = parser.Parse(b.Raw(parser.Source()))
				a.logParsed(parser.Source(), res)
			}
			return writeTransactions(cmd.OutOrStdout(), format, res.Transactions)
		},
	}

	cmd.Flags().StringVar(&source, "source", sourceAll, "bank, mf, stock or all")
	cmd.Flags().StringVar(&format, "format", formatJSON, "json or csv")

	return cmd
}

func writeTransactions(w io.Writer, format string, txns []model.Transaction) error {
	if format == formatCSV {
		return ledger.WriteTransactions(w, txns)
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	return writeJSON(w, txns)
}
