package commands

import (
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/logger"
)

func newSpendCommand(a *app) *cobra.Command {
	var by, from, to, period, input string

	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Sum spend by day, month or category over a date window",
		Long: `Sum spend (debits and legacy expense records) over a window.

The window is either --from/--to (YYYY-MM-DD, inclusive) or a named
--period (last_month, last_3_months, last_6_months, last_year) ending at
the reference date. Without either, last_month is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dim, err := aggregate.ParseDimension(by)
			if err != nil {
				return err
			}
			txns, err := a.spendTransactions(cmd.Context(), input)
			if err != nil {
				return err
			}

			var w aggregate.Window
			if from != "" || to != "" {
				if w, err = aggregate.ParseWindow(from, to); err != nil {
					return err
				}
			} else {
				if period == "" {
					period = string(aggregate.LastMonth)
				}
				if w, _, err = a.periodWindow(period, txns); err != nil {
					return err
				}
			}

			buckets, err := aggregate.Sum(txns, w, dim)
			if err != nil {
				return err
			}
			a.log.Info().
				Stringer("window", w).
				Str("by", string(dim)).
				Int(logger.FieldCount, len(buckets)).
				Stringer("total", aggregate.Total(buckets)).
				Msg("aggregated spend")
			if buckets == nil {
				buckets = []aggregate.Bucket{}
			}
			return writeJSON(cmd.OutOrStdout(), buckets)
		},
	}

	cmd.Flags().StringVar(&by, "by", string(aggregate.Monthly), "daily, monthly or category")
	cmd.Flags().StringVar(&from, "from", "", "window start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "window end, YYYY-MM-DD")
	cmd.Flags().StringVar(&period, "period", "", "named period ending at the reference date")
	cmd.Flags().StringVar(&input, "input", "", "ledger CSV or export directory to read instead of the session's bank payload")
	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("from", "period")
	cmd.MarkFlagsMutuallyExclusive("to", "period")

	return cmd
}
