package commands

import (
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/chart"
	"github.com/finsight-dev/finsight/internal/model"
)

type spendChart func(txns []model.Transaction, w aggregate.Window, p aggregate.Period) (chart.Payload, error)

func newChartCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print Google Charts payloads",
	}

	cmd.AddCommand(
		newSpendChartCommand(a, "trend", "Monthly spending trend line", aggregate.Last6Months,
			func(txns []model.Transaction, w aggregate.Window, _ aggregate.Period) (chart.Payload, error) {
				return chart.SpendingTrend(txns, w)
			}),
		newSpendChartCommand(a, "categories", "Spending by category pie", aggregate.LastMonth, chart.CategoryBreakdown),
		newPortfolioChartCommand(a),
	)
	return cmd
}

func newSpendChartCommand(a *app, use, short string, defaultPeriod aggregate.Period, build spendChart) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txns, _, err := a.bankTransactions(cmd.Context())
			if err != nil {
				return err
			}
			w, p, err := a.periodWindow(period, txns)
			if err != nil {
				return err
			}
			payload, err := build(txns, w, p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}

	cmd.Flags().StringVar(&period, "period", string(defaultPeriod), "named period ending at the reference date")

	return cmd
}

func newPortfolioChartCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Net invested amount by asset class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.fetch(cmd.Context())
			if err != nil {
				return err
			}
			payload, err := chart.InvestmentPortfolio(b.MFPayload(), b.StockPayload())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}
}
