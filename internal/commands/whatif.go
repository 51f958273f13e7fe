package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/whatif"
)

func newWhatIfCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Run financial projections",
	}
	cmd.AddCommand(newMFReturnCommand(), newSpendReductionCommand())
	return cmd
}

func newMFReturnCommand() *cobra.Command {
	def := whatif.DefaultMFReturnParams()
	var amount, rate string
	var months int

	cmd := &cobra.Command{
		Use:   "mf-return",
		Short: "Project a lump-sum mutual fund investment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := whatif.MFReturnParams{HorizonMonths: months}
			var err error
			if p.Amount, err = decimalFlag("amount", amount); err != nil {
				return err
			}
			if p.AnnualRate, err = decimalFlag("rate", rate); err != nil {
				return err
			}
			res, err := whatif.Run(whatif.ScenarioMFReturn, &p, nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", def.Amount.String(), "amount invested")
	cmd.Flags().IntVar(&months, "months", def.HorizonMonths, "investment horizon in months")
	cmd.Flags().StringVar(&rate, "rate", def.AnnualRate.String(), "expected annual return, 0.12 for 12%")

	return cmd
}

func newSpendReductionCommand() *cobra.Command {
	def := whatif.DefaultSpendReductionParams()
	var percent, spend string

	cmd := &cobra.Command{
		Use:   "spend-reduction",
		Short: "Project savings from cutting monthly spend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p whatif.SpendReductionParams
			var err error
			if p.Percent, err = decimalFlag("percent", percent); err != nil {
				return err
			}
			if p.AvgMonthlySpend, err = decimalFlag("spend", spend); err != nil {
				return err
			}
			res, err := whatif.Run(whatif.ScenarioSpendReduction, nil, &p)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&percent, "percent", def.Percent.String(), "reduction in percent")
	cmd.Flags().StringVar(&spend, "spend", def.AvgMonthlySpend.String(), "average monthly spend")

	return cmd
}

func decimalFlag(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing --%s %q: %w", name, value, err)
	}
	return d, nil
}
