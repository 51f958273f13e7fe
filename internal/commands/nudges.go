package commands

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/logger"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/recurring"
)

func newNudgesCommand(a *app) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "nudges",
		Short: "List upcoming recurring payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.today()
			if nowFlag != "" {
				d, err := civil.ParseDate(nowFlag)
				if err != nil {
					return fmt.Errorf("parsing --now: %w", err)
				}
				now = d
			}

			txns, c, err := a.bankTransactions(cmd.Context())
			if err != nil {
				return err
			}

			nudges := recurring.NewDetector(a.cfg.RecurrenceOptions(), c).Detect(txns, now)
			a.log.Info().
				Stringer("now", now).
				Int(logger.FieldCount, len(nudges)).
				Msg("detected recurring payments")
			if nudges == nil {
				nudges = []model.PaymentNudge{}
			}
			return writeJSON(cmd.OutOrStdout(), nudges)
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "as-of date, YYYY-MM-DD (default today)")

	return cmd
}
