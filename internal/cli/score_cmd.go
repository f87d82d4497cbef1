package cli

import (
	"fmt"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/spf13/cobra"
)

func newScoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "score",
		Aliases: []string{"performance"},
		Short:   "Inspect and record performance points",
	}

	cmd.AddCommand(
		newScoreShowCmd(app),
		newScoreHistoryCmd(app),
		newScoreRecordCmd(app),
	)

	return cmd
}

func newScoreShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the running total and today's record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := app.Performance.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLedger(ledger, app.now()))
			return nil
		},
	}
}

func newScoreHistoryCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show per-day scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.Performance.History(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(history))
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Number of days to include")

	return cmd
}

func newScoreRecordCmd(app *App) *cobra.Command {
	var minutes minutesFlag

	cmd := &cobra.Command{
		Use:   "record CATEGORY ACTION",
		Short: "Score an action directly, e.g. 'record dailyInput wastedTime --minutes 45'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params scoring.Params
			if minutes.v != nil {
				params.Minutes = *minutes.v
			}
			res, err := app.Performance.RecordEvent(cmd.Context(), args[0], args[1], params)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordResult(args[0], args[1], res))
			return nil
		},
	}

	cmd.Flags().Var(&minutes, "minutes", "Duration for time-based actions (minutes, H:MM or 1h30m)")

	return cmd
}
