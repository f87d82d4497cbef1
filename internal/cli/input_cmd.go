package cli

import (
	"fmt"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/spf13/cobra"
)

func newInputCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "input",
		Aliases: []string{"daily"},
		Short:   "Log wake-up time, meditation and wasted time",
	}

	cmd.AddCommand(
		newInputLogCmd(app),
		newInputShowCmd(app),
		newInputRecentCmd(app),
	)

	return cmd
}

func newInputLogCmd(app *App) *cobra.Command {
	var wake string
	var meditation, wasted minutesFlag

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log today's habits (once per day)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub := service.DailyInputSubmission{
				WakeUpTime:        wake,
				MeditationMinutes: meditation.v,
				WastedMinutes:     wasted.v,
			}

			if cmd.Flags().NFlag() == 0 {
				if !app.IsInteractive {
					return fmt.Errorf("nothing to log: pass --wake, --meditation or --wasted")
				}
				var answers dailyInputAnswers
				if err := dailyInputForm(&answers).Run(); err != nil {
					return err
				}
				var err error
				if sub, err = answers.submission(); err != nil {
					return err
				}
			}

			in, err := app.Inputs.Submit(cmd.Context(), sub, app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDailyInput(in))

			ledger, err := app.Performance.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Dim("Performance:"), formatter.Score(ledger.Performance))
			return nil
		},
	}

	cmd.Flags().StringVarP(&wake, "wake", "w", "", "Wake-up time (HH:MM)")
	cmd.Flags().Var(&meditation, "meditation", "Meditation duration (minutes, H:MM or 1h30m)")
	cmd.Flags().Var(&wasted, "wasted", "Time wasted (minutes, H:MM or 1h30m)")

	return cmd
}

func newInputShowCmd(app *App) *cobra.Command {
	var day dayFlag

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the input logged for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			when := day.t
			if when.IsZero() {
				when = app.now()
			}
			in, err := app.Inputs.Get(cmd.Context(), when)
			if err != nil {
				return fmt.Errorf("no input logged for %s: %w", domain.DayKey(when), err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDailyInput(in))
			return nil
		},
	}

	cmd.Flags().Var(&day, "date", "Day to show (YYYY-MM-DD), defaults to today")

	return cmd
}

func newInputRecentCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent daily inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			inputs, err := app.Inputs.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDailyInputList(inputs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 7, "How many days to show")

	return cmd
}
