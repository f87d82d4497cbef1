package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks       service.TaskService
	Learnings   service.LearningService
	Projects    service.ProjectService
	Performance service.PerformanceService
	Inputs      service.DailyInputService
	Dashboard   service.DashboardService

	// Now is the clock calendar days are read from. Defaults to time.Now.
	Now service.Clock
	// IsInteractive enables huh forms when stdin is a terminal.
	IsInteractive bool
	// Serve runs the HTTP API until ctx is done. Nil disables "kaizen serve".
	Serve func(ctx context.Context) error
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "kaizen" command and registers all
// subcommands against the provided App. Without a subcommand it prints the
// dashboard.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "kaizen",
		Short:         "Track habits, courses, projects and a daily performance score",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, app)
		},
	}

	root.AddCommand(
		newTaskCmd(app),
		newLearningCmd(app),
		newProjectCmd(app),
		newInputCmd(app),
		newScoreCmd(app),
		newDashboardCmd(app),
		newImportCmd(app),
		newServeCmd(app),
	)

	return root
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"today"},
		Short:   "Show today's habits, open work and score",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, app)
		},
	}
}

func runDashboard(cmd *cobra.Command, app *App) error {
	snap, err := app.Dashboard.Snapshot(cmd.Context(), app.now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(snap))
	return nil
}
