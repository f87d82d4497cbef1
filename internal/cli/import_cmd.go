package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create habits, courses and projects from a YAML or JSON plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := importer.LoadPlanFile(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidatePlanFile(pf); len(errs) > 0 {
				return fmt.Errorf("invalid plan file:\n%w", errors.Join(errs...))
			}

			plan := importer.Convert(pf, app.now())
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%s %d habits, %d courses, %d projects\n",
					formatter.Dim("Would create"), len(plan.Habits), len(plan.Courses), len(plan.Projects))
				return nil
			}

			res, err := importer.Apply(cmd.Context(), importer.Services{
				Tasks:     app.Tasks,
				Learnings: app.Learnings,
				Projects:  app.Projects,
			}, plan)
			fmt.Fprintf(out, "Created %d habits, %d courses, %d projects\n", res.Habits, res.Courses, res.Projects)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without creating anything")

	return cmd
}
