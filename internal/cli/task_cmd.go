package cli

import (
	"fmt"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage habits and one-shot tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskDoneCmd(app),
		newTaskReopenCmd(app),
		newTaskProcrastinateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// parseTaskType accepts the stored type names plus the "habit" alias.
func parseTaskType(s string) (domain.TaskType, error) {
	switch s {
	case "habit", "daily":
		return domain.TaskNonNegotiable, nil
	}
	typ := domain.TaskType(s)
	if !domain.ValidTaskTypes[typ] {
		return "", fmt.Errorf("invalid task type %q (use habit, deadline or procrastinating)", s)
	}
	return typ, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var typeStr string
	var due dayFlag

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseTaskType(typeStr)
			if err != nil {
				return err
			}
			t, err := app.Tasks.Create(cmd.Context(), args[0], typ, due.ptr())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s %s\n", formatter.TaskTypeLabel(t.Type), formatter.Bold(t.Title), formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeStr, "type", "t", "habit", "Task type: habit, deadline or procrastinating")
	cmd.Flags().Var(&due, "due", "Deadline (YYYY-MM-DD), required for deadline tasks")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var all bool
	var typeStr string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := service.TaskQuery{IncludeCompleted: all}
			if typeStr != "" {
				typ, err := parseTaskType(typeStr)
				if err != nil {
					return err
				}
				q.Type = typ
			}
			tasks, err := app.Tasks.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	cmd.Flags().StringVarP(&typeStr, "type", "t", "", "Only show one task type")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task and its daily tracking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask(t, app.now()))
			return nil
		},
	}
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Complete a task, or today's entry of a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			if t.IsRecurring() {
				t, err = app.Tasks.MarkCompletedToday(ctx, id, app.now())
			} else {
				t, err = app.Tasks.SetStatus(ctx, id, true)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.TaskState(t, app.now()), formatter.Bold(t.Title))
			return nil
		},
	}
}

func newTaskReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen ID",
		Short: "Move a completed task back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.SetStatus(cmd.Context(), id, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", formatter.Bold(t.Title))
			return nil
		},
	}
}

func newTaskProcrastinateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "procrastinate ID",
		Short: "Admit to putting a task off (costs points)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.MarkProcrastinated(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Noted: %s was put off\n", formatter.Bold(t.Title))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
