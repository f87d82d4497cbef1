package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects, their modules and tasks",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectModulesCmd(app),
		newProjectTaskCmd(app),
		newProjectStatusCmd(app),
		newProjectDelayCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

// parseModuleArg parses "Name:task one,task two!" into a module. A trailing
// "!" marks a high-priority task.
func parseModuleArg(arg string) (domain.Module, error) {
	name, tasks, _ := strings.Cut(arg, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Module{}, fmt.Errorf("invalid module %q: expected NAME:task,task", arg)
	}
	m := domain.Module{Name: name}
	for _, title := range strings.Split(tasks, ",") {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		priority := domain.PriorityMedium
		if strings.HasSuffix(title, "!") {
			priority = domain.PriorityHigh
			title = strings.TrimSpace(strings.TrimSuffix(title, "!"))
		}
		m.Tasks = append(m.Tasks, domain.ModuleTask{Title: title, Priority: priority})
	}
	return m, nil
}

func parseModuleArgs(args []string) ([]domain.Module, error) {
	modules := make([]domain.Module, 0, len(args))
	for _, arg := range args {
		m, err := parseModuleArg(arg)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func parsePriority(s string) (domain.Priority, error) {
	for p := range domain.ValidPriorities {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (use low, medium or high)", s)
}

func parseProjectStatus(s string) (domain.ProjectStatus, error) {
	norm := strings.ReplaceAll(strings.ToLower(s), "-", " ")
	for st := range domain.ValidProjectStatuses {
		if strings.ToLower(string(st)) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (use planning, in-progress, on-hold or completed)", s)
}

func newProjectAddCmd(app *App) *cobra.Command {
	var description, priorityStr, notes string
	var moduleArgs []string
	var start, deadline dayFlag

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := parsePriority(priorityStr)
			if err != nil {
				return err
			}
			modules, err := parseModuleArgs(moduleArgs)
			if err != nil {
				return err
			}
			in := service.ProjectInput{
				Title:       args[0],
				Description: description,
				StartDate:   start.t,
				Deadline:    deadline.t,
				Priority:    priority,
				Modules:     modules,
				Notes:       notes,
			}
			if in.StartDate.IsZero() {
				in.StartDate = domain.StartOfDay(app.now())
			}

			p, err := app.Projects.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s with %d modules %s\n", formatter.Bold(p.Title), len(p.Modules), formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().Var(&deadline, "deadline", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVarP(&priorityStr, "priority", "p", "medium", "Priority: low, medium or high")
	cmd.Flags().StringArrayVarP(&moduleArgs, "module", "m", nil, `Module as "Name:task,task!" (repeat in order, "!" marks high priority)`)
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("deadline")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   "Show a project with its modules and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProject(p, app.now()))
			return nil
		},
	}
}

func newProjectModulesCmd(app *App) *cobra.Command {
	var moduleArgs []string

	cmd := &cobra.Command{
		Use:   "modules ID",
		Short: "Replace a project's modules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			modules, err := parseModuleArgs(moduleArgs)
			if err != nil {
				return err
			}
			p, err := app.Projects.ReplaceModules(cmd.Context(), id, modules)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d modules %s\n", formatter.Bold(p.Title), len(p.Modules), formatter.RenderProgress(p.Progress, 10))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&moduleArgs, "module", "m", nil, `Module as "Name:task,task!" (repeat in order)`)
	_ = cmd.MarkFlagRequired("module")

	return cmd
}

func newProjectTaskCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "task ID MODULE TASK",
		Short: "Mark a module task done (numbers as shown by 'project show')",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			moduleIdx, err := parseIndex("module", args[1])
			if err != nil {
				return err
			}
			taskIdx, err := parseIndex("task", args[2])
			if err != nil {
				return err
			}
			p, err := app.Projects.SetTaskStatus(cmd.Context(), id, moduleIdx, taskIdx, !undo)
			if err != nil {
				return err
			}
			m := p.Modules[moduleIdx]
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s %s  %s %s\n",
				formatter.ModuleTaskMark(m.Tasks[taskIdx].Status), m.Tasks[taskIdx].Title,
				formatter.Dim(m.Name), formatter.RenderProgress(m.Progress, 10),
				formatter.Dim(p.Title), formatter.RenderProgress(p.Progress, 10))
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task pending again")

	return cmd
}

func newProjectStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set a project's status (planning, in-progress, on-hold, completed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			status, err := parseProjectStatus(args[1])
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, id)
			if err != nil {
				return err
			}
			p, err = app.Projects.Update(ctx, id, service.ProjectInput{
				Title:       p.Title,
				Description: p.Description,
				StartDate:   p.StartDate,
				Deadline:    p.Deadline,
				Status:      status,
				Priority:    p.Priority,
				Modules:     p.Modules,
				Notes:       p.Notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(p.Title), formatter.ProjectStatusPill(p.Status))
			return nil
		},
	}
}

func newProjectDelayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delay ID",
		Short: "Report a delayed task (costs points)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.ReportDelay(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Noted a delay on %s\n", formatter.Bold(p.Title))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
