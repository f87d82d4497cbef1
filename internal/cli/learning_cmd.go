package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/spf13/cobra"
)

func newLearningCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "learning",
		Aliases: []string{"learn", "course"},
		Short:   "Track courses chapter by chapter",
	}

	cmd.AddCommand(
		newLearningAddCmd(app),
		newLearningListCmd(app),
		newLearningShowCmd(app),
		newLearningEditCmd(app),
		newLearningChapterCmd(app, "complete", "Mark chapter N complete",
			func(ctx context.Context, id string, index int) (*domain.Learning, error) {
				return app.Learnings.CompleteChapter(ctx, id, index)
			}),
		newLearningChapterCmd(app, "uncomplete", "Clear chapter N",
			func(ctx context.Context, id string, index int) (*domain.Learning, error) {
				return app.Learnings.UncompleteChapter(ctx, id, index)
			}),
		newLearningNextCmd(app),
		newLearningSkipCmd(app),
		newLearningRemoveCmd(app),
	)

	return cmd
}

func newLearningAddCmd(app *App) *cobra.Command {
	var chapters []string
	var notes string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.Learnings.Create(cmd.Context(), args[0], chapters, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created course %s with %d chapters %s\n", formatter.Bold(l.Title), l.NoOfChapters, formatter.TruncID(l.ID))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&chapters, "chapter", "c", nil, "Chapter name (repeat in order)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}

func newLearningListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List courses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			learnings, err := app.Learnings.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLearningList(learnings))
			return nil
		},
	}
}

func newLearningShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a course and its chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLearningID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Learnings.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLearning(l))
			return nil
		},
	}
}

func newLearningEditCmd(app *App) *cobra.Command {
	var title, notes string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a course's title or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLearningID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			var patch service.LearningPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			l, err := app.Learnings.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated course %s\n", formatter.Bold(l.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")
	cmd.MarkFlagsOneRequired("title", "notes")

	return cmd
}

type chapterOp func(ctx context.Context, id string, index int) (*domain.Learning, error)

func newLearningChapterCmd(app *App, use, short string, op chapterOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID N",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLearningID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			idx, err := parseIndex("chapter", args[1])
			if err != nil {
				return err
			}
			l, err := op(cmd.Context(), id, idx)
			if err != nil {
				return err
			}
			printLearningProgress(cmd, l)
			return nil
		},
	}
}

func newLearningNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next ID",
		Short: "Complete the current chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLearningID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Learnings.AdvanceNext(cmd.Context(), id)
			if err != nil {
				return err
			}
			printLearningProgress(cmd, l)
			return nil
		},
	}
}

func newLearningSkipCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "skip ID",
		Short: "Record a skipped study session (costs points)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLearningID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Learnings.SkipSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped a session of %s\n", formatter.Bold(l.Title))
			return nil
		},
	}
}

func newLearningRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a course",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveLearningID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Learnings.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed course %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func printLearningProgress(cmd *cobra.Command, l *domain.Learning) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %d/%d chapters\n",
		formatter.Bold(l.Title),
		formatter.RenderProgress(l.ProgressPercent(), 12),
		l.CompletedChapters, l.NoOfChapters)
}
