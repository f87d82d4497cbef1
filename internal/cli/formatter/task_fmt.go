package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
)

// FormatTaskList renders habits and one-shot tasks as a single table.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks yet. Add one with 'kaizen task add'.") + "\n"
	}

	headers := []string{"ID", "TITLE", "TYPE", "STATE", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := Dim("--")
		if t.Deadline != nil {
			due = RelativeDateStyled(*t.Deadline, now)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Title),
			TaskTypeLabel(t.Type),
			TaskState(t, now),
			due,
		})
	}
	return RenderTable(headers, rows)
}

// FormatTask renders a single task with its recent daily tracking.
func FormatTask(t *domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(t.Title) + "  " + TruncID(t.ID) + "\n")
	b.WriteString(Dim("Type:  ") + TaskTypeLabel(t.Type) + "\n")
	b.WriteString(Dim("State: ") + TaskState(t, now) + "\n")
	if t.Deadline != nil {
		b.WriteString(Dim("Due:   ") + t.Deadline.Format("Jan 2, 2006") + " (" + RelativeDateStyled(*t.Deadline, now) + ")\n")
	}
	if t.IsRecurring() && len(t.DailyTracking) > 0 {
		b.WriteString("\n" + Dim("Last days: ") + trackingStrip(t.DailyTracking, 14) + "\n")
	}
	return b.String()
}

// TaskState renders today's completion for habits and the status for the rest.
func TaskState(t *domain.Task, now time.Time) string {
	if t.IsRecurring() {
		if t.CompletedOn(now) {
			return StyleGreen.Render("✔ done today")
		}
		return StyleYellow.Render("○ open today")
	}
	if t.Status == domain.TaskCompleted {
		return StyleDim.Render("✔ completed")
	}
	return StyleFg.Render("○ pending")
}

func TaskTypeLabel(typ domain.TaskType) string {
	switch typ {
	case domain.TaskNonNegotiable:
		return StylePurple.Render("habit")
	case domain.TaskDeadline:
		return StyleBlue.Render("deadline")
	case domain.TaskProcrastinating:
		return StyleYellow.Render("procrastinating")
	default:
		return string(typ)
	}
}

func trackingStrip(entries []domain.DailyTrackingEntry, n int) string {
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	var b strings.Builder
	for _, e := range entries {
		if e.Completed {
			b.WriteString(StyleGreen.Render(filledBlock))
		} else {
			b.WriteString(StyleRed.Render(emptyBlock))
		}
	}
	return b.String()
}
