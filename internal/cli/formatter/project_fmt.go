package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
)

const projectProgressBarWidth = 10

// FormatProjectList renders projects with progress and deadline urgency.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Add one with 'kaizen project add'.") + "\n"
	}

	headers := []string{"ID", "TITLE", "STATUS", "PRIORITY", "PROGRESS", "DEADLINE"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			ProjectStatusPill(p.Status),
			PriorityBadge(p.Priority),
			RenderProgress(p.Progress, projectProgressBarWidth),
			RelativeDateStyled(p.Deadline, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProject renders a project with its modules and their task checklists.
// Module and task numbers are 1-based, matching the CLI arguments.
func FormatProject(p *domain.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(p.Title) + "  " + ProjectStatusPill(p.Status) + "  " + PriorityBadge(p.Priority) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString(RenderProgress(p.Progress, 20) + "\n")

	days := p.DaysRemaining(now)
	deadline := p.Deadline.Format("Jan 2, 2006")
	switch {
	case days < 0:
		b.WriteString(StyleRed.Render(fmt.Sprintf("Deadline %s, %d days overdue", deadline, -days)) + "\n")
	default:
		b.WriteString(Dim(fmt.Sprintf("Deadline %s, %d days left", deadline, days)) + "\n")
	}

	for i, m := range p.Modules {
		b.WriteString(fmt.Sprintf("\n%s %s  %s\n",
			StyleHeader.Render(fmt.Sprintf("%d.", i+1)),
			Bold(m.Name),
			RenderProgress(m.Progress, projectProgressBarWidth)))
		for j, t := range m.Tasks {
			b.WriteString(fmt.Sprintf("   %s %d.%d %s\n", ModuleTaskMark(t.Status), i+1, j+1, t.Title))
		}
	}
	if p.Notes != "" {
		b.WriteString("\n" + Dim(p.Notes) + "\n")
	}
	return RenderBox("Project", b.String())
}
