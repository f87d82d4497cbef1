package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kaizen/internal/service"
)

// FormatDashboard renders the daily overview: score, habits, open work.
func FormatDashboard(s *service.Snapshot) string {
	var b strings.Builder

	b.WriteString(Dim("Performance ") + Score(s.Performance))
	if s.Today != nil {
		b.WriteString(Dim("  today ") + Score(s.Today.GoodTotal()+s.Today.BadTotal()))
	}
	b.WriteString("\n")
	if s.TodaysInput != nil {
		b.WriteString(Dim("Woke up ") + orDash(s.TodaysInput.WakeUpTime) +
			Dim("  meditated ") + minutesOrDash(s.TodaysInput.MeditationMinutes) +
			Dim("  wasted ") + minutesOrDash(s.TodaysInput.WastedMinutes) + "\n")
	} else {
		b.WriteString(StyleYellow.Render("Daily input not logged yet.") + "\n")
	}

	b.WriteString("\n" + Header(fmt.Sprintf("Habits %d/%d", s.HabitsDone, len(s.Habits))) + "\n")
	for _, h := range s.Habits {
		b.WriteString(fmt.Sprintf("  %s %s\n", TaskState(h, s.Now), h.Title))
	}

	if len(s.OpenTasks) > 0 {
		b.WriteString("\n" + Header("Open tasks") + "\n")
		for _, t := range s.OpenTasks {
			line := fmt.Sprintf("  %s %s", TaskTypeLabel(t.Type), t.Title)
			if t.Deadline != nil {
				line += "  " + RelativeDateStyled(*t.Deadline, s.Now)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(s.Learnings) > 0 {
		b.WriteString("\n" + Header(fmt.Sprintf("Learning %d active", s.ActiveCourses)) + "\n")
		for _, l := range s.Learnings {
			b.WriteString(fmt.Sprintf("  %s %s\n", RenderChapters(l.Progress.Flags()), l.Title))
		}
	}

	if len(s.Projects) > 0 {
		b.WriteString("\n" + Header("Projects") + "\n")
		for _, p := range s.Projects {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", RenderProgress(p.Progress, projectProgressBarWidth), p.Title, RelativeDateStyled(p.Deadline, s.Now)))
		}
	}

	return RenderBox("Today", b.String())
}
