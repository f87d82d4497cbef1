package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kaizen/internal/domain"
)

const learningProgressBarWidth = 12

// FormatLearningList renders courses with their progress bars.
func FormatLearningList(learnings []*domain.Learning) string {
	if len(learnings) == 0 {
		return Dim("No courses yet. Add one with 'kaizen learning add'.") + "\n"
	}

	headers := []string{"ID", "TITLE", "STATUS", "PROGRESS", "NEXT"}
	rows := make([][]string, 0, len(learnings))
	for _, l := range learnings {
		next := Dim("--")
		if name := l.CurrentChapterName(); name != "" {
			next = StyleFg.Render(name)
		}
		rows = append(rows, []string{
			TruncID(l.ID),
			Bold(l.Title),
			LearningStatusPill(l.Status),
			RenderProgress(l.ProgressPercent(), learningProgressBarWidth),
			next,
		})
	}
	return RenderTable(headers, rows)
}

// FormatLearning renders a course with a numbered chapter checklist.
func FormatLearning(l *domain.Learning) string {
	var b strings.Builder
	b.WriteString(Bold(l.Title) + "  " + LearningStatusPill(l.Status) + "\n")
	b.WriteString(RenderProgress(l.ProgressPercent(), 20))
	b.WriteString(Dim(fmt.Sprintf("  %d/%d chapters", l.CompletedChapters, l.NoOfChapters)) + "\n\n")

	for i, name := range l.ChapterNames {
		mark := StyleDim.Render("[ ]")
		if l.Progress.IsChapterComplete(i) {
			mark = StyleGreen.Render("[x]")
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, name)
		if i == l.CurrentChapterIndex {
			line += "  " + StyleHeader.Render("← next")
		}
		b.WriteString(line + "\n")
	}
	if l.Notes != "" {
		b.WriteString("\n" + Dim(l.Notes) + "\n")
	}
	return RenderBox("Course", b.String())
}
