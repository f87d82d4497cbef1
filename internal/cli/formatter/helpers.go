package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDate returns a human-friendly distance from now to t in whole days.
func RelativeDate(t, now time.Time) string {
	days := int(math.Round(domain.StartOfDay(t).Sub(domain.StartOfDay(now)).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDateStyled returns RelativeDate colored by urgency: overdue or due
// within two days is red, within a week yellow.
func RelativeDateStyled(t, now time.Time) string {
	text := RelativeDate(t, now)
	days := int(math.Round(domain.StartOfDay(t).Sub(domain.StartOfDay(now)).Hours() / 24))
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// ProjectStatusPill returns a colored status indicator for a project.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ On Hold")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectPlanning:
		return StyleBlue.Render("◌ Planning")
	default:
		return StyleDim.Render(string(status))
	}
}

// LearningStatusPill returns a colored status indicator for a course.
func LearningStatusPill(status domain.LearningStatus) string {
	switch status {
	case domain.LearningInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.LearningCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleBlue.Render("○ Not Started")
	}
}

// ModuleTaskMark renders a module task checkbox.
func ModuleTaskMark(status domain.ModuleTaskStatus) string {
	switch status {
	case domain.ModuleTaskCompleted:
		return StyleGreen.Render("[x]")
	case domain.ModuleTaskInProgress:
		return StyleYellow.Render("[~]")
	default:
		return StyleDim.Render("[ ]")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into a compact duration.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
