package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kaizen/internal/cli/formatter"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// kaizenHuhTheme returns a custom huh theme using the Gruvbox palette.
func kaizenHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// dailyInputAnswers holds the raw text of the daily input form.
type dailyInputAnswers struct {
	wake       string
	meditation string
	wasted     string
}

// dailyInputForm asks for the three daily habits. Every field may be left empty.
func dailyInputForm(a *dailyInputAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("When did you wake up?").
				Placeholder("06:30").
				Validate(validateOptionalClock).
				Value(&a.wake),
			huh.NewInput().
				Title("How long did you meditate?").
				Description("Minutes, H:MM or 1h30m").
				Validate(validateOptionalMinutes).
				Value(&a.meditation),
			huh.NewInput().
				Title("How much time did you waste?").
				Description("Minutes, H:MM or 1h30m").
				Validate(validateOptionalMinutes).
				Value(&a.wasted),
		),
	).WithTheme(kaizenHuhTheme()).WithShowHelp(false)
}

func (a dailyInputAnswers) submission() (service.DailyInputSubmission, error) {
	sub := service.DailyInputSubmission{WakeUpTime: strings.TrimSpace(a.wake)}
	var err error
	if sub.MeditationMinutes, err = optionalMinutes(a.meditation); err != nil {
		return sub, err
	}
	if sub.WastedMinutes, err = optionalMinutes(a.wasted); err != nil {
		return sub, err
	}
	return sub, nil
}

func optionalMinutes(s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := parseMinutes(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// validateOptionalClock accepts empty or an HH:MM time of day.
func validateOptionalClock(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := domain.ParseClock(s); err != nil {
		return fmt.Errorf("enter a time like 06:30")
	}
	return nil
}

// validateOptionalMinutes accepts empty or a non-negative duration.
func validateOptionalMinutes(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := parseMinutes(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative duration")
	}
	return nil
}
