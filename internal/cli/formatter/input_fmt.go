package formatter

import (
	"strings"

	"github.com/alexanderramin/kaizen/internal/domain"
)

// FormatDailyInput renders one day's self-reported habits.
func FormatDailyInput(in *domain.DailyInput) string {
	var b strings.Builder
	b.WriteString(Dim("Day:        ") + Bold(in.Day.Format("Mon Jan 2, 2006")) + "\n")
	b.WriteString(Dim("Woke up:    ") + orDash(in.WakeUpTime) + "\n")
	b.WriteString(Dim("Meditation: ") + minutesOrDash(in.MeditationMinutes) + "\n")
	b.WriteString(Dim("Wasted:     ") + minutesOrDash(in.WastedMinutes) + "\n")
	return b.String()
}

// FormatDailyInputList renders recent daily inputs as a table.
func FormatDailyInputList(inputs []*domain.DailyInput) string {
	if len(inputs) == 0 {
		return Dim("No daily inputs yet. Log one with 'kaizen input log'.") + "\n"
	}
	headers := []string{"DAY", "WOKE UP", "MEDITATION", "WASTED"}
	rows := make([][]string, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, []string{
			in.Day.Format("Mon Jan 2"),
			orDash(in.WakeUpTime),
			minutesOrDash(in.MeditationMinutes),
			minutesOrDash(in.WastedMinutes),
		})
	}
	return RenderTable(headers, rows)
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return StyleFg.Render(s)
}

func minutesOrDash(m *int) string {
	if m == nil {
		return Dim("--")
	}
	return StyleFg.Render(FormatMinutes(*m))
}
