package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
)

// FormatLedger renders the running total and today's itemized record.
func FormatLedger(l *domain.PerformanceLedger, now time.Time) string {
	var b strings.Builder
	b.WriteString(Dim("Performance: ") + Score(l.Performance) + "\n")

	today := l.Today(now)
	if today == nil {
		b.WriteString("\n" + Dim("Nothing scored today.") + "\n")
		return RenderBox("Performance", b.String())
	}
	b.WriteString(Dim("Today:       ") + StyleGreen.Render(fmt.Sprintf("+%d good", today.GoodTotal())) +
		Dim(" / ") + StyleRed.Render(fmt.Sprintf("%d bad", today.BadTotal())) + "\n")
	for _, bucket := range today.Buckets {
		for _, e := range bucket.Bad {
			b.WriteString(fmt.Sprintf("  %s %s\n", Score(e.Score), e.Name))
		}
	}
	return RenderBox("Performance", b.String())
}

// FormatHistory renders one row per scored day, most recent first.
func FormatHistory(days []service.DayScore) string {
	if len(days) == 0 {
		return Dim("No scored days in range.") + "\n"
	}
	headers := []string{"DAY", "GOOD", "BAD", "NET"}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Day.Format("Mon Jan 2"),
			StyleGreen.Render(fmt.Sprintf("%+d", d.Good)),
			ScoreStyle(d.Bad).Render(fmt.Sprintf("%d", d.Bad)),
			Score(d.Net),
		})
	}
	return RenderTable(headers, rows)
}

// FormatRecordResult renders the outcome of a manually recorded action.
func FormatRecordResult(category, action string, res service.RecordResult) string {
	if res.Score == 0 {
		return Dim(fmt.Sprintf("%s/%s scored nothing.", category, action)) + "\n"
	}
	return fmt.Sprintf("%s %s/%s  %s %s\n", Score(res.Score), category, action, Dim("performance"), Score(res.Performance))
}
