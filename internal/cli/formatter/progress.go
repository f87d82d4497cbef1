package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% for a percentage in
// [0, 100]. Green from 66%, yellow from 33%, red below.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}

// RenderChapters renders one cell per chapter: filled when complete.
func RenderChapters(flags []int) string {
	var b strings.Builder
	for _, f := range flags {
		if f == 1 {
			b.WriteString(StyleGreen.Render(filledBlock))
		} else {
			b.WriteString(StyleDim.Render(emptyBlock))
		}
	}
	return b.String()
}
