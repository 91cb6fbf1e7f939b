package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"

	gap         = "  "
	minBarCells = 3
)

// RenderProgressBar lays out "▶  1:23  ▓▓▓▓░░░░  4:56" in width cells.
// Below minBarCells of bar only the times are shown.
func RenderProgressBar(position, duration time.Duration, width int, playing bool) string {
	status := statusSymbol(playing)
	pos, dur := formatDuration(position), formatDuration(duration)

	cells := width - lipgloss.Width(status) - lipgloss.Width(pos) - lipgloss.Width(dur) - 3*len(gap)
	if cells < minBarCells {
		return status + gap + pos + " / " + dur
	}
	n := filledCells(position, duration, cells)
	bar := strings.Repeat(filledBlock, n) + strings.Repeat(emptyBlock, cells-n)
	return strings.Join([]string{status, pos, bar, dur}, gap)
}

// filledCells is how many of cells represent position within duration.
func filledCells(position, duration time.Duration, cells int) int {
	if duration <= 0 || position <= 0 || cells <= 0 {
		return 0
	}
	return min(int(int64(cells)*int64(position)/int64(duration)), cells)
}

func statusSymbol(playing bool) string {
	if playing {
		return playSymbol
	}
	return pauseSymbol
}
