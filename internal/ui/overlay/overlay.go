// Package overlay draws boxes on top of an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TopRight overlays box onto base, aligned to the top right corner of
// a view width columns wide. Lines of base are padded to width first.
// ANSI styling of both strings is preserved.
func TopRight(base, box string, width int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	return Place(base, box, width, max(width-boxWidth, 0), 0)
}

// Place overlays box onto base with its top left corner at column x, row y.
// Box lines beyond the base height are dropped.
func Place(base, box string, width, x, y int) string {
	baseLines := strings.Split(base, "\n")

	for i, boxLine := range strings.Split(box, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}

		line := baseLines[row]
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}

		endCol := min(x+ansi.StringWidth(boxLine), width)
		content := ansi.Cut(boxLine, 0, endCol-x)

		prefix := ansi.Cut(line, 0, x)
		// A wide character cut in half leaves the prefix short.
		if pw := ansi.StringWidth(prefix); pw < x {
			prefix += strings.Repeat(" ", x-pw)
		}
		result := prefix + content
		if endCol < width {
			result += ansi.Cut(line, endCol, width)
		}
		baseLines[row] = result
	}

	return strings.Join(baseLines, "\n")
}
