// Package render provides text rendering utilities for TUI components.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters other than tab and bytes that are
// not valid UTF-8, and turns non-breaking spaces into plain ones. Tags
// from files and remote catalogs carry all of these.
func Sanitize(s string) string {
	return strings.Map(sanitizeRune, s)
}

func sanitizeRune(r rune) rune {
	switch {
	case r == '\t':
		return r
	case r == utf8.RuneError, unicode.IsControl(r):
		return -1
	case r == '\u00a0':
		return ' '
	}
	return r
}

// TruncateEllipsis shortens a string to maxWidth display columns using a
// single character ellipsis. Wide characters are never split.
func TruncateEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// Row creates a row with left and right aligned content separated by spaces.
// The total width of the output will be exactly width characters when the
// content fits.
func Row(left, right string, width int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := max(width-leftWidth-rightWidth, 1)
	return left + strings.Repeat(" ", gap) + right
}
