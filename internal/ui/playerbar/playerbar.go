package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/musichub/internal/icons"
	"github.com/llehouerou/musichub/internal/message"
	"github.com/llehouerou/musichub/internal/ui/render"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line mini player
	ModeExpanded                    // Full player with flags and progress
)

// State holds everything needed to render the player bar.
type State struct {
	HasTrack  bool
	Playing   bool
	Title     string
	Artist    string
	Position  time.Duration
	Duration  time.Duration
	Loop      bool
	Shuffle   bool
	Favorite  bool
	Scrubbing bool
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return contentRows + 2
	}
	return 3 // top border + content + bottom border
}

// NewState builds a render state from a replicated playback state.
func NewState(s message.State, scrubbing bool) State {
	if !s.HasTrack() {
		return State{}
	}
	return State{
		HasTrack:  true,
		Playing:   s.IsPlaying,
		Title:     render.Sanitize(s.Title),
		Artist:    render.Sanitize(s.Artist),
		Position:  time.Duration(s.PositionMs) * time.Millisecond,
		Duration:  time.Duration(s.DurationMs) * time.Millisecond,
		Loop:      s.IsLoopEnabled,
		Shuffle:   s.IsShuffleEnabled,
		Favorite:  s.IsFavorite,
		Scrubbing: scrubbing,
	}
}

// Render returns the player bar string for the given width.
// Returns empty string when there is no current track.
func Render(s State, mode DisplayMode, width int) string {
	if !s.HasTrack {
		return ""
	}
	if mode == ModeExpanded {
		return RenderExpanded(s, width)
	}
	return renderCompact(s, width)
}

const (
	sep           = "   "
	minCompactBar = 10
	unknownTitle  = "Unknown Track"
)

// renderCompact lays out: title   artist   flags   ▶  ━━━───   1:23 / 3:58
func renderCompact(s State, width int) string {
	inner := max(width-6, 0)
	status := statusSymbol(s.Playing) + gap
	clock := formatDuration(s.Position) + " / " + formatDuration(s.Duration)
	flags := flagsCompact(s)

	fixed := lipgloss.Width(status) + lipgloss.Width(clock) + 2*len(sep)
	if flags != "" {
		fixed += lipgloss.Width(flags) + len(sep)
	}

	title := s.Title
	if title == "" {
		title = unknownTitle
	}
	title, artist, used := fitInfo(title, s.Artist, inner-fixed-minCompactBar)

	cells := max(inner-used-fixed, 5)
	filled := filledCells(s.Position, s.Duration, cells)
	bar := progressBarFilled(s.Scrubbing).Render(strings.Repeat("━", filled)) +
		progressBarEmpty().Render(strings.Repeat("─", cells-filled))

	parts := []string{titleStyle().Render(title)}
	if artist != "" {
		parts = append(parts, artistStyle().Render(artist))
	}
	if flags != "" {
		parts = append(parts, metaStyle().Render(flags))
	}
	parts = append(parts, status+bar, progressTimeStyle().Render(clock))

	return barStyle().Padding(0, 2).Width(width - 2).Render(strings.Join(parts, sep))
}

// fitInfo shortens the artist first and the title second so both fit in
// budget columns. It returns the columns used.
func fitInfo(title, artist string, budget int) (string, string, int) {
	tw, aw := lipgloss.Width(title), lipgloss.Width(artist)
	if artist != "" {
		switch {
		case tw+len(sep)+aw <= budget:
			return title, artist, tw + len(sep) + aw
		case tw+len(sep) < budget:
			return title, render.TruncateEllipsis(artist, budget-tw-len(sep)), budget
		}
	}
	if tw <= budget {
		return title, "", tw
	}
	room := max(budget, 10)
	return render.TruncateEllipsis(title, room), "", min(tw, room)
}

func flagsCompact(s State) string {
	var parts []string
	if s.Loop {
		parts = append(parts, icons.Loop())
	}
	if s.Shuffle {
		parts = append(parts, icons.Shuffle())
	}
	if s.Favorite {
		parts = append(parts, icons.Favorite())
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
