package playerbar

import (
	"strings"

	"github.com/llehouerou/musichub/internal/icons"
	"github.com/llehouerou/musichub/internal/ui/render"
	"github.com/llehouerou/musichub/internal/ui/styles"
)

const contentRows = 6

// RenderExpanded renders the full player: title, artist, progress and
// the loop/shuffle/favorite toggles.
func RenderExpanded(s State, width int) string {
	innerWidth := max(width-6, 0)
	if innerWidth < minExpandedWidth {
		// Too narrow, fall back to compact
		return renderCompact(s, width)
	}

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	artist := s.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}

	lines := []string{
		styles.GradientTitle(render.TruncateEllipsis(title, innerWidth)),
		artistStyle().Render(render.TruncateEllipsis(artist, innerWidth)),
		"",
		RenderProgressBar(s.Position, s.Duration, innerWidth, s.Playing),
		render.Row(toggles(s), scrubHint(s), innerWidth),
		"",
	}
	lines = lines[:contentRows]

	return barStyle().Padding(0, 2).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func toggles(s State) string {
	return strings.Join([]string{
		toggle(icons.Loop()+" loop", s.Loop),
		toggle(icons.Shuffle()+" shuffle", s.Shuffle),
		toggle(icons.Favorite()+" favorite", s.Favorite),
	}, "   ")
}

func toggle(label string, on bool) string {
	if on {
		return toggleOnStyle().Render(label)
	}
	return metaStyle().Render(label)
}

func scrubHint(s State) string {
	if !s.Scrubbing {
		return ""
	}
	return scrubStyle().Render("seek to " + formatDuration(s.Position) + " · enter to apply")
}
