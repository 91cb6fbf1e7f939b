package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/musichub/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"

	minExpandedWidth = 40
)

func barStyle() lipgloss.Style {
	return styles.PanelStyle(false)
}

func titleStyle() lipgloss.Style {
	return styles.T().S().Title
}

func artistStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func metaStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

func toggleOnStyle() lipgloss.Style {
	return styles.T().S().Playing
}

func scrubStyle() lipgloss.Style {
	return styles.T().S().Warning
}

func progressTimeStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func progressBarFilled(scrubbing bool) lipgloss.Style {
	if scrubbing {
		return lipgloss.NewStyle().Foreground(styles.T().Warning)
	}
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func progressBarEmpty() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().FgSubtle)
}
