package app

import (
	"strings"

	"github.com/llehouerou/musichub/internal/ui/overlay"
	"github.com/llehouerou/musichub/internal/ui/playerbar"
	"github.com/llehouerou/musichub/internal/ui/styles"
)

// View renders the player UI.
func (m Model) View() string {
	var sections []string

	if m.ShowFull {
		st := playerbar.NewState(m.full.State(), m.full.Dragging())
		full := playerbar.Render(st, playerbar.ModeExpanded, m.Width)
		if full == "" {
			full = m.renderIdle()
		}
		sections = append(sections, full)
	}

	mini := playerbar.Render(playerbar.NewState(m.mini.State(), m.mini.Dragging()), playerbar.ModeCompact, m.Width)
	if mini == "" && !m.ShowFull {
		mini = m.renderIdle()
	}
	if mini != "" {
		sections = append(sections, mini)
	}

	sections = append(sections, m.help.View(m.helpKeys))
	view := strings.Join(sections, "\n")

	if m.Notice != "" {
		toast := styles.ToastStyle(m.NoticeIsError).Render(m.Notice)
		view = overlay.TopRight(view, toast, m.Width)
	}
	return view
}

func (m Model) renderIdle() string {
	msg := styles.T().S().Muted.Render("Nothing playing")
	return styles.PanelStyle(false).Padding(0, 2).Width(max(m.Width-2, 0)).Render(msg)
}
