package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/musichub/internal/errmsg"
	"github.com/llehouerou/musichub/internal/keymap"
)

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	r := m.active()

	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		r.EndDrag(false)
		r.Close()
		return m, tea.Quit

	case keymap.ActionToggleFull:
		return m.toggleFull(), nil

	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
		m.help.ShowAll = m.ShowHelp

	case keymap.ActionPlayPause:
		r.TogglePlay()
	case keymap.ActionNextTrack:
		r.Next()
	case keymap.ActionPrevTrack:
		r.Previous()
	case keymap.ActionToggleLoop:
		r.ToggleLoop()
	case keymap.ActionToggleShuffle:
		r.ToggleShuffle()
	case keymap.ActionCloseSession:
		r.Close()

	case keymap.ActionToggleFavorite:
		if !r.State().HasTrack() {
			return m, nil
		}
		return m, toggleFavorite(r)

	case keymap.ActionDownload:
		if err := r.Download(); err != nil {
			return m.showNotice(errmsg.Format(errmsg.OpDownloadQueue, err), true, nil)
		}
		return m.showNotice("download requested", false, nil)

	case keymap.ActionScrubBack:
		m.scrub(-scrubStepMs)
	case keymap.ActionScrubForward:
		m.scrub(scrubStepMs)
	case keymap.ActionScrubCommit:
		r.EndDrag(true)
	case keymap.ActionScrubCancel:
		r.EndDrag(false)
	}
	return m, nil
}

// toggleFull shows or hides the full player. Its replica is only
// attached while the pane is visible.
func (m Model) toggleFull() Model {
	m.active().EndDrag(false)
	if m.ShowFull {
		m.full.Detach()
	} else {
		m.full.Attach()
	}
	m.ShowFull = !m.ShowFull
	return m
}

// scrub moves the local position of the active replica without seeking.
// The seek is sent when the scrub is committed.
func (m Model) scrub(deltaMs int64) {
	r := m.active()
	st := r.State()
	if !st.HasTrack() {
		return
	}
	if !r.Dragging() {
		r.BeginDrag()
	}
	pos := max(int64(st.PositionMs)+deltaMs, 0)
	if st.DurationMs > 0 {
		pos = min(pos, int64(st.DurationMs))
	}
	r.DragTo(uint64(pos))
}
