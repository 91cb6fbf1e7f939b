package app

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/musichub/internal/errmsg"
	"github.com/llehouerou/musichub/internal/replica"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case StateMsg:
		// The view reads replica state directly; only re-arm the wait.
		return m, waitState(m.replicaNamed(msg.Replica))

	case DownloadMsg:
		cmd := waitDownload(m.replicaNamed(msg.Replica))
		// Both replicas see the event; the mini player is always attached.
		if msg.Replica != m.mini.Name() {
			return m, cmd
		}
		return m.showNotice("downloaded "+filepath.Base(msg.FilePath), false, cmd)

	case FavoriteResultMsg:
		if msg.Err != nil {
			return m.showNotice(errmsg.Format(errmsg.OpFavoriteToggle, msg.Err), true, nil)
		}
		return m, nil

	case NoticeMsg:
		return m.showNotice(msg.Text, msg.IsError, nil)

	case NoticeExpiredMsg:
		if msg.Version == m.noticeVersion {
			m.Notice = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) replicaNamed(name string) *replica.Replica {
	if name == m.full.Name() {
		return m.full
	}
	return m.mini
}

func (m Model) showNotice(text string, isError bool, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.noticeVersion++
	m.Notice = text
	m.NoticeIsError = isError
	return m, tea.Batch(cmd, expireNotice(m.noticeVersion))
}
