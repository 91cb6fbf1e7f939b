package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/musichub/internal/message"
	"github.com/llehouerou/musichub/internal/replica"
)

const noticeTTL = 4 * time.Second

// StateMsg reports that a replica's state changed.
type StateMsg struct {
	Replica string
	State   message.State
}

// DownloadMsg reports a finished download seen by a replica.
type DownloadMsg struct {
	Replica  string
	SongID   int64
	FilePath string
}

// FavoriteResultMsg carries the outcome of a favorite toggle.
type FavoriteResultMsg struct {
	Err error
}

// NoticeMsg shows a transient notice.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// NoticeExpiredMsg hides the notice it was scheduled for.
type NoticeExpiredMsg struct {
	Version int
}

func waitState(r *replica.Replica) tea.Cmd {
	return func() tea.Msg {
		s := <-r.Updates()
		return StateMsg{Replica: r.Name(), State: s}
	}
}

func waitDownload(r *replica.Replica) tea.Cmd {
	return func() tea.Msg {
		ev := <-r.Downloads()
		id, _ := ev.Payload.Int64(message.KeySongID)
		path, _ := ev.Payload.String(message.KeyFilePath)
		return DownloadMsg{Replica: r.Name(), SongID: id, FilePath: path}
	}
}

func toggleFavorite(r *replica.Replica) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return FavoriteResultMsg{Err: r.ToggleFavorite(ctx)}
	}
}

func notice(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: text, IsError: isError}
	}
}

func expireNotice(version int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Version: version}
	})
}
