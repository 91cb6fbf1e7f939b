package replica

import (
	"testing"

	"github.com/llehouerou/musichub/internal/message"
)

func playing() message.State {
	return message.State{
		TrackID:    1,
		Title:      "One",
		Artist:     "A",
		PositionMs: 1000,
		DurationMs: 5000,
		IsPlaying:  true,
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		in   message.State
		msg  message.Message
		want message.State
	}{
		{
			name: "loading leaves state",
			in:   playing(),
			msg:  message.NewEvent(message.EvtLoading, nil),
			want: playing(),
		},
		{
			name: "paused clears playing",
			in:   playing(),
			msg:  message.NewEvent(message.EvtPaused, nil),
			want: func() message.State { s := playing(); s.IsPlaying = false; return s }(),
		},
		{
			name: "completed clears playing",
			in:   playing(),
			msg:  message.NewEvent(message.EvtCompleted, nil),
			want: func() message.State { s := playing(); s.IsPlaying = false; return s }(),
		},
		{
			name: "resumed without track stays stopped",
			in:   message.State{},
			msg:  message.NewEvent(message.EvtResumed, nil),
			want: message.State{},
		},
		{
			name: "position update merges only position fields",
			in:   playing(),
			msg:  message.PositionUpdate(2500, 5000),
			want: func() message.State { s := playing(); s.PositionMs = 2500; return s }(),
		},
		{
			name: "next replaces track fields and keeps missing ones",
			in:   func() message.State { s := playing(); s.IsFavorite = true; return s }(),
			msg: message.NewEvent(message.EvtNext, message.Args{
				message.KeySongID: int64(2),
				message.KeyTitle:  "Two",
			}),
			want: func() message.State {
				s := playing()
				s.TrackID, s.Title, s.IsFavorite = 2, "Two", true
				return s
			}(),
		},
		{
			name: "current song replaces everything",
			in:   playing(),
			msg:  message.CurrentSong(message.State{TrackID: 3, Title: "Three", IsLoopEnabled: true}),
			want: message.State{TrackID: 3, Title: "Three", IsLoopEnabled: true},
		},
		{
			name: "loop and shuffle flags",
			in:   playing(),
			msg:  message.LoopEvent(true),
			want: func() message.State { s := playing(); s.IsLoopEnabled = true; return s }(),
		},
		{
			name: "shuffle off",
			in:   func() message.State { s := playing(); s.IsShuffleEnabled = true; return s }(),
			msg:  message.ShuffleEvent(false),
			want: playing(),
		},
		{
			name: "favorite for current track",
			in:   playing(),
			msg:  message.FavoriteEvent(1, true),
			want: func() message.State { s := playing(); s.IsFavorite = true; return s }(),
		},
		{
			name: "favorite for another track",
			in:   playing(),
			msg:  message.FavoriteEvent(7, true),
			want: playing(),
		},
		{
			name: "favorite domain event",
			in:   func() message.State { s := playing(); s.IsFavorite = true; return s }(),
			msg:  message.FavoriteChanged{TrackID: 1, Favorite: false},
			want: playing(),
		},
		{
			name: "download complete leaves state",
			in:   playing(),
			msg:  message.DownloadComplete(1, "/tmp/x.mp3"),
			want: playing(),
		},
		{
			name: "session closed resets",
			in:   playing(),
			msg:  message.SessionClosed{},
			want: message.State{},
		},
		{
			name: "listen recorded leaves state",
			in:   playing(),
			msg:  message.ListenRecorded{TrackID: 1},
			want: playing(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.in, tt.msg); got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
