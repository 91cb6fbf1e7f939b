//go:build linux

package mpris

import (
	"fmt"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/musichub/internal/message"
)

// Refresh implements session.Surface. Properties are read on demand,
// so only visibility is tracked.
func (a *Adapter) Refresh(s message.State) {
	a.player.hidden.Store(!s.HasTrack())
}

// Hide implements session.Surface.
func (a *Adapter) Hide() {
	a.player.hidden.Store(true)
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	ctrl   Controller
	hidden atomic.Bool
}

func (p *playerAdapter) submit(action message.CommandAction) error {
	p.ctrl.Submit(message.NewCommand(action, nil))
	return nil
}

func (p *playerAdapter) state() message.State {
	if p.hidden.Load() {
		return message.State{}
	}
	return p.ctrl.State()
}

func (p *playerAdapter) Next() error { return p.submit(message.CmdNext) }
func (p *playerAdapter) Previous() error { return p.submit(message.CmdPrevious) }
func (p *playerAdapter) Pause() error { return p.submit(message.CmdPause) }
func (p *playerAdapter) PlayPause() error { return p.submit(message.CmdToggle) }

// Stop ends the session.
func (p *playerAdapter) Stop() error { return p.submit(message.CmdClose) }

func (p *playerAdapter) Play() error { return p.submit(message.CmdResume) }

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	s := p.state()
	if !s.HasTrack() {
		return nil
	}
	pos := int64(s.PositionMs) + int64(offset)/1000
	p.ctrl.Submit(message.Seek(uint64(max(0, pos))))
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.ctrl.Submit(message.Seek(uint64(max(0, int64(position)/1000))))
	return nil
}

//nolint:revive // name fixed by the server interface
func (p *playerAdapter) OpenUri(string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	s := p.state()
	switch {
	case !s.HasTrack():
		return types.PlaybackStatusStopped, nil
	case s.IsPlaying:
		return types.PlaybackStatusPlaying, nil
	default:
		return types.PlaybackStatusPaused, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) SetRate(float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.state()
	if !s.HasTrack() {
		return types.Metadata{}, nil
	}
	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.TrackID)),
		Length:  types.Microseconds(s.DurationMs * 1000),
		Title:   s.Title,
		Artist:  []string{s.Artist},
		ArtUrl:  s.ImageURI,
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) { return 1.0, nil }
func (p *playerAdapter) SetVolume(float64) error { return nil }
func (p *playerAdapter) Position() (int64, error) { return int64(p.state().PositionMs) * 1000, nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) CanGoNext() (bool, error) { return p.state().HasTrack(), nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return p.state().HasTrack(), nil }
func (p *playerAdapter) CanPlay() (bool, error) { return p.state().HasTrack(), nil }
func (p *playerAdapter) CanPause() (bool, error) { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error) { return true, nil }
func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.state().IsLoopEnabled {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Playlist looping is not supported and maps to track loop.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	if status == types.LoopStatusNone {
		return p.submit(message.CmdLoopOff)
	}
	return p.submit(message.CmdLoopOn)
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) { return p.state().IsShuffleEnabled, nil }

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	if shuffle {
		return p.submit(message.CmdShuffleOn)
	}
	return p.submit(message.CmdShuffleOff)
}

func formatTrackID(id int64) string {
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", id)
}
