package session

import (
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musichub/internal/message"
)

func TestHost_SnapshotWithoutSession(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t, 1)
		host := NewHost(h.deps)
		defer host.Close()

		host.Submit(message.NewCommand(message.CmdGetCurrentSong, nil))
		msgs := h.drain()
		require.Equal(t, []string{"CURRENT_SONG"}, names(msgs))
		assert.Equal(t, message.State{}, message.StateFromArgs(msgs[0].(message.Event).Payload))

		host.Submit(message.NewCommand(message.CmdPause, nil))
		assert.Empty(t, h.drain())
		assert.False(t, host.Active())
	})
}

func TestHost_PlayAfterCloseStartsFreshSession(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t, 1, 2)
		host := NewHost(h.deps)
		defer host.Close()

		host.Submit(message.Play(play(1)))
		h.ready()
		h.drain()
		assert.True(t, host.Active())
		assert.Equal(t, int64(1), host.State().TrackID)

		host.Submit(message.NewCommand(message.CmdClose, nil))
		msgs := h.drain()
		assert.Equal(t, []string{"message.SessionClosed"}, names(msgs))
		assert.False(t, host.Active())
		assert.Equal(t, message.State{}, host.State())
		assert.Equal(t, 1, h.surface.Hidden())

		host.Submit(message.NewCommand(message.CmdNext, nil))
		assert.Empty(t, h.drain())

		host.Submit(message.Play(play(2)))
		h.ready()
		assert.Equal(t, []string{"LOADING", "LOADED"}, names(h.drain()))
		assert.Equal(t, int64(2), host.State().TrackID)
		assert.Equal(t, 1, h.engine.MaxLive())
	})
}

func TestHost_CloseRejectsLaterCommands(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t, 1)
		host := NewHost(h.deps)

		host.Submit(message.Play(play(1)))
		h.ready()
		h.drain()

		host.Close()
		assert.Equal(t, []string{"message.SessionClosed"}, names(h.drain()))
		assert.Equal(t, 0, h.engine.Live())

		host.Submit(message.Play(play(1)))
		assert.Empty(t, h.drain())
		assert.Len(t, h.engine.Loads(), 1)
		host.Close()
	})
}

func TestHost_AddedSurfaceJoinsNextSession(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t, 1)
		host := NewHost(h.deps)
		defer host.Close()

		extra := &fakeSurface{}
		host.AddSurface(extra)

		host.Submit(message.Play(play(1)))
		h.ready()
		h.drain()

		last, ok := extra.Last()
		require.True(t, ok)
		assert.Equal(t, int64(1), last.TrackID)
		_, ok = h.surface.Last()
		assert.True(t, ok)
	})
}
