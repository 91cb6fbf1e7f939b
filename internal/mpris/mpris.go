//go:build linux

// Package mpris exposes the playback session over the MPRIS D-Bus
// interface so desktop media keys and lock-screen widgets can drive it.
package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/sirupsen/logrus"
)

// Adapter connects a session Controller to MPRIS over D-Bus.
// It also acts as a transport surface of the session.
type Adapter struct {
	server *server.Server
	player *playerAdapter
	log    logrus.FieldLogger
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller, log logrus.FieldLogger) (*Adapter, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Adapter{
		player: &playerAdapter{ctrl: ctrl},
		log:    log.WithField("component", "mpris"),
	}
	a.server = server.NewServer(busName, identity{}, a.player)

	go a.listen()
	return a, nil
}

func (a *Adapter) listen() {
	if err := a.server.Listen(); err != nil {
		a.log.WithError(err).Warn("mpris server stopped")
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// identity answers the org.mpris.MediaPlayer2 root interface. The
// player has no window and its lifetime belongs to the terminal, so
// Raise and Quit are refused.
type identity struct{}

const busName = "musichub"

var (
	uriSchemes = []string{"file", "http", "https"}
	mimeTypes  = []string{"audio/mpeg", "audio/flac"}
)

func (identity) Raise() error { return nil }
func (identity) Quit() error { return nil }
func (identity) CanQuit() (bool, error) { return false, nil }
func (identity) CanRaise() (bool, error) { return false, nil }
func (identity) HasTrackList() (bool, error) { return false, nil }
func (identity) Identity() (string, error) { return busName, nil }
func (identity) SupportedMimeTypes() ([]string, error) { return mimeTypes, nil }

//nolint:revive // name fixed by the server interface
func (identity) SupportedUriSchemes() ([]string, error) { return uriSchemes, nil }
