//go:build !linux

package mpris

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/message"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Controller, _ logrus.FieldLogger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Refresh is a no-op on non-Linux platforms.
func (a *Adapter) Refresh(_ message.State) {}

// Hide is a no-op on non-Linux platforms.
func (a *Adapter) Hide() {}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
