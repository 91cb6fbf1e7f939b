//go:build windows

// Package stderr is a no-op on Windows, where the audio backend does not
// write to the console.
package stderr

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Capture does nothing on Windows.
type Capture struct{}

// Start returns a no-op capture.
func Start(_ logrus.FieldLogger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes msg to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing on Windows.
func (c *Capture) Stop() {}
