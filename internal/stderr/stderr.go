//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, oto) write
// straight to file descriptor 2, so it cannot corrupt the terminal UI.
// Captured lines are forwarded to the logger.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Capture is an active redirection of file descriptor 2.
type Capture struct {
	orig int
	r, w *os.File
	log  logrus.FieldLogger

	once sync.Once
	done chan struct{}
}

// Start redirects stderr into a pipe. It must run before the audio
// device is opened. The logger must not write to stderr itself.
func Start(log logrus.FieldLogger) (*Capture, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		orig: orig,
		r:    r,
		w:    w,
		log:  log.WithField("component", "stderr"),
		done: make(chan struct{}),
	}
	go c.forward()
	return c, nil
}

func (c *Capture) forward() {
	defer close(c.done)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			c.log.Warn(line)
		}
	}
}

// WriteOriginal writes msg to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores stderr and waits until every captured line was logged.
func (c *Capture) Stop() {
	c.once.Do(func() {
		_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = unix.Close(c.orig)
		c.w.Close()
		<-c.done
		c.r.Close()
	})
}
