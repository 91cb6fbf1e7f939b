package session

import (
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/message"
)

// Host keeps at most one live Owner. A PLAY arriving after the session
// closed starts a fresh one, so callers can hold the Host for the whole
// process lifetime.
type Host struct {
	deps Deps
	opts []Option
	log  logrus.FieldLogger

	mu      sync.Mutex
	live    *hosted
	closing *hosted
	closed  bool
	wg      sync.WaitGroup
}

type hosted struct {
	owner *Owner
	// gone is closed after SessionClosed was published for owner.
	gone chan struct{}
}

// NewHost creates a host. No owner runs until the first PLAY.
func NewHost(deps Deps, opts ...Option) *Host {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Host{
		deps: deps,
		opts: opts,
		log:  log.WithField("component", "host"),
	}
}

// AddSurface registers a surface for sessions started after the call.
// Surfaces that submit commands back to the host are built after it.
func (h *Host) AddSurface(s Surface) {
	h.mu.Lock()
	h.deps.Surfaces = append(slices.Clip(h.deps.Surfaces), s)
	h.mu.Unlock()
}

// Submit routes cmd to the live owner.
func (h *Host) Submit(cmd message.Command) {
	if o := h.route(cmd); o != nil {
		o.Submit(cmd)
	}
}

func (h *Host) route(cmd message.Command) *Owner {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.log.WithField("action", cmd.Action).Debug("command dropped: host closed")
		return nil
	}
	if h.live != nil && !h.live.owner.Closed() {
		o := h.live.owner
		if cmd.Action == message.CmdClose {
			h.closing, h.live = h.live, nil
		}
		return o
	}
	if h.live != nil {
		h.closing, h.live = h.live, nil
	}

	switch cmd.Action {
	case message.CmdPlay:
		h.start()
		return h.live.owner
	case message.CmdGetCurrentSong:
		h.deps.Bus.Publish(message.CurrentSong(message.State{}))
	default:
		h.log.WithField("action", cmd.Action).Debug("command dropped: no session")
	}
	return nil
}

// start must be called with h.mu held. It waits for a closing owner to
// finish so two sessions never hold the engine at once.
func (h *Host) start() {
	if h.closing != nil {
		<-h.closing.gone
		h.closing = nil
	}
	s := &hosted{owner: New(h.deps, h.opts...), gone: make(chan struct{})}
	h.live = s
	h.log.Debug("session started")

	h.wg.Go(func() {
		<-s.owner.Done()
		h.deps.Bus.Publish(message.SessionClosed{})
		close(s.gone)

		h.mu.Lock()
		if h.live == s {
			h.live = nil
		}
		h.mu.Unlock()
	})
}

// State returns the live session state, or the zero state.
func (h *Host) State() message.State {
	h.mu.Lock()
	s := h.live
	h.mu.Unlock()
	if s == nil {
		return message.State{}
	}
	return s.owner.State()
}

// Active reports whether a session is running.
func (h *Host) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live != nil && !h.live.owner.Closed()
}

// Close ends the live session, if any, and rejects later commands.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	s := h.live
	h.mu.Unlock()

	if s != nil {
		s.owner.Close()
	}
	h.wg.Wait()
}
