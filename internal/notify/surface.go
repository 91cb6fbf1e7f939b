package notify

import (
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/message"
)

// Action keys sent back by the notification server.
const (
	ActionToggle   = "toggle"
	ActionPrevious = "previous"
	ActionNext     = "next"
	ActionClose    = "close"
)

const defaultIcon = "audio-x-generic"

// Submitter accepts session commands.
type Submitter interface {
	Submit(cmd message.Command)
}

type update struct {
	state message.State
	hide  bool
}

// Surface mirrors the playback state in one persistent notification and
// turns its buttons into session commands. Refresh and Hide never block;
// only the latest pending update is rendered.
type Surface struct {
	notifier Notifier
	owner    Submitter
	log      logrus.FieldLogger

	updates chan update
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup

	mu sync.Mutex
	id uint32
}

// NewSurface starts the render and action goroutines.
func NewSurface(n Notifier, owner Submitter, log logrus.FieldLogger) *Surface {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Surface{
		notifier: n,
		owner:    owner,
		log:      log.WithField("component", "notify"),
		updates:  make(chan update, 1),
		done:     make(chan struct{}),
	}
	s.wg.Go(s.render)
	if inv := n.Invocations(); inv != nil {
		s.wg.Go(func() { s.listen(inv) })
	}
	return s
}

// Refresh shows s, replacing any update not rendered yet.
func (s *Surface) Refresh(st message.State) {
	s.push(update{state: st})
}

// Hide removes the notification.
func (s *Surface) Hide() {
	s.push(update{hide: true})
}

func (s *Surface) push(u update) {
	for {
		select {
		case s.updates <- u:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Close hides the notification and stops the goroutines.
func (s *Surface) Close() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.mu.Lock()
		id := s.id
		s.id = 0
		s.mu.Unlock()
		if id != 0 {
			_ = s.notifier.Close(id)
		}
	})
}

// ID returns the id of the notification currently shown, or 0.
func (s *Surface) ID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Surface) render() {
	for {
		select {
		case <-s.done:
			return
		case u := <-s.updates:
			s.apply(u)
		}
	}
}

func (s *Surface) apply(u update) {
	s.mu.Lock()
	id := s.id
	s.mu.Unlock()

	if u.hide || !u.state.HasTrack() {
		if id == 0 {
			return
		}
		if err := s.notifier.Close(id); err != nil {
			s.log.WithError(err).Debug("closing notification")
		}
		s.mu.Lock()
		s.id = 0
		s.mu.Unlock()
		return
	}

	newID, err := s.notifier.Notify(build(u.state, id))
	if err != nil {
		s.log.WithError(err).Warn("notification failed")
		return
	}
	s.mu.Lock()
	s.id = newID
	s.mu.Unlock()
}

func (s *Surface) listen(inv <-chan Invocation) {
	for {
		select {
		case <-s.done:
			return
		case i, ok := <-inv:
			if !ok {
				return
			}
			s.invoke(i)
		}
	}
}

func (s *Surface) invoke(i Invocation) {
	if cur := s.ID(); cur == 0 || i.ID != cur {
		return
	}
	var action message.CommandAction
	switch i.Key {
	case ActionToggle:
		action = message.CmdToggle
	case ActionPrevious:
		action = message.CmdPrevious
	case ActionNext:
		action = message.CmdNext
	case ActionClose:
		action = message.CmdClose
	default:
		s.log.WithField("key", i.Key).Debug("unknown notification action")
		return
	}
	s.owner.Submit(message.NewCommand(action, nil))
}

func build(st message.State, replaces uint32) Notification {
	toggle := "Play"
	if st.IsPlaying {
		toggle = "Pause"
	}
	return Notification{
		Title:      st.Title,
		Body:       st.Artist,
		Icon:       iconFor(st.ImageURI),
		Timeout:    0,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
		Actions: []Action{
			{Key: ActionPrevious, Label: "Previous"},
			{Key: ActionToggle, Label: toggle},
			{Key: ActionNext, Label: "Next"},
			{Key: ActionClose, Label: "Close"},
		},
	}
}

// iconFor returns a local path for file images and a themed icon otherwise.
func iconFor(imageURI string) string {
	if imageURI == "" {
		return defaultIcon
	}
	if strings.HasPrefix(imageURI, "file://") {
		if u, err := url.Parse(imageURI); err == nil {
			return u.Path
		}
	}
	if strings.HasPrefix(imageURI, "/") {
		return imageURI
	}
	return defaultIcon
}
