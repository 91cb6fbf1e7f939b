package notify

import (
	"sync"
	"testing"
	"testing/synctest"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musichub/internal/message"
)

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []Notification
	closed  []uint32
	nextID  uint32
	actions chan Invocation
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{nextID: 41, actions: make(chan Invocation, 4)}
}

func (f *fakeNotifier) Notify(n Notification) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeNotifier) Close(id uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeNotifier) Invocations() <-chan Invocation { return f.actions }

func (f *fakeNotifier) Sent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.sent...)
}

func (f *fakeNotifier) Closed() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.closed...)
}

type commands struct {
	mu  sync.Mutex
	got []message.CommandAction
}

func (c *commands) Submit(cmd message.Command) {
	c.mu.Lock()
	c.got = append(c.got, cmd.Action)
	c.mu.Unlock()
}

func (c *commands) Actions() []message.CommandAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]message.CommandAction(nil), c.got...)
}

func TestSurface_RefreshReplacesNotification(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n := newFakeNotifier()
		logger, _ := test.NewNullLogger()
		s := NewSurface(n, &commands{}, logger)
		defer s.Close()

		s.Refresh(message.State{TrackID: 1, Title: "One", Artist: "A", IsPlaying: true})
		synctest.Wait()
		s.Refresh(message.State{TrackID: 1, Title: "One", Artist: "A"})
		synctest.Wait()

		sent := n.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "One", sent[0].Title)
		assert.Equal(t, "A", sent[0].Body)
		assert.Equal(t, "Pause", sent[0].Actions[1].Label)
		assert.Equal(t, "Play", sent[1].Actions[1].Label)
		assert.Equal(t, uint32(42), sent[1].ReplacesID)
		assert.Equal(t, uint32(42), s.ID())
	})
}

func TestSurface_HideClosesNotification(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n := newFakeNotifier()
		s := NewSurface(n, &commands{}, nil)
		defer s.Close()

		s.Hide()
		synctest.Wait()
		assert.Empty(t, n.Closed(), "nothing shown yet")

		s.Refresh(message.State{TrackID: 1, Title: "One"})
		synctest.Wait()
		s.Hide()
		synctest.Wait()
		assert.Equal(t, []uint32{42}, n.Closed())
		assert.Equal(t, uint32(0), s.ID())

		s.Refresh(message.State{TrackID: 2, Title: "Two"})
		synctest.Wait()
		sent := n.Sent()
		assert.Equal(t, uint32(0), sent[len(sent)-1].ReplacesID)
	})
}

func TestSurface_ActionsBecomeCommands(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n := newFakeNotifier()
		cmds := &commands{}
		s := NewSurface(n, cmds, nil)
		defer s.Close()

		n.actions <- Invocation{ID: 42, Key: ActionNext}
		synctest.Wait()
		assert.Empty(t, cmds.Actions(), "no notification shown yet")

		s.Refresh(message.State{TrackID: 1, Title: "One"})
		synctest.Wait()

		for _, key := range []string{ActionToggle, ActionPrevious, ActionNext, "bogus", ActionClose} {
			n.actions <- Invocation{ID: 42, Key: key}
		}
		n.actions <- Invocation{ID: 7, Key: ActionNext}
		synctest.Wait()

		assert.Equal(t, []message.CommandAction{
			message.CmdToggle, message.CmdPrevious, message.CmdNext, message.CmdClose,
		}, cmds.Actions())
	})
}
