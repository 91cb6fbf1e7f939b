package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/llehouerou/musichub/internal/bus"
	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/engine"
	"github.com/llehouerou/musichub/internal/message"
)

// fakeCatalog serves a fixed sequence and counts lookups.
type fakeCatalog struct {
	mu     sync.Mutex
	tracks []catalog.Track
	random int64
	calls  int
}

func newFakeCatalog(ids ...int64) *fakeCatalog {
	c := &fakeCatalog{}
	for _, id := range ids {
		c.tracks = append(c.tracks, catalog.Track{
			ID:       id,
			Title:    fmt.Sprintf("Song %d", id),
			Artists:  []string{"Artist"},
			MediaURI: fmt.Sprintf("song%d.mp3", id),
			Duration: 3 * time.Minute,
		})
	}
	return c
}

func (c *fakeCatalog) index(id int64) int {
	for i, t := range c.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *fakeCatalog) ByID(id int64) (catalog.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if i := c.index(id); i >= 0 {
		return c.tracks[i], true
	}
	return catalog.Track{}, false
}

func (c *fakeCatalog) Next(id int64) (catalog.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	i := c.index(id) + 1
	if i >= len(c.tracks) {
		return catalog.Track{}, false
	}
	return c.tracks[i], true
}

func (c *fakeCatalog) Previous(id int64) (catalog.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	i := c.index(id)
	if i < 0 {
		i = len(c.tracks)
	}
	if i-1 < 0 {
		return catalog.Track{}, false
	}
	return c.tracks[i-1], true
}

func (c *fakeCatalog) Random() (catalog.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if i := c.index(c.random); i >= 0 {
		return c.tracks[i], true
	}
	return catalog.Track{}, false
}

func (c *fakeCatalog) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *fakeCatalog) ResetCalls() {
	c.mu.Lock()
	c.calls = 0
	c.mu.Unlock()
}

func (c *fakeCatalog) SetRandom(id int64) {
	c.mu.Lock()
	c.random = id
	c.mu.Unlock()
}

// recorder fakes the favorite, listen and download collaborators.
type recorder struct {
	mu         sync.Mutex
	favorites  map[int64]bool
	favErr     error
	listens    []int64
	downloads  []int64
	listenErr  error
	enqueueErr error
}

func newRecorder() *recorder {
	return &recorder{favorites: make(map[int64]bool)}
}

func (r *recorder) IsFavorite(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.favorites[id], r.favErr
}

func (r *recorder) RecordListen(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listenErr != nil {
		return r.listenErr
	}
	r.listens = append(r.listens, id)
	return nil
}

func (r *recorder) Enqueue(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloads = append(r.downloads, id)
	return r.enqueueErr
}

func (r *recorder) Listens() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.listens...)
}

func (r *recorder) Downloads() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.downloads...)
}

var errFavoriteDown = errors.New("favorite service down")

// fakeSurface records refreshes and hides.
type fakeSurface struct {
	mu        sync.Mutex
	refreshes []message.State
	hidden    int
}

func (s *fakeSurface) Refresh(st message.State) {
	s.mu.Lock()
	s.refreshes = append(s.refreshes, st)
	s.mu.Unlock()
}

func (s *fakeSurface) Hide() {
	s.mu.Lock()
	s.hidden++
	s.mu.Unlock()
}

func (s *fakeSurface) Last() (message.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.refreshes) == 0 {
		return message.State{}, false
	}
	return s.refreshes[len(s.refreshes)-1], true
}

func (s *fakeSurface) Hidden() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

// harness wires an owner to fakes. Create it inside a synctest bubble.
type harness struct {
	engine  *engine.Mock
	catalog *fakeCatalog
	rec     *recorder
	surface *fakeSurface
	bus     *bus.Channel[message.Message]
	sub     *bus.Subscription[message.Message]
	hook    *test.Hook
	deps    Deps
}

func newHarness(t *testing.T, ids ...int64) *harness {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	h := &harness{
		engine:  engine.NewMock(),
		catalog: newFakeCatalog(ids...),
		rec:     newRecorder(),
		surface: &fakeSurface{},
		bus:     bus.New[message.Message](),
		hook:    hook,
	}
	h.sub = h.bus.Subscribe()
	h.deps = Deps{
		Engine:    h.engine,
		Catalog:   h.catalog,
		Bus:       h.bus,
		Favorites: h.rec,
		Downloads: h.rec,
		Surfaces:  []Surface{h.surface},
		Logger:    logger,
	}
	return h
}

func (h *harness) newOwner(t *testing.T, opts ...Option) *Owner {
	t.Helper()
	o := New(h.deps, opts...)
	t.Cleanup(o.Close)
	return o
}

// drain returns every message delivered so far, once the bubble is idle.
func (h *harness) drain() []message.Message {
	synctest.Wait()
	var out []message.Message
	for {
		select {
		case m := <-h.sub.C:
			out = append(out, m)
		default:
			return out
		}
	}
}

// ready fires Ready on the most recent engine instance.
func (h *harness) ready() {
	synctest.Wait()
	h.engine.Last().Fire(engine.SignalReady)
}

func (h *harness) errorCount() int {
	n := 0
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			n++
		}
	}
	return n
}

func names(msgs []message.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch v := m.(type) {
		case message.Event:
			out = append(out, string(v.Action))
		default:
			out = append(out, fmt.Sprintf("%T", v))
		}
	}
	return out
}

func find(msgs []message.Message, action message.EventAction) (message.Event, bool) {
	for _, m := range msgs {
		if ev, ok := m.(message.Event); ok && ev.Action == action {
			return ev, true
		}
	}
	return message.Event{}, false
}

func songID(ev message.Event) int64 {
	id, _ := ev.Payload.Int64(message.KeySongID)
	return id
}

func play(id int64) message.PlayArgs {
	return message.PlayArgs{
		SongID:   id,
		MediaURI: fmt.Sprintf("song%d.mp3", id),
		Title:    fmt.Sprintf("Song %d", id),
		Artist:   "Artist",
	}
}
