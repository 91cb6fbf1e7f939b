// Package replica keeps a surface-local copy of the playback state,
// rebuilt from bus events and repaired by snapshot requests.
package replica

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/bus"
	"github.com/llehouerou/musichub/internal/message"
)

// ErrNoTrack is returned by commands that need a current track.
var ErrNoTrack = errors.New("no current track")

const downloadBuffer = 8

// Submitter accepts session commands.
type Submitter interface {
	Submit(cmd message.Command)
}

// FavoriteSetter confirms favorite changes.
type FavoriteSetter interface {
	SetFavorite(ctx context.Context, trackID int64, favorite bool) (bool, error)
}

// Replica is one surface's view of the playback state.
type Replica struct {
	name      string
	bus       *bus.Channel[message.Message]
	owner     Submitter
	favorites FavoriteSetter
	log       logrus.FieldLogger

	updates   chan message.State
	downloads chan message.Event

	mu       sync.Mutex
	state    message.State
	dragging bool
	sub      *bus.Subscription[message.Message]
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New creates a detached replica named after its surface.
func New(name string, b *bus.Channel[message.Message], owner Submitter, favorites FavoriteSetter, log logrus.FieldLogger) *Replica {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Replica{
		name:      name,
		bus:       b,
		owner:     owner,
		favorites: favorites,
		log:       log.WithFields(logrus.Fields{"component": "replica", "replica": name}),
		updates:   make(chan message.State, 1),
		downloads: make(chan message.Event, downloadBuffer),
	}
}

// Name returns the surface name.
func (r *Replica) Name() string { return r.name }

// Attach subscribes to the bus and requests a snapshot. Attaching twice
// is a no-op.
func (r *Replica) Attach() {
	r.mu.Lock()
	if r.sub != nil {
		r.mu.Unlock()
		r.log.Debug("already attached")
		return
	}
	sub := r.bus.Subscribe()
	stop := make(chan struct{})
	r.sub, r.stop = sub, stop
	r.wg.Go(func() { r.loop(sub, stop) })
	r.mu.Unlock()

	r.owner.Submit(message.NewCommand(message.CmdGetCurrentSong, nil))
}

// Detach unsubscribes. Detaching when not attached logs a warning.
func (r *Replica) Detach() {
	r.mu.Lock()
	sub, stop := r.sub, r.stop
	r.sub, r.stop = nil, nil
	r.dragging = false
	r.mu.Unlock()

	if sub == nil {
		r.log.Warn("detach without attach")
		return
	}
	if err := r.bus.Unsubscribe(sub); err != nil {
		r.log.WithError(err).Warn("unsubscribe failed")
	}
	close(stop)
	r.wg.Wait()
}

// Attached reports whether the replica is subscribed.
func (r *Replica) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub != nil
}

func (r *Replica) loop(sub *bus.Subscription[message.Message], stop <-chan struct{}) {
	for {
		select {
		case m := <-sub.C:
			r.receive(m)
		case <-sub.Done:
			return
		case <-stop:
			return
		}
	}
}

func (r *Replica) receive(m message.Message) {
	if ev, ok := m.(message.Event); ok && ev.Action == message.EvtDownloadComplete {
		select {
		case r.downloads <- ev:
		default:
			r.log.Debug("download notice dropped")
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ev, ok := m.(message.Event); ok && ev.Action == message.EvtPositionUpdate && r.dragging {
		return
	}
	next := Apply(r.state, m)
	if r.dragging {
		// The scrub position stays local until the drag ends.
		next.PositionMs = r.state.PositionMs
		next = next.Clamp()
	}
	if next == r.state {
		return
	}
	r.state = next
	r.notifyLocked()
}

// notifyLocked replaces any unread update with the latest state.
func (r *Replica) notifyLocked() {
	select {
	case <-r.updates:
	default:
	}
	r.updates <- r.state
}

// State returns a copy of the local state.
func (r *Replica) State() message.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Updates delivers the latest state after each change.
func (r *Replica) Updates() <-chan message.State { return r.updates }

// Downloads delivers DOWNLOAD_COMPLETE events.
func (r *Replica) Downloads() <-chan message.Event { return r.downloads }

// Drag gate

// BeginDrag stops position updates from moving the local position.
func (r *Replica) BeginDrag() {
	r.mu.Lock()
	r.dragging = true
	r.mu.Unlock()
}

// Dragging reports whether the drag gate is set.
func (r *Replica) Dragging() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dragging
}

// DragTo moves the local position only.
func (r *Replica) DragTo(posMs uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dragging {
		return
	}
	r.state.PositionMs = posMs
	r.state = r.state.Clamp()
	r.notifyLocked()
}

// EndDrag clears the gate. With commit the dragged position is sent as
// a seek; otherwise a snapshot is requested to restore the owner's position.
func (r *Replica) EndDrag(commit bool) {
	r.mu.Lock()
	wasDragging := r.dragging
	r.dragging = false
	pos := r.state.PositionMs
	r.mu.Unlock()

	switch {
	case !wasDragging:
	case commit:
		r.owner.Submit(message.Seek(pos))
	default:
		r.owner.Submit(message.NewCommand(message.CmdGetCurrentSong, nil))
	}
}

// Commands

func (r *Replica) Play(p message.PlayArgs) { r.owner.Submit(message.Play(p)) }

func (r *Replica) Pause() { r.owner.Submit(message.NewCommand(message.CmdPause, nil)) }

func (r *Replica) Resume() { r.owner.Submit(message.NewCommand(message.CmdResume, nil)) }

func (r *Replica) TogglePlay() { r.owner.Submit(message.NewCommand(message.CmdToggle, nil)) }

func (r *Replica) Seek(posMs uint64) { r.owner.Submit(message.Seek(posMs)) }

func (r *Replica) Next() { r.owner.Submit(message.NewCommand(message.CmdNext, nil)) }

func (r *Replica) Previous() { r.owner.Submit(message.NewCommand(message.CmdPrevious, nil)) }

func (r *Replica) Close() { r.owner.Submit(message.NewCommand(message.CmdClose, nil)) }

// ToggleLoop asks for the opposite of the local loop flag.
func (r *Replica) ToggleLoop() {
	action := message.CmdLoopOn
	if r.State().IsLoopEnabled {
		action = message.CmdLoopOff
	}
	r.owner.Submit(message.NewCommand(action, nil))
}

// ToggleShuffle asks for the opposite of the local shuffle flag.
func (r *Replica) ToggleShuffle() {
	action := message.CmdShuffleOn
	if r.State().IsShuffleEnabled {
		action = message.CmdShuffleOff
	}
	r.owner.Submit(message.NewCommand(action, nil))
}

// Download requests the current track's download.
func (r *Replica) Download() error {
	id := r.State().TrackID
	if id <= 0 {
		return ErrNoTrack
	}
	r.owner.Submit(message.DownloadSong(id))
	return nil
}

// ToggleFavorite flips the current track's favorite flag through the
// favorite service. The local flag changes only after the service
// confirmed; failures are returned and not retried.
func (r *Replica) ToggleFavorite(ctx context.Context) error {
	st := r.State()
	if !st.HasTrack() {
		return ErrNoTrack
	}
	got, err := r.favorites.SetFavorite(ctx, st.TrackID, !st.IsFavorite)
	if err != nil {
		r.log.WithError(err).WithField("track_id", st.TrackID).Warn("favorite update failed")
		return err
	}

	r.mu.Lock()
	if r.state.TrackID == st.TrackID && r.state.IsFavorite != got {
		r.state.IsFavorite = got
		r.notifyLocked()
	}
	r.mu.Unlock()

	r.owner.Submit(message.Favorite(st.TrackID, got))
	return nil
}
