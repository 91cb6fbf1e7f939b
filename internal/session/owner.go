// Package session owns the playback engine and the canonical playback
// state. All mutations run on one goroutine fed by a command queue and
// by the signals of the currently loaded engine instance.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/bus"
	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/engine"
	"github.com/llehouerou/musichub/internal/message"
)

// snapshot is what State and Phase read outside the owner goroutine.
type snapshot struct {
	state message.State
	phase Phase
}

// Owner is a playback session. Every method only queues a command;
// results are observed as events on the bus.
type Owner struct {
	engine    engine.Engine
	catalog   catalog.Lookup
	bus       *bus.Channel[message.Message]
	favorites FavoriteChecker
	listens   ListenRecorder
	downloads Enqueuer
	surfaces  []Surface
	log       logrus.FieldLogger
	opts      options

	cmds     chan message.Command
	done     chan struct{}
	stopping chan struct{}
	closed   atomic.Bool
	// gate lets the run goroutine wait out in-flight Submits before it
	// drains the queue for the last time.
	gate sync.RWMutex
	view   atomic.Pointer[snapshot]
	bg     sync.WaitGroup

	// owned by the run goroutine
	state     message.State
	phase     Phase
	current   message.PlayArgs
	inst      engine.Instance
	autoplay  bool
	// announced is set once an event carrying the current track went out.
	announced bool
	ticker    *time.Ticker
	loadTimer *time.Timer
}

// New creates an owner and starts its goroutine.
func New(deps Deps, opts ...Option) *Owner {
	o := &Owner{
		engine:    deps.Engine,
		catalog:   deps.Catalog,
		bus:       deps.Bus,
		favorites: deps.Favorites,
		listens:   deps.Listens,
		downloads: deps.Downloads,
		surfaces:  deps.Surfaces,
		log:       deps.Logger,
		opts: options{
			pollInterval:  DefaultPollInterval,
			loadTimeout:   DefaultLoadTimeout,
			commandBuffer: defaultCommandBuffer,
		},
		done:     make(chan struct{}),
		stopping: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&o.opts)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	o.log = o.log.WithField("component", "session")
	o.cmds = make(chan message.Command, o.opts.commandBuffer)
	o.publishView()

	go o.run()
	return o
}

// Submit queues cmd. It blocks while the queue is full and drops cmd
// once the owner is closed.
func (o *Owner) Submit(cmd message.Command) {
	o.gate.RLock()
	defer o.gate.RUnlock()
	if o.closed.Load() {
		o.dropped(cmd.Action)
		return
	}
	select {
	case o.cmds <- cmd:
	case <-o.stopping:
		o.dropped(cmd.Action)
	}
}

func (o *Owner) dropped(action message.CommandAction) {
	o.log.WithField("action", action).Debug("command dropped: session closed")
}

// State returns a copy of the canonical playback state.
func (o *Owner) State() message.State {
	return o.view.Load().state
}

// Phase returns the current lifecycle phase.
func (o *Owner) Phase() Phase {
	return o.view.Load().phase
}

// Done is closed once the owner has terminated.
func (o *Owner) Done() <-chan struct{} {
	return o.done
}

// Closed reports whether Close was processed or requested.
func (o *Owner) Closed() bool {
	return o.closed.Load()
}

// Command helpers

func (o *Owner) Play(p message.PlayArgs) { o.Submit(message.Play(p)) }

func (o *Owner) Pause() { o.Submit(message.NewCommand(message.CmdPause, nil)) }

func (o *Owner) Resume() { o.Submit(message.NewCommand(message.CmdResume, nil)) }

func (o *Owner) Toggle() { o.Submit(message.NewCommand(message.CmdToggle, nil)) }

// SeekTo moves the playback position. No event is emitted for it.
func (o *Owner) SeekTo(pos time.Duration) {
	o.Submit(message.Seek(uint64(max(0, pos.Milliseconds()))))
}

func (o *Owner) Next() { o.Submit(message.NewCommand(message.CmdNext, nil)) }

func (o *Owner) Previous() { o.Submit(message.NewCommand(message.CmdPrevious, nil)) }

func (o *Owner) SetLoop(enabled bool) {
	action := message.CmdLoopOff
	if enabled {
		action = message.CmdLoopOn
	}
	o.Submit(message.NewCommand(action, nil))
}

func (o *Owner) SetShuffle(enabled bool) {
	action := message.CmdShuffleOff
	if enabled {
		action = message.CmdShuffleOn
	}
	o.Submit(message.NewCommand(action, nil))
}

func (o *Owner) RequestDownload(trackID int64) { o.Submit(message.DownloadSong(trackID)) }

// GetCurrentSnapshot asks for one CURRENT_SONG event carrying the full state.
func (o *Owner) GetCurrentSnapshot() {
	o.Submit(message.NewCommand(message.CmdGetCurrentSong, nil))
}

// MarkFavorite reports a confirmed favorite change for trackID.
func (o *Owner) MarkFavorite(trackID int64, favorite bool) {
	o.Submit(message.Favorite(trackID, favorite))
}

// Close ends the session and waits for the owner goroutine to exit.
// It is safe to call more than once.
func (o *Owner) Close() {
	o.Submit(message.NewCommand(message.CmdClose, nil))
	<-o.done
}

func (o *Owner) publishView() {
	o.view.Store(&snapshot{state: o.state, phase: o.phase})
}
