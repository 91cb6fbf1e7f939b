package engine

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/network"
)

// Beep renders audio through the shared beep speaker.
// The speaker is initialised once, at the sample rate of the first track;
// later tracks with a different rate are resampled.
type Beep struct {
	client *http.Client
	log    logrus.FieldLogger

	initOnce   sync.Once
	initErr    error
	sampleRate beep.SampleRate
}

// BeepOption configures a Beep engine.
type BeepOption func(*Beep)

// WithHTTPClient sets the client used to fetch remote media.
func WithHTTPClient(c *http.Client) BeepOption {
	return func(b *Beep) { b.client = c }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) BeepOption {
	return func(b *Beep) { b.log = l }
}

// NewBeep creates a beep-backed engine.
func NewBeep(opts ...BeepOption) *Beep {
	b := &Beep{
		client: network.Client,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.WithField("component", "engine")
	return b
}

// Load implements Engine.
func (b *Beep) Load(uri string) (Instance, error) {
	src, err := parseSource(uri)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	inst := &beepInstance{
		engine:  b,
		src:     src,
		signals: make(chan Signal, signalBufferSize),
		cancel:  cancel,
	}
	go inst.prepare(ctx)
	return inst, nil
}

func (b *Beep) initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	b.initOnce.Do(func() {
		b.sampleRate = rate
		b.initErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return b.sampleRate, b.initErr
}

type beepInstance struct {
	engine  *Beep
	src     source
	signals chan Signal
	cancel  context.CancelFunc

	released atomic.Bool
	queued   atomic.Bool

	mu       sync.Mutex
	ready    bool
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	cleanup  func()
}

func (i *beepInstance) Signals() <-chan Signal { return i.signals }

func (i *beepInstance) prepare(ctx context.Context) {
	path := i.src.path
	cleanup := func() {}
	if i.src.kind == sourceRemote {
		p, c, err := fetch(ctx, i.engine.client, i.src)
		if err != nil {
			i.fail(fmt.Errorf("fetch media: %w", err))
			return
		}
		path, cleanup = p, c
	}

	f, err := os.Open(path)
	if err != nil {
		cleanup()
		i.fail(err)
		return
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch i.src.ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		f.Close()
		cleanup()
		i.fail(fmt.Errorf("decode %s: %w", i.src.ext, err))
		return
	}

	rate, err := i.engine.initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		f.Close()
		cleanup()
		i.fail(fmt.Errorf("init speaker: %w", err))
		return
	}

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	i.mu.Lock()
	if i.released.Load() {
		i.mu.Unlock()
		streamer.Close()
		f.Close()
		cleanup()
		return
	}
	i.file = f
	i.streamer = streamer
	i.format = format
	i.cleanup = cleanup
	i.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	i.ready = true
	i.mu.Unlock()

	i.emit(Signal{Kind: SignalReady})
}

func (i *beepInstance) fail(err error) {
	if i.released.Load() {
		return
	}
	i.engine.log.WithError(err).WithField("path", i.src.path).Debug("load failed")
	i.emit(Signal{Kind: SignalError, Err: err})
}

// emit never blocks. It runs inside the speaker callback.
func (i *beepInstance) emit(s Signal) {
	if i.released.Load() {
		return
	}
	select {
	case i.signals <- s:
	default:
	}
}

// finished runs on the speaker goroutine with the speaker lock held,
// so it must not take i.mu.
func (i *beepInstance) finished() {
	i.queued.Store(false)
	i.emit(Signal{Kind: SignalEnded})
}

func (i *beepInstance) Play() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready || i.released.Load() {
		return
	}
	speaker.Lock()
	i.ctrl.Paused = false
	speaker.Unlock()

	if i.queued.CompareAndSwap(false, true) {
		speaker.Play(beep.Seq(i.ctrl, beep.Callback(i.finished)))
	}
}

func (i *beepInstance) Pause() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready || i.released.Load() {
		return
	}
	speaker.Lock()
	i.ctrl.Paused = true
	speaker.Unlock()
}

func (i *beepInstance) SeekTo(pos time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready || i.released.Load() {
		return
	}
	n := i.format.SampleRate.N(pos)
	n = max(0, min(n, i.streamer.Len()))

	speaker.Lock()
	err := i.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		i.engine.log.WithError(err).Warn("seek failed")
	}
}

func (i *beepInstance) Position() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready {
		return 0
	}
	speaker.Lock()
	pos := i.format.SampleRate.D(i.streamer.Position())
	speaker.Unlock()
	return pos
}

func (i *beepInstance) Duration() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready {
		return 0
	}
	return i.format.SampleRate.D(i.streamer.Len())
}

// Release stops output and frees the decoder. Idempotent.
func (i *beepInstance) Release() {
	if i.released.Swap(true) {
		return
	}
	i.cancel()

	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.ready {
		return
	}
	// A nil streamer ends the sequence on the next mixer pass.
	speaker.Lock()
	i.ctrl.Streamer = nil
	speaker.Unlock()

	i.streamer.Close()
	i.file.Close()
	i.cleanup()
	i.ready = false
}

// Verify Beep implements Engine at compile time.
var _ Engine = (*Beep)(nil)
