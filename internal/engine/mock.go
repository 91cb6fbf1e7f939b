package engine

import (
	"sync"
	"time"
)

// Mock is a test double for Engine.
// Instances advance their position with the wall clock while playing,
// which under testing/synctest is the fake clock.
type Mock struct {
	mu              sync.Mutex
	loads           []string
	loadErr         error
	autoReady       bool
	defaultDuration time.Duration
	instances       []*MockInstance
	live            int
	maxLive         int
}

// NewMock creates a mock engine. Instances default to a three minute duration.
func NewMock() *Mock {
	return &Mock{defaultDuration: 3 * time.Minute}
}

// Load implements Engine.
func (m *Mock) Load(uri string) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads = append(m.loads, uri)
	if m.loadErr != nil {
		return nil, m.loadErr
	}

	inst := &MockInstance{
		engine:   m,
		uri:      uri,
		signals:  make(chan Signal, signalBufferSize),
		duration: m.defaultDuration,
	}
	m.instances = append(m.instances, inst)
	m.live++
	m.maxLive = max(m.maxLive, m.live)

	if m.autoReady {
		inst.Fire(SignalReady)
	}
	return inst, nil
}

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

// SetAutoReady makes every new instance signal Ready immediately.
func (m *Mock) SetAutoReady(v bool) {
	m.mu.Lock()
	m.autoReady = v
	m.mu.Unlock()
}

func (m *Mock) SetDefaultDuration(d time.Duration) {
	m.mu.Lock()
	m.defaultDuration = d
	m.mu.Unlock()
}

// Loads returns every URI passed to Load.
func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

// Live returns the number of instances not yet released.
func (m *Mock) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

// MaxLive returns the highest number of simultaneously live instances.
func (m *Mock) MaxLive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxLive
}

// Last returns the most recently loaded instance, or nil.
func (m *Mock) Last() *MockInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.instances) == 0 {
		return nil
	}
	return m.instances[len(m.instances)-1]
}

func (m *Mock) released() {
	m.mu.Lock()
	m.live--
	m.mu.Unlock()
}

// MockInstance is the instance returned by Mock.
type MockInstance struct {
	engine  *Mock
	uri     string
	signals chan Signal

	mu        sync.Mutex
	playing   bool
	startedAt time.Time
	base      time.Duration
	duration  time.Duration
	seekCalls []time.Duration
	isRelease bool
}

func (i *MockInstance) Signals() <-chan Signal { return i.signals }

func (i *MockInstance) Play() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.playing || i.isRelease {
		return
	}
	i.playing = true
	i.startedAt = time.Now()
}

func (i *MockInstance) Pause() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.playing {
		return
	}
	i.base = i.positionLocked()
	i.playing = false
}

func (i *MockInstance) SeekTo(pos time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seekCalls = append(i.seekCalls, pos)
	i.base = max(0, min(pos, i.duration))
	i.startedAt = time.Now()
}

func (i *MockInstance) Position() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.positionLocked()
}

func (i *MockInstance) positionLocked() time.Duration {
	pos := i.base
	if i.playing {
		pos += time.Since(i.startedAt)
	}
	return min(pos, i.duration)
}

func (i *MockInstance) Duration() time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.duration
}

func (i *MockInstance) Release() {
	i.mu.Lock()
	if i.isRelease {
		i.mu.Unlock()
		return
	}
	i.isRelease = true
	i.playing = false
	i.mu.Unlock()
	i.engine.released()
}

// Test helpers

// URI returns the loaded URI.
func (i *MockInstance) URI() string { return i.uri }

// Fire delivers a signal as the real engine would.
func (i *MockInstance) Fire(kind SignalKind) {
	i.FireError(kind, nil)
}

// FireError delivers a signal carrying err.
func (i *MockInstance) FireError(kind SignalKind, err error) {
	select {
	case i.signals <- Signal{Kind: kind, Err: err}:
	default:
	}
}

// End moves the position to the end and fires Ended.
func (i *MockInstance) End() {
	i.mu.Lock()
	i.base = i.duration
	i.playing = false
	i.mu.Unlock()
	i.Fire(SignalEnded)
}

func (i *MockInstance) SetDuration(d time.Duration) {
	i.mu.Lock()
	i.duration = d
	i.mu.Unlock()
}

func (i *MockInstance) SetPosition(d time.Duration) {
	i.mu.Lock()
	i.base = d
	i.startedAt = time.Now()
	i.mu.Unlock()
}

func (i *MockInstance) Playing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.playing
}

func (i *MockInstance) Released() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.isRelease
}

func (i *MockInstance) SeekCalls() []time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]time.Duration(nil), i.seekCalls...)
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
