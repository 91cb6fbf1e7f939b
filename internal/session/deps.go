package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/musichub/internal/bus"
	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/engine"
	"github.com/llehouerou/musichub/internal/message"
)

// FavoriteChecker answers whether a track is a favorite.
type FavoriteChecker interface {
	IsFavorite(ctx context.Context, trackID int64) (bool, error)
}

// ListenRecorder counts a listen once a track starts.
type ListenRecorder interface {
	RecordListen(ctx context.Context, trackID int64) error
}

// Enqueuer schedules track downloads.
type Enqueuer interface {
	Enqueue(ctx context.Context, trackID int64) error
}

// Surface is a transport-control surface mirroring the session state,
// such as a desktop notification. Refresh and Hide are called from the
// owner goroutine and must not block.
type Surface interface {
	Refresh(s message.State)
	Hide()
}

// Deps are the collaborators of an Owner. Engine, Catalog and Bus are required.
type Deps struct {
	Engine    engine.Engine
	Catalog   catalog.Lookup
	Bus       *bus.Channel[message.Message]
	Favorites FavoriteChecker
	Listens   ListenRecorder
	Downloads Enqueuer
	Surfaces  []Surface
	Logger    logrus.FieldLogger
}

const (
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultLoadTimeout   = 10 * time.Second
	defaultCommandBuffer = 64
)

type options struct {
	pollInterval  time.Duration
	loadTimeout   time.Duration
	commandBuffer int
}

// Option configures an Owner.
type Option func(*options)

// WithPollInterval sets how often position updates are emitted while playing.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithLoadTimeout bounds how long a track may stay loading.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

// WithCommandBuffer sets the command queue capacity.
func WithCommandBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.commandBuffer = n
		}
	}
}
