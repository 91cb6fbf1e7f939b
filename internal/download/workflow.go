// Package download fetches track media to local storage as retryable
// background jobs and announces completed downloads on the event channel.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/musichub/internal/bus"
	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/downloads"
	"github.com/llehouerou/musichub/internal/message"
	"github.com/llehouerou/musichub/internal/network"
)

// Enqueue errors.
var (
	ErrTrackNotFound   = errors.New("track not found")
	ErrNoMediaURI      = errors.New("track has no media uri")
	ErrNotDownloadable = errors.New("track is not downloadable")
	ErrAlreadyQueued   = errors.New("track download already queued")
)

// Config controls where files go and how attempts are retried.
type Config struct {
	Directory      string
	Workers        int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RequireNetwork bool
}

// DownloadCounter records completed downloads per track.
type DownloadCounter interface {
	IncrementDownloads(ctx context.Context, trackID int64) error
}

// Deps are the collaborators of a Workflow. Catalog, Jobs and Bus are required.
type Deps struct {
	Catalog catalog.Lookup
	Jobs    *downloads.Manager
	Bus     *bus.Channel[message.Message]
	Counter DownloadCounter

	// Fs receives downloaded files. Defaults to the OS filesystem.
	Fs afero.Fs
	// Source serves file:// media. Defaults to the OS filesystem.
	Source afero.Fs
	Client *http.Client
	// Network reports connectivity for the network constraint.
	Network func() bool
	Logger  logrus.FieldLogger
}

// Workflow turns download requests into persisted, retried jobs.
// Its lifetime is independent of any playback session.
type Workflow struct {
	cfg     Config
	catalog catalog.Lookup
	jobs    *downloads.Manager
	bus     *bus.Channel[message.Message]
	counter DownloadCounter
	fs      afero.Fs
	source  afero.Fs
	client  *http.Client
	network func() bool
	log     logrus.FieldLogger
	queue   *Queue

	mu     sync.Mutex
	active map[int64]string // track id -> job id
}

// New creates a workflow and starts its workers.
func New(cfg Config, deps Deps) *Workflow {
	w := &Workflow{
		cfg:     cfg,
		catalog: deps.Catalog,
		jobs:    deps.Jobs,
		bus:     deps.Bus,
		counter: deps.Counter,
		fs:      deps.Fs,
		source:  deps.Source,
		client:  deps.Client,
		network: deps.Network,
		log:     deps.Logger,
		active:  make(map[int64]string),
	}
	if w.fs == nil {
		w.fs = afero.NewOsFs()
	}
	if w.source == nil {
		w.source = afero.NewOsFs()
	}
	if w.client == nil {
		w.client = network.Client
	}
	if w.network == nil {
		w.network = network.Available
	}
	if w.log == nil {
		w.log = logrus.StandardLogger()
	}
	w.log = w.log.WithField("component", "download")

	w.queue = NewQueue(QueueConfig{
		Workers:        cfg.Workers,
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
	}, w.log)
	return w
}

// Enqueue resolves the track and schedules its download.
func (w *Workflow) Enqueue(ctx context.Context, trackID int64) error {
	log := w.log.WithField("track_id", trackID)

	t, ok := w.catalog.ByID(trackID)
	if !ok {
		log.Error("download requested for unknown track")
		return fmt.Errorf("%w: %d", ErrTrackNotFound, trackID)
	}
	if t.MediaURI == "" {
		log.Warn("download rejected: no media uri")
		return ErrNoMediaURI
	}
	if !t.Downloadable {
		log.Warn("download rejected: not downloadable")
		return ErrNotDownloadable
	}

	w.mu.Lock()
	if _, busy := w.active[trackID]; busy {
		w.mu.Unlock()
		log.Debug("download already queued")
		return ErrAlreadyQueued
	}
	job := downloads.Job{
		ID:              uuid.NewString(),
		TrackID:         t.ID,
		SourceURI:       t.MediaURI,
		DestinationPath: filepath.Join(w.cfg.Directory, FileName(t.Title, t.ID, t.MediaURI)),
		RequiresNetwork: w.cfg.RequireNetwork && isRemote(t.MediaURI),
		Status:          downloads.StatusQueued,
	}
	w.active[trackID] = job.ID
	w.mu.Unlock()

	if err := w.jobs.Create(ctx, job); err != nil {
		w.release(trackID)
		return fmt.Errorf("persist download job: %w", err)
	}
	if err := w.submit(job); err != nil {
		w.release(trackID)
		return err
	}
	log.WithField("job_id", job.ID).Info("download queued")
	return nil
}

// Resume reschedules jobs persisted by a previous run that never finished.
func (w *Workflow) Resume(ctx context.Context) (int, error) {
	jobs, err := w.jobs.Unfinished(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, job := range jobs {
		w.mu.Lock()
		_, busy := w.active[job.TrackID]
		if !busy {
			w.active[job.TrackID] = job.ID
		}
		w.mu.Unlock()
		if busy {
			continue
		}
		if err := w.submit(job); err != nil {
			w.release(job.TrackID)
			return n, err
		}
		n++
	}
	if n > 0 {
		w.log.WithField("jobs", n).Info("resumed unfinished downloads")
	}
	return n, nil
}

// Close stops the workers. Unfinished jobs stay persisted for Resume.
func (w *Workflow) Close() {
	w.queue.Close()
}

func (w *Workflow) submit(job downloads.Job) error {
	task := Task{
		ID: job.ID,
		Run: func(ctx context.Context, attempt int) error {
			return w.attempt(ctx, job, attempt)
		},
		OnRetry: func(attempt int, err error, wait time.Duration) {
			if markErr := w.jobs.MarkRetrying(context.Background(), job.ID, err); markErr != nil {
				w.log.WithError(markErr).Warn("marking job retrying")
			}
			w.log.WithFields(logrus.Fields{
				"job_id":  job.ID,
				"attempt": attempt,
				"retry":   humanize.RelTime(time.Now(), time.Now().Add(wait), "ago", "from now"),
			}).WithError(err).Warn("download attempt failed")
		},
		OnDone: func(err error, attempts int) {
			w.finish(job, err, attempts)
		},
	}
	if job.RequiresNetwork {
		task.Constraint = w.network
	}
	return w.queue.Submit(task)
}

func (w *Workflow) attempt(ctx context.Context, job downloads.Job, attempt int) error {
	if err := w.jobs.MarkRunning(ctx, job.ID, attempt); err != nil {
		w.log.WithError(err).Warn("marking job running")
	}

	if err := w.fs.MkdirAll(filepath.Dir(job.DestinationPath), 0o755); err != nil {
		return err
	}
	tmp := job.DestinationPath + ".part"
	f, err := w.fs.Create(tmp)
	if err != nil {
		return err
	}
	n, err := w.fetch(ctx, job.SourceURI, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = w.fs.Remove(tmp)
		return err
	}
	if err := w.fs.Rename(tmp, job.DestinationPath); err != nil {
		return err
	}

	w.log.WithFields(logrus.Fields{
		"job_id": job.ID,
		"size":   humanize.Bytes(uint64(n)),
		"path":   job.DestinationPath,
	}).Info("download finished")
	return nil
}

func (w *Workflow) finish(job downloads.Job, err error, attempts int) {
	w.release(job.TrackID)
	ctx := context.Background()
	log := w.log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"track_id": job.TrackID,
		"attempts": attempts,
	})

	if errors.Is(err, context.Canceled) {
		log.Info("download interrupted, will resume on next start")
		return
	}
	if err != nil {
		if markErr := w.jobs.MarkFailed(ctx, job.ID, err); markErr != nil {
			log.WithError(markErr).Warn("marking job failed")
		}
		// Permanent failures are not broadcast.
		log.WithError(err).Error("download failed")
		return
	}

	if markErr := w.jobs.MarkSucceeded(ctx, job.ID); markErr != nil {
		log.WithError(markErr).Warn("marking job succeeded")
	}
	if w.counter != nil {
		if cErr := w.counter.IncrementDownloads(ctx, job.TrackID); cErr != nil {
			log.WithError(cErr).Warn("updating download counter")
		}
	}
	w.bus.Publish(message.DownloadComplete(job.TrackID, job.DestinationPath))
}

func (w *Workflow) release(trackID int64) {
	w.mu.Lock()
	delete(w.active, trackID)
	w.mu.Unlock()
}
