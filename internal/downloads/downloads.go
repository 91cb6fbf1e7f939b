// Package downloads persists download jobs and their lifecycle.
package downloads

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/musichub/internal/db"
)

// Status values of a download job.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusRetrying  = "retrying"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = errors.New("download job not found")

// Job is a request to fetch one track's media file to local storage.
type Job struct {
	ID              string
	TrackID         int64
	SourceURI       string
	DestinationPath string
	RequiresNetwork bool
	Status          string
	Attempts        int
	LastError       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive reports whether the job may still run.
func (j Job) IsActive() bool {
	switch j.Status {
	case StatusQueued, StatusRunning, StatusRetrying:
		return true
	}
	return false
}

// IsFinished reports whether the job reached a terminal status.
func (j Job) IsFinished() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}

// Manager provides database operations for download jobs.
type Manager struct {
	db *sql.DB
}

// New creates a new Manager instance.
func New(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Create stores a new job in the queued state.
func (m *Manager) Create(ctx context.Context, job Job) error {
	now := dbutil.Now()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO download_jobs (
			id, track_id, source_uri, destination_path, requires_network,
			status, attempts, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, job.ID, job.TrackID, job.SourceURI, job.DestinationPath,
		dbutil.BoolToInt(job.RequiresNetwork), StatusQueued, now, now)
	return err
}

const selectJob = `
	SELECT id, track_id, source_uri, destination_path, requires_network,
	       status, attempts, last_error, created_at, updated_at
	FROM download_jobs
`

// Get returns a job by its ID.
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	row := m.db.QueryRowContext(ctx, selectJob+`WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// List returns all jobs, newest first.
func (m *Manager) List(ctx context.Context) ([]Job, error) {
	return m.query(ctx, selectJob+`ORDER BY created_at DESC, rowid DESC`)
}

// Unfinished returns jobs that have not reached a terminal status, oldest first.
func (m *Manager) Unfinished(ctx context.Context) ([]Job, error) {
	return m.query(ctx, selectJob+`WHERE status IN (?, ?, ?) ORDER BY created_at, rowid`,
		StatusQueued, StatusRunning, StatusRetrying)
}

// MarkRunning records the start of an attempt.
func (m *Manager) MarkRunning(ctx context.Context, id string, attempt int) error {
	return m.update(ctx, `UPDATE download_jobs SET status = ?, attempts = ?, updated_at = ? WHERE id = ?`,
		StatusRunning, attempt, dbutil.Now(), id)
}

// MarkRetrying records a failed attempt that will be retried.
func (m *Manager) MarkRetrying(ctx context.Context, id string, cause error) error {
	return m.update(ctx, `UPDATE download_jobs SET status = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		StatusRetrying, errString(cause), dbutil.Now(), id)
}

// MarkSucceeded records a completed download.
func (m *Manager) MarkSucceeded(ctx context.Context, id string) error {
	return m.update(ctx, `UPDATE download_jobs SET status = ?, last_error = NULL, updated_at = ? WHERE id = ?`,
		StatusSucceeded, dbutil.Now(), id)
}

// MarkFailed records that the job gave up.
func (m *Manager) MarkFailed(ctx context.Context, id string, cause error) error {
	return m.update(ctx, `UPDATE download_jobs SET status = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, errString(cause), dbutil.Now(), id)
}

// Delete removes a job.
func (m *Manager) Delete(ctx context.Context, id string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM download_jobs WHERE id = ?`, id)
	return err
}

// DeleteFinished removes all succeeded and failed jobs.
func (m *Manager) DeleteFinished(ctx context.Context) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM download_jobs WHERE status IN (?, ?)`,
		StatusSucceeded, StatusFailed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (m *Manager) update(ctx context.Context, query string, args ...any) error {
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Manager) query(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (Job, error) {
	var j Job
	var requiresNetwork int
	var lastError sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(
		&j.ID, &j.TrackID, &j.SourceURI, &j.DestinationPath, &requiresNetwork,
		&j.Status, &j.Attempts, &lastError, &createdAt, &updatedAt,
	); err != nil {
		return Job{}, err
	}
	j.RequiresNetwork = requiresNetwork != 0
	j.LastError = dbutil.NullStringValue(lastError)
	j.CreatedAt = time.Unix(createdAt, 0)
	j.UpdatedAt = time.Unix(updatedAt, 0)
	return j, nil
}

func errString(err error) sql.NullString {
	if err == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: err.Error(), Valid: true}
}
