package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	dbutil "github.com/llehouerou/musichub/internal/db"
)

// ErrNotFound is returned when a track id does not exist.
var ErrNotFound = errors.New("track not found")

// Store is the sqlite-backed catalog. Lookups are served from a cache
// ordered by catalog position, refreshed by Load and by every mutation.
type Store struct {
	db       *sql.DB
	wrap     bool
	randIntN func(n int) int

	mu     sync.RWMutex
	tracks []Track
	index  map[int64]int
}

// Option configures a Store.
type Option func(*Store)

// WithWrapAround makes Next and Previous wrap at the ends of the sequence.
func WithWrapAround(wrap bool) Option {
	return func(s *Store) { s.wrap = wrap }
}

// WithRand replaces the random source used by Random.
func WithRand(fn func(n int) int) Option {
	return func(s *Store) { s.randIntN = fn }
}

// NewStore creates a store. Call Load to fill the cache.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:       db,
		randIntN: rand.IntN,
		index:    map[int64]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load refreshes the cache from the database.
func (s *Store) Load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, artists, image_uri, media_uri, duration_ms, downloadable,
		       lyrics, description, listens, likes, downloads
		FROM tracks
		ORDER BY position, id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var t Track
		var artists string
		var durationMs int64
		var downloadable int
		if err := rows.Scan(&t.ID, &t.Title, &artists, &t.ImageURI, &t.MediaURI, &durationMs,
			&downloadable, &t.Lyrics, &t.Description, &t.Listens, &t.Likes, &t.Downloads); err != nil {
			return err
		}
		t.Artists = decodeArtists(artists)
		t.Duration = time.Duration(durationMs) * time.Millisecond
		t.Downloadable = downloadable != 0
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	index := make(map[int64]int, len(tracks))
	for i, t := range tracks {
		index[t.ID] = i
	}

	s.mu.Lock()
	s.tracks = tracks
	s.index = index
	s.mu.Unlock()
	return nil
}

// Tracks returns the catalog sequence.
func (s *Store) Tracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of cached tracks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// ByID implements Lookup.
func (s *Store) ByID(id int64) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Track{}, false
	}
	return s.tracks[i].clone(), true
}

// Next implements Lookup. An unknown current id starts at the first track.
func (s *Store) Next(currentID int64) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.tracks)
	if n == 0 {
		return Track{}, false
	}
	i, ok := s.index[currentID]
	switch {
	case !ok:
		return s.tracks[0].clone(), true
	case i+1 < n:
		return s.tracks[i+1].clone(), true
	case s.wrap:
		return s.tracks[0].clone(), true
	default:
		return Track{}, false
	}
}

// Previous implements Lookup. An unknown current id starts at the last track.
func (s *Store) Previous(currentID int64) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.tracks)
	if n == 0 {
		return Track{}, false
	}
	i, ok := s.index[currentID]
	switch {
	case !ok:
		return s.tracks[n-1].clone(), true
	case i > 0:
		return s.tracks[i-1].clone(), true
	case s.wrap:
		return s.tracks[n-1].clone(), true
	default:
		return Track{}, false
	}
}

// Random implements Lookup.
func (s *Store) Random() (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.tracks) == 0 {
		return Track{}, false
	}
	return s.tracks[s.randIntN(len(s.tracks))].clone(), true
}

// Upsert inserts t, or updates the existing row with the same id or media
// URI. New tracks are appended to the sequence. Returns the track id.
func (s *Store) Upsert(ctx context.Context, t Track) (int64, error) {
	artists, err := encodeArtists(t.Artists)
	if err != nil {
		return 0, err
	}
	now := dbutil.Now()

	var id int64
	err = dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, err = existingID(ctx, tx, t)
		if err != nil {
			return err
		}
		if id > 0 {
			_, err = tx.ExecContext(ctx, `
				UPDATE tracks SET title = ?, artists = ?, image_uri = ?, media_uri = ?,
					duration_ms = ?, downloadable = ?, lyrics = ?, description = ?, updated_at = ?
				WHERE id = ?
			`, t.Title, artists, t.ImageURI, t.MediaURI, t.Duration.Milliseconds(),
				dbutil.BoolToInt(t.Downloadable), t.Lyrics, t.Description, now, id)
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (position, title, artists, image_uri, media_uri, duration_ms,
				downloadable, lyrics, description, added_at, updated_at)
			VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM tracks), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.Title, artists, t.ImageURI, t.MediaURI, t.Duration.Milliseconds(),
			dbutil.BoolToInt(t.Downloadable), t.Lyrics, t.Description, now, now)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("upsert track %q: %w", t.Title, err)
	}
	return id, s.Load(ctx)
}

func existingID(ctx context.Context, tx *sql.Tx, t Track) (int64, error) {
	var id int64
	var err error
	switch {
	case t.ID > 0:
		err = tx.QueryRowContext(ctx, `SELECT id FROM tracks WHERE id = ?`, t.ID).Scan(&id)
	case t.MediaURI != "":
		err = tx.QueryRowContext(ctx, `SELECT id FROM tracks WHERE media_uri = ?`, t.MediaURI).Scan(&id)
	default:
		return 0, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

// RecordListen counts one listen and appends it to the listen history.
func (s *Store) RecordListen(ctx context.Context, id int64) error {
	err := dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := bump(ctx, tx, "listens", id, 1); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO listen_history (track_id, listened_at) VALUES (?, ?)`, id, dbutil.Now())
		return err
	})
	if err != nil {
		return err
	}
	s.adjust(id, func(t *Track) { t.Listens++ })
	return nil
}

// IncrementDownloads counts one completed download.
func (s *Store) IncrementDownloads(ctx context.Context, id int64) error {
	err := dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return bump(ctx, tx, "downloads", id, 1)
	})
	if err != nil {
		return err
	}
	s.adjust(id, func(t *Track) { t.Downloads++ })
	return nil
}

// AdjustLikes changes the likes counter by delta, never below zero.
func (s *Store) AdjustLikes(ctx context.Context, id int64, delta int64) error {
	err := dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return bump(ctx, tx, "likes", id, delta)
	})
	if err != nil {
		return err
	}
	s.adjust(id, func(t *Track) { t.Likes = max(0, t.Likes+delta) })
	return nil
}

// ListenCount returns how many listens the history holds for id.
func (s *Store) ListenCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM listen_history WHERE track_id = ?`, id).Scan(&n)
	return n, err
}

// bump adds delta to a counter column. column is never user input.
func bump(ctx context.Context, tx *sql.Tx, column string, id, delta int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE tracks SET `+column+` = MAX(0, `+column+` + ?), updated_at = ? WHERE id = ?`,
		delta, dbutil.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (s *Store) adjust(id int64, fn func(t *Track)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[id]; ok {
		fn(&s.tracks[i])
	}
}

func (t Track) clone() Track {
	t.Artists = append([]string(nil), t.Artists...)
	return t
}

func encodeArtists(artists []string) (string, error) {
	if len(artists) == 0 {
		return "", nil
	}
	b, err := json.Marshal(artists)
	return string(b), err
}

func decodeArtists(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{s}
	}
	return out
}

// Verify Store implements Lookup at compile time.
var _ Lookup = (*Store)(nil)
