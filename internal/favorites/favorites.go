// Package favorites stores which tracks the user marked as favorite.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	dbutil "github.com/llehouerou/musichub/internal/db"
)

// Service answers and changes favorite flags. Calls may fail; callers
// surface the error and never retry on their own.
type Service interface {
	IsFavorite(ctx context.Context, trackID int64) (bool, error)
	// SetFavorite returns the confirmed flag after the change.
	SetFavorite(ctx context.Context, trackID int64, favorite bool) (bool, error)
}

// LikesCounter keeps an aggregate like count in step with favorites.
type LikesCounter interface {
	AdjustLikes(ctx context.Context, trackID int64, delta int64) error
}

// ErrUnknownTrack is returned when favoriting a track that does not exist.
var ErrUnknownTrack = errors.New("unknown track")

// Store is the sqlite implementation of Service.
type Store struct {
	db    *sql.DB
	likes LikesCounter
	log   logrus.FieldLogger
}

// NewStore creates a store. likes may be nil.
func NewStore(db *sql.DB, likes LikesCounter, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, likes: likes, log: log.WithField("component", "favorites")}
}

// IsFavorite implements Service.
func (s *Store) IsFavorite(ctx context.Context, trackID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE track_id = ?
	`, trackID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetFavorite implements Service. Setting the current value is a no-op.
func (s *Store) SetFavorite(ctx context.Context, trackID int64, favorite bool) (bool, error) {
	var changed bool
	err := dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if favorite {
			res, err = tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO favorites (track_id, added_at) VALUES (?, ?)
			`, trackID, dbutil.Now())
		} else {
			res, err = tx.ExecContext(ctx, `DELETE FROM favorites WHERE track_id = ?`, trackID)
		}
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		changed = n > 0
		return err
	})
	if err != nil {
		if isForeignKeyError(err) {
			return false, fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
		}
		return false, err
	}

	if changed && s.likes != nil {
		delta := int64(-1)
		if favorite {
			delta = 1
		}
		// the favorite itself is committed; a stale counter is not worth failing for
		if err := s.likes.AdjustLikes(ctx, trackID, delta); err != nil {
			s.log.WithError(err).WithField("track_id", trackID).Warn("updating likes counter")
		}
	}
	return favorite, nil
}

// IDs returns every favorite track id as a set.
func (s *Store) IDs(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT track_id FROM favorites`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func isForeignKeyError(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Verify Store implements Service at compile time.
var _ Service = (*Store)(nil)
