package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musichub/internal/catalog"
	"github.com/llehouerou/musichub/internal/db"
)

func setup(t *testing.T) (*Store, *catalog.Store, int64) {
	t.Helper()
	conn, err := db.Open(db.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	tracks := catalog.NewStore(conn)
	id, err := tracks.Upsert(context.Background(), catalog.Track{Title: "Song", MediaURI: "file:///a.mp3"})
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	return NewStore(conn, tracks, logger), tracks, id
}

func TestStore_SetFavoriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, tracks, id := setup(t)

	fav, err := s.IsFavorite(ctx, id)
	require.NoError(t, err)
	assert.False(t, fav)

	got, err := s.SetFavorite(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, got)

	fav, err = s.IsFavorite(ctx, id)
	require.NoError(t, err)
	assert.True(t, fav)

	tr, _ := tracks.ByID(id)
	assert.Equal(t, int64(1), tr.Likes)

	ids, err := s.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{id: true}, ids)

	got, err = s.SetFavorite(ctx, id, false)
	require.NoError(t, err)
	assert.False(t, got)

	tr, _ = tracks.ByID(id)
	assert.Equal(t, int64(0), tr.Likes)
}

func TestStore_SetFavoriteTwiceCountsOnce(t *testing.T) {
	ctx := context.Background()
	s, tracks, id := setup(t)

	_, err := s.SetFavorite(ctx, id, true)
	require.NoError(t, err)
	_, err = s.SetFavorite(ctx, id, true)
	require.NoError(t, err)

	tr, _ := tracks.ByID(id)
	assert.Equal(t, int64(1), tr.Likes)
}

func TestStore_SetFavoriteUnknownTrack(t *testing.T) {
	s, _, _ := setup(t)

	_, err := s.SetFavorite(context.Background(), 999, true)
	if !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("SetFavorite() error = %v, want ErrUnknownTrack", err)
	}
}
