package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musichub/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// seed inserts tracks titled "1".."n" and returns their ids in sequence order.
func seed(t *testing.T, s *Store, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := range n {
		id, err := s.Upsert(context.Background(), Track{
			Title:        string(rune('A' + i)),
			Artists:      []string{"Artist"},
			MediaURI:     "file:///music/" + string(rune('a'+i)) + ".mp3",
			Duration:     time.Duration(i+1) * time.Minute,
			Downloadable: true,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestStore_SequenceStrict(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ids := seed(t, s, 3)

	next, ok := s.Next(ids[0])
	require.True(t, ok)
	assert.Equal(t, ids[1], next.ID)

	_, ok = s.Next(ids[2])
	assert.False(t, ok, "strict Next at the end")

	prev, ok := s.Previous(ids[1])
	require.True(t, ok)
	assert.Equal(t, ids[0], prev.ID)

	_, ok = s.Previous(ids[0])
	assert.False(t, ok, "strict Previous at the start")
}

func TestStore_SequenceWrapAround(t *testing.T) {
	s := NewStore(setupTestDB(t), WithWrapAround(true))
	ids := seed(t, s, 3)

	next, ok := s.Next(ids[2])
	require.True(t, ok)
	assert.Equal(t, ids[0], next.ID)

	prev, ok := s.Previous(ids[0])
	require.True(t, ok)
	assert.Equal(t, ids[2], prev.ID)
}

func TestStore_UnknownCurrentStartsSequence(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ids := seed(t, s, 3)

	next, ok := s.Next(0)
	require.True(t, ok)
	assert.Equal(t, ids[0], next.ID)

	prev, ok := s.Previous(999)
	require.True(t, ok)
	assert.Equal(t, ids[2], prev.ID)
}

func TestStore_EmptyCatalog(t *testing.T) {
	s := NewStore(setupTestDB(t))
	require.NoError(t, s.Load(context.Background()))

	_, ok := s.Next(1)
	assert.False(t, ok)
	_, ok = s.Previous(1)
	assert.False(t, ok)
	_, ok = s.Random()
	assert.False(t, ok)
	_, ok = s.ByID(1)
	assert.False(t, ok)
}

func TestStore_RandomUsesSource(t *testing.T) {
	s := NewStore(setupTestDB(t), WithRand(func(n int) int { return n - 1 }))
	ids := seed(t, s, 3)

	got, ok := s.Random()
	require.True(t, ok)
	assert.Equal(t, ids[2], got.ID)
}

func TestStore_UpsertUpdatesByMediaURI(t *testing.T) {
	ctx := context.Background()
	s := NewStore(setupTestDB(t))
	ids := seed(t, s, 2)

	id, err := s.Upsert(ctx, Track{Title: "Renamed", MediaURI: "file:///music/a.mp3"})
	require.NoError(t, err)
	assert.Equal(t, ids[0], id)
	assert.Equal(t, 2, s.Len())

	got, ok := s.ByID(id)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
}

func TestStore_ByIDReturnsCopy(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ids := seed(t, s, 1)

	got, _ := s.ByID(ids[0])
	got.Artists[0] = "Mutated"

	again, _ := s.ByID(ids[0])
	assert.Equal(t, "Artist", again.Artists[0])
}

func TestStore_Counters(t *testing.T) {
	ctx := context.Background()
	s := NewStore(setupTestDB(t))
	ids := seed(t, s, 1)

	require.NoError(t, s.RecordListen(ctx, ids[0]))
	require.NoError(t, s.RecordListen(ctx, ids[0]))
	require.NoError(t, s.IncrementDownloads(ctx, ids[0]))
	require.NoError(t, s.AdjustLikes(ctx, ids[0], -1))

	got, _ := s.ByID(ids[0])
	assert.Equal(t, int64(2), got.Listens)
	assert.Equal(t, int64(1), got.Downloads)
	assert.Equal(t, int64(0), got.Likes, "likes never go below zero")

	n, err := s.ListenCount(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// persisted, not just cached
	require.NoError(t, s.Load(ctx))
	got, _ = s.ByID(ids[0])
	assert.Equal(t, int64(2), got.Listens)
}

func TestStore_RecordListenUnknownTrack(t *testing.T) {
	s := NewStore(setupTestDB(t))
	err := s.RecordListen(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordListen() error = %v, want ErrNotFound", err)
	}
}

func TestTrack_ArtistLine(t *testing.T) {
	tests := []struct {
		artists []string
		want    string
	}{
		{nil, "Unknown Artist"},
		{[]string{" ", ""}, "Unknown Artist"},
		{[]string{"A"}, "A"},
		{[]string{"A", " B "}, "A, B"},
	}
	for _, tt := range tests {
		if got := (Track{Artists: tt.artists}).ArtistLine(); got != tt.want {
			t.Errorf("ArtistLine(%v) = %q, want %q", tt.artists, got, tt.want)
		}
	}
}

func TestSplitArtists(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, SplitArtists("A; B/C, A"))
	assert.Empty(t, SplitArtists(""))
}
