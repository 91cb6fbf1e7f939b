package downloads

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musichub/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.Memory)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newJob(id string) Job {
	return Job{
		ID:              id,
		TrackID:         7,
		SourceURI:       "https://cdn.example.com/7.mp3",
		DestinationPath: "/downloads/Song_7.mp3",
		RequiresNetwork: true,
	}
}

func TestManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := New(setupTestDB(t))

	require.NoError(t, m.Create(ctx, newJob("a")))

	j, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, j.Status)
	assert.True(t, j.RequiresNetwork)
	assert.True(t, j.IsActive())

	require.NoError(t, m.MarkRunning(ctx, "a", 1))
	require.NoError(t, m.MarkRetrying(ctx, "a", errors.New("connection reset")))

	j, err = m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusRetrying, j.Status)
	assert.Equal(t, 1, j.Attempts)
	assert.Equal(t, "connection reset", j.LastError)

	require.NoError(t, m.MarkRunning(ctx, "a", 2))
	require.NoError(t, m.MarkSucceeded(ctx, "a"))

	j, err = m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, j.Status)
	assert.Empty(t, j.LastError)
	assert.True(t, j.IsFinished())
}

func TestManager_Unfinished(t *testing.T) {
	ctx := context.Background()
	m := New(setupTestDB(t))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Create(ctx, newJob(id)))
	}
	require.NoError(t, m.MarkFailed(ctx, "b", errors.New("404")))

	jobs, err := m.Unfinished(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)

	n, err := m.DeleteFinished(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestManager_UnknownJob(t *testing.T) {
	ctx := context.Background()
	m := New(setupTestDB(t))

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.MarkSucceeded(ctx, "missing"), ErrNotFound)
}
