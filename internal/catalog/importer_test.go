package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImporter_ImportsUntaggedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "First Song.mp3"), []byte("not really audio"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("fake"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Second.flac"), []byte("x"), 0o600))

	logger, _ := test.NewNullLogger()
	s := NewStore(setupTestDB(t))
	im := NewImporter(s, logger)

	res, err := im.Import(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Scanned: 2, Added: 2}, res)

	tracks := s.Tracks()
	require.Len(t, tracks, 2)
	titles := []string{tracks[0].Title, tracks[1].Title}
	assert.ElementsMatch(t, []string{"First Song", "Second"}, titles)

	for _, tr := range tracks {
		if tr.Title == "First Song" {
			assert.Equal(t, FileURI(filepath.Join(dir, "cover.jpg")), tr.ImageURI)
		}
		assert.True(t, tr.Downloadable)
	}

	// a second run updates in place
	res, err = im.Import(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 2, s.Len())
}

func TestImporter_MissingRootIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	im := NewImporter(NewStore(setupTestDB(t)), logger)

	res, err := im.Import(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	assert.Zero(t, res.Scanned)

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.WarnLevel, hook.AllEntries()[0].Level)
}

func TestFindAlbumArt(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(coverPath, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if got != coverPath {
		t.Errorf("FindAlbumArt() = %q, want %q", got, coverPath)
	}
}

func TestFindAlbumArt_Priority(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"front.png", "folder.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fake"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if want := filepath.Join(dir, "folder.jpg"); got != want {
		t.Errorf("FindAlbumArt() = %q, want %q", got, want)
	}
}

func TestFindAlbumArt_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Cover.JPG", "scan.jpg", "Folder.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fake"), 0o600))
	}

	assert.Equal(t, filepath.Join(dir, "Cover.JPG"), FindAlbumArt(filepath.Join(dir, "track.mp3")))
	assert.Empty(t, FindAlbumArt(filepath.Join(dir, "missing", "track.mp3")))
}

func TestCoverRank(t *testing.T) {
	tests := []struct {
		name string
		rank int
		ok   bool
	}{
		{"cover.jpg", 0, true},
		{"cover.jpeg", 2, true},
		{"FOLDER.JPG", 3, true},
		{"front.png", 10, true},
		{"cover.gif", 0, false},
		{"back.jpg", 0, false},
	}
	for _, tt := range tests {
		rank, ok := coverRank(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.Equal(t, tt.rank, rank, tt.name)
		}
	}
}
