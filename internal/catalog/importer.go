package catalog

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
)

// ImportResult summarises one import run.
type ImportResult struct {
	Scanned int
	Added   int
	Updated int
	Failed  int
}

// Importer scans folders for audio files and upserts them into a Store.
type Importer struct {
	store *Store
	log   logrus.FieldLogger
}

// NewImporter creates an importer writing into store.
func NewImporter(store *Store, log logrus.FieldLogger) *Importer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{store: store, log: log.WithField("component", "importer")}
}

// Import walks roots and upserts every .mp3 and .flac file found.
// Unreadable files are counted and skipped.
func (im *Importer) Import(ctx context.Context, roots []string) (ImportResult, error) {
	var res ImportResult
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				im.log.WithError(err).WithField("path", path).Warn("skipping unreadable entry")
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !isAudioFile(path) {
				return nil
			}
			res.Scanned++

			t, err := readTrack(path)
			if err != nil {
				im.log.WithError(err).WithField("path", path).Warn("reading tags")
				res.Failed++
				return nil
			}

			_, existed := im.store.byMediaURI(t.MediaURI)
			if _, err := im.store.Upsert(ctx, t); err != nil {
				im.log.WithError(err).WithField("path", path).Error("storing track")
				res.Failed++
				return nil
			}
			if existed {
				res.Updated++
			} else {
				res.Added++
			}
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	im.log.WithFields(logrus.Fields{
		"scanned": res.Scanned,
		"added":   res.Added,
		"updated": res.Updated,
		"failed":  res.Failed,
	}).Info("import finished")
	return res, nil
}

func isAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".flac":
		return true
	}
	return false
}

func readTrack(path string) (Track, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Track{}, err
	}

	t := Track{
		Title:        strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		MediaURI:     FileURI(abs),
		Downloadable: true,
	}
	if art := FindAlbumArt(abs); art != "" {
		t.ImageURI = FileURI(art)
	}

	f, err := os.Open(abs)
	if err != nil {
		return Track{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// untagged files keep the file name as title
		return t, nil //nolint:nilerr // missing tags are not an import failure
	}
	if title := strings.TrimSpace(m.Title()); title != "" {
		t.Title = title
	}
	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	t.Artists = SplitArtists(artist)
	t.Lyrics = m.Lyrics()
	t.Description = m.Comment()
	return t, nil
}

// FileURI builds a file:// URI for an absolute path.
func FileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func (s *Store) byMediaURI(uri string) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tracks {
		if t.MediaURI == uri {
			return t.clone(), true
		}
	}
	return Track{}, false
}
