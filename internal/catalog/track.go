// Package catalog stores the track catalog and answers by-id and
// sequential lookups from an in-memory cache.
package catalog

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

const unknownArtist = "Unknown Artist"

// Track is a catalog record. It is read-only outside the catalog.
type Track struct {
	ID           int64
	Title        string
	Artists      []string
	ImageURI     string
	MediaURI     string
	Duration     time.Duration
	Downloadable bool
	Lyrics       string
	Description  string
	Listens      int64
	Likes        int64
	Downloads    int64
}

// ArtistLine joins the artist names for display.
func (t Track) ArtistLine() string {
	names := lo.Compact(lo.Map(t.Artists, func(a string, _ int) string {
		return strings.TrimSpace(a)
	}))
	if len(names) == 0 {
		return unknownArtist
	}
	return strings.Join(names, ", ")
}

// Lookup resolves tracks against the local cache.
// Every method reports false when no track matches.
type Lookup interface {
	ByID(id int64) (Track, bool)
	Next(currentID int64) (Track, bool)
	Previous(currentID int64) (Track, bool)
	Random() (Track, bool)
}

// SplitArtists splits a tag artist string into names.
func SplitArtists(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '/' || r == ','
	})
	return lo.Uniq(lo.Compact(lo.Map(parts, func(p string, _ int) string {
		return strings.TrimSpace(p)
	})))
}
