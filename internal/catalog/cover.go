package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Album art names in priority order. Names match case-insensitively.
var (
	coverStems = []string{"cover", "folder", "album", "front"}
	coverExts  = []string{".jpg", ".png", ".jpeg"}
)

// FindAlbumArt returns the album art file next to trackPath, or "" when
// the directory has none.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", -1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if rank, ok := coverRank(e.Name()); ok && (bestRank < 0 || rank < bestRank) {
			best, bestRank = e.Name(), rank
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}

// coverRank orders album art candidates, lower first.
func coverRank(name string) (int, bool) {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	e := slices.Index(coverExts, ext)
	s := slices.Index(coverStems, strings.TrimSuffix(lower, ext))
	if e < 0 || s < 0 {
		return 0, false
	}
	return s*len(coverExts) + e, true
}
