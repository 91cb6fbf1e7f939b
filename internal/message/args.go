// Package message defines the command and event protocol shared by the
// session owner, its observers and the download workflow.
package message

import "github.com/spf13/cast"

// Argument keys used in command and event maps.
const (
	KeySongID           = "songId"
	KeyMediaURI         = "mediaUri"
	KeyTitle            = "title"
	KeyArtist           = "artist"
	KeyImageURI         = "imageUri"
	KeyPositionMs       = "positionMs"
	KeyDurationMs       = "durationMs"
	KeyIsPlaying        = "isPlaying"
	KeyIsLoopEnabled    = "isLoopEnabled"
	KeyIsShuffleEnabled = "isShuffleEnabled"
	KeyIsFavorite       = "isFavorite"
	KeyFilePath         = "filePath"
)

// Args is a flat map of scalar arguments.
// Values may arrive as any numeric or string type; getters coerce them.
type Args map[string]any

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Int64 returns the value for key as int64.
func (a Args) Int64(key string) (int64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Uint64 returns the value for key as uint64. Negative values are rejected.
func (a Args) Uint64(key string) (uint64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	n, err := cast.ToUint64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bool returns the value for key as bool.
func (a Args) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// String returns the value for key as string.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// Clone returns a shallow copy. Values are scalars, so the copy is independent.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
