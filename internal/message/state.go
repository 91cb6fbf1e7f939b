package message

// State is the playback state owned by the session owner and replicated
// by observers. It is a plain value; copies never alias each other.
type State struct {
	TrackID          int64 // 0 when no track is loaded
	Title            string
	Artist           string
	ImageURI         string
	PositionMs       uint64
	DurationMs       uint64
	IsPlaying        bool
	IsLoopEnabled    bool
	IsShuffleEnabled bool
	IsFavorite       bool
}

// HasTrack reports whether a current track is set.
func (s State) HasTrack() bool {
	return s.TrackID > 0
}

// Clamp enforces the state invariants: position never exceeds a known
// duration, and nothing plays without a current track.
func (s State) Clamp() State {
	if s.DurationMs > 0 && s.PositionMs > s.DurationMs {
		s.PositionMs = s.DurationMs
	}
	if !s.HasTrack() {
		s.IsPlaying = false
	}
	return s
}

// Args encodes the full state as a snapshot payload.
func (s State) Args() Args {
	return Args{
		KeySongID:           s.TrackID,
		KeyTitle:            s.Title,
		KeyArtist:           s.Artist,
		KeyImageURI:         s.ImageURI,
		KeyPositionMs:       s.PositionMs,
		KeyDurationMs:       s.DurationMs,
		KeyIsPlaying:        s.IsPlaying,
		KeyIsLoopEnabled:    s.IsLoopEnabled,
		KeyIsShuffleEnabled: s.IsShuffleEnabled,
		KeyIsFavorite:       s.IsFavorite,
	}
}

// StateFromArgs decodes a snapshot payload. Missing keys yield zero values.
func StateFromArgs(a Args) State {
	var s State
	s.TrackID, _ = a.Int64(KeySongID)
	s.Title, _ = a.String(KeyTitle)
	s.Artist, _ = a.String(KeyArtist)
	s.ImageURI, _ = a.String(KeyImageURI)
	s.PositionMs, _ = a.Uint64(KeyPositionMs)
	s.DurationMs, _ = a.Uint64(KeyDurationMs)
	s.IsPlaying, _ = a.Bool(KeyIsPlaying)
	s.IsLoopEnabled, _ = a.Bool(KeyIsLoopEnabled)
	s.IsShuffleEnabled, _ = a.Bool(KeyIsShuffleEnabled)
	s.IsFavorite, _ = a.Bool(KeyIsFavorite)
	return s.Clamp()
}

// Merge overwrites only the fields present in a.
func (s State) Merge(a Args) State {
	if v, ok := a.Int64(KeySongID); ok {
		s.TrackID = v
	}
	if v, ok := a.String(KeyTitle); ok {
		s.Title = v
	}
	if v, ok := a.String(KeyArtist); ok {
		s.Artist = v
	}
	if v, ok := a.String(KeyImageURI); ok {
		s.ImageURI = v
	}
	if v, ok := a.Uint64(KeyPositionMs); ok {
		s.PositionMs = v
	}
	if v, ok := a.Uint64(KeyDurationMs); ok {
		s.DurationMs = v
	}
	if v, ok := a.Bool(KeyIsPlaying); ok {
		s.IsPlaying = v
	}
	if v, ok := a.Bool(KeyIsLoopEnabled); ok {
		s.IsLoopEnabled = v
	}
	if v, ok := a.Bool(KeyIsShuffleEnabled); ok {
		s.IsShuffleEnabled = v
	}
	if v, ok := a.Bool(KeyIsFavorite); ok {
		s.IsFavorite = v
	}
	return s.Clamp()
}
