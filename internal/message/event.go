package message

// Message is anything carried on the event channel: named broadcast events
// and typed domain events.
type Message interface {
	isMessage()
}

// EventAction names a broadcast event.
type EventAction string

// Event actions.
const (
	EvtLoading          EventAction = "LOADING"
	EvtLoaded           EventAction = "LOADED"
	EvtPaused           EventAction = "PAUSED"
	EvtResumed          EventAction = "RESUMED"
	EvtCompleted        EventAction = "COMPLETED"
	EvtPositionUpdate   EventAction = "POSITION_UPDATE"
	EvtNext             EventAction = "NEXT"
	EvtPrevious         EventAction = "PREVIOUS"
	EvtCurrentSong      EventAction = "CURRENT_SONG"
	EvtLoopOn           EventAction = "LOOP_ON"
	EvtLoopOff          EventAction = "LOOP_OFF"
	EvtShuffleOn        EventAction = "SHUFFLE_ON"
	EvtShuffleOff       EventAction = "SHUFFLE_OFF"
	EvtAddedFavorite    EventAction = "ADDED_TO_FAVORITES"
	EvtRemovedFavorite  EventAction = "REMOVED_FROM_FAVORITES"
	EvtDownloadComplete EventAction = "DOWNLOAD_COMPLETE"
)

// Event is a named broadcast message.
type Event struct {
	Action  EventAction
	Payload Args
}

func (Event) isMessage() {}

// NewEvent builds an event. A nil payload is replaced by an empty one.
func NewEvent(action EventAction, payload Args) Event {
	if payload == nil {
		payload = Args{}
	}
	return Event{Action: action, Payload: payload}
}

// FavoriteChanged is published when a track's favorite flag is confirmed.
type FavoriteChanged struct {
	TrackID  int64
	Favorite bool
}

func (FavoriteChanged) isMessage() {}

// ListenRecorded is published after a listen was counted for a track.
type ListenRecorded struct {
	TrackID int64
}

func (ListenRecorded) isMessage() {}

// SessionClosed is published once a playback session has terminated.
type SessionClosed struct{}

func (SessionClosed) isMessage() {}

// PositionUpdate builds a POSITION_UPDATE event.
func PositionUpdate(positionMs, durationMs uint64) Event {
	return NewEvent(EvtPositionUpdate, Args{
		KeyPositionMs: positionMs,
		KeyDurationMs: durationMs,
	})
}

// Loaded builds a LOADED event describing the freshly loaded track.
func Loaded(s State) Event {
	return NewEvent(EvtLoaded, Args{
		KeySongID:     s.TrackID,
		KeyTitle:      s.Title,
		KeyArtist:     s.Artist,
		KeyImageURI:   s.ImageURI,
		KeyPositionMs: s.PositionMs,
		KeyDurationMs: s.DurationMs,
		KeyIsPlaying:  s.IsPlaying,
		KeyIsFavorite: s.IsFavorite,
	})
}

// TrackChanged builds a NEXT or PREVIOUS event.
func TrackChanged(action EventAction, s State) Event {
	return NewEvent(action, Args{
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
	})
}

// CurrentSong builds a CURRENT_SONG snapshot event.
func CurrentSong(s State) Event {
	return NewEvent(EvtCurrentSong, s.Args())
}

// FavoriteEvent builds ADDED_TO_FAVORITES or REMOVED_FROM_FAVORITES.
func FavoriteEvent(songID int64, favorite bool) Event {
	action := EvtRemovedFavorite
	if favorite {
		action = EvtAddedFavorite
	}
	return NewEvent(action, Args{KeySongID: songID})
}

// DownloadComplete builds a DOWNLOAD_COMPLETE event.
func DownloadComplete(songID int64, filePath string) Event {
	return NewEvent(EvtDownloadComplete, Args{
		KeySongID:   songID,
		KeyFilePath: filePath,
	})
}

// LoopEvent returns LOOP_ON or LOOP_OFF.
func LoopEvent(enabled bool) Event {
	if enabled {
		return NewEvent(EvtLoopOn, nil)
	}
	return NewEvent(EvtLoopOff, nil)
}

// ShuffleEvent returns SHUFFLE_ON or SHUFFLE_OFF.
func ShuffleEvent(enabled bool) Event {
	if enabled {
		return NewEvent(EvtShuffleOn, nil)
	}
	return NewEvent(EvtShuffleOff, nil)
}
