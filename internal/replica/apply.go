package replica

import "github.com/llehouerou/musichub/internal/message"

// Apply folds one message into s. Only fields carried by the message
// change; nothing is inferred.
func Apply(s message.State, m message.Message) message.State {
	switch v := m.(type) {
	case message.Event:
		return applyEvent(s, v)
	case message.FavoriteChanged:
		return setFavorite(s, v.TrackID, v.Favorite)
	case message.SessionClosed:
		return message.State{}
	}
	return s
}

func applyEvent(s message.State, ev message.Event) message.State {
	switch ev.Action {
	case message.EvtLoaded, message.EvtNext, message.EvtPrevious, message.EvtPositionUpdate:
		return s.Merge(ev.Payload)
	case message.EvtCurrentSong:
		return message.StateFromArgs(ev.Payload)
	case message.EvtPaused, message.EvtCompleted:
		s.IsPlaying = false
	case message.EvtResumed:
		s.IsPlaying = true
	case message.EvtLoopOn, message.EvtLoopOff:
		s.IsLoopEnabled = ev.Action == message.EvtLoopOn
	case message.EvtShuffleOn, message.EvtShuffleOff:
		s.IsShuffleEnabled = ev.Action == message.EvtShuffleOn
	case message.EvtAddedFavorite, message.EvtRemovedFavorite:
		id, ok := ev.Payload.Int64(message.KeySongID)
		if !ok {
			return s
		}
		return setFavorite(s, id, ev.Action == message.EvtAddedFavorite)
	}
	return s.Clamp()
}

func setFavorite(s message.State, trackID int64, favorite bool) message.State {
	if trackID == s.TrackID && s.HasTrack() {
		s.IsFavorite = favorite
	}
	return s
}
