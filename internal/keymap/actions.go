// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionToggleFull Action = "toggle_full"
	ActionHelp       Action = "help"

	// Playback actions
	ActionPlayPause      Action = "play_pause"
	ActionNextTrack      Action = "next_track"
	ActionPrevTrack      Action = "prev_track"
	ActionToggleLoop     Action = "toggle_loop"
	ActionToggleShuffle  Action = "toggle_shuffle"
	ActionToggleFavorite Action = "toggle_favorite"
	ActionDownload       Action = "download"
	ActionCloseSession   Action = "close_session"

	// Scrub actions (position drag)
	ActionScrubBack    Action = "scrub_back"
	ActionScrubForward Action = "scrub_forward"
	ActionScrubCommit  Action = "scrub_commit"
	ActionScrubCancel  Action = "scrub_cancel"
)
