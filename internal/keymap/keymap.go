package keymap

import "github.com/samber/lo"

// Binding maps keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "scrub"
}

// Bindings is the full key map of the player.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionToggleFull, []string{"tab"}, "Toggle full player", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNextTrack, []string{"n"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p"}, "Previous track", "playback"},
	{ActionToggleLoop, []string{"l"}, "Toggle loop", "playback"},
	{ActionToggleShuffle, []string{"s"}, "Toggle shuffle", "playback"},
	{ActionToggleFavorite, []string{"f"}, "Toggle favorite", "playback"},
	{ActionDownload, []string{"d"}, "Download track", "playback"},
	{ActionCloseSession, []string{"x"}, "Stop session", "playback"},

	// Scrub
	{ActionScrubBack, []string{"left", "h"}, "Scrub -5s", "scrub"},
	{ActionScrubForward, []string{"right"}, "Scrub +5s", "scrub"},
	{ActionScrubCommit, []string{"enter"}, "Seek to scrub position", "scrub"},
	{ActionScrubCancel, []string{"esc"}, "Cancel scrub", "scrub"},
}

// ByContext returns the bindings of one context in declaration order.
func ByContext(context string) []Binding {
	return lo.Filter(Bindings, func(b Binding, _ int) bool {
		return b.Context == context
	})
}
