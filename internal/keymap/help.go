package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// Help adapts the bindings to the bubbles help component.
type Help struct {
	short []key.Binding
	full  [][]key.Binding
}

var _ help.KeyMap = Help{}

// NewHelp builds the help key map. The short view lists playback keys.
func NewHelp() Help {
	var h Help
	for _, ctx := range []string{"playback", "scrub", "global"} {
		col := make([]key.Binding, 0, len(Bindings))
		for _, b := range ByContext(ctx) {
			col = append(col, toKey(b))
		}
		h.full = append(h.full, col)
	}
	for _, a := range []Action{ActionPlayPause, ActionNextTrack, ActionPrevTrack, ActionToggleFull, ActionHelp, ActionQuit} {
		for _, b := range Bindings {
			if b.Action == a {
				h.short = append(h.short, toKey(b))
				break
			}
		}
	}
	return h
}

func (h Help) ShortHelp() []key.Binding { return h.short }

func (h Help) FullHelp() [][]key.Binding { return h.full }

func toKey(b Binding) key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(displayKey(b.Keys[0]), strings.ToLower(b.Description)),
	)
}

func displayKey(k string) string {
	switch k {
	case " ":
		return "space"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	return k
}
