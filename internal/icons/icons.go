// Package icons selects the glyphs used for playback toggles.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs of one style.
type Icons struct {
	Loop     string
	Shuffle  string
	Favorite string
}

var (
	nerdIcons = Icons{
		Loop:     "󰑘", // nf-md-repeat_once
		Shuffle:  "󰒟", // nf-md-shuffle
		Favorite: "󰣐", // nf-md-heart
	}

	unicodeIcons = Icons{
		Loop:     "⟳",
		Shuffle:  "⤨",
		Favorite: "♥",
	}

	noneIcons = Icons{
		Loop:     "[L]",
		Shuffle:  "[S]",
		Favorite: "*",
	}

	current = unicodeIcons
)

// Init selects the icon style. Unknown styles fall back to unicode.
// Call it once at startup, before rendering.
func Init(style string) {
	current = ForStyle(Style(style))
}

// ForStyle returns the glyphs of style.
func ForStyle(style Style) Icons {
	switch style {
	case StyleNerd:
		return nerdIcons
	case StyleNone:
		return noneIcons
	default:
		return unicodeIcons
	}
}

// Loop returns the loop (repeat one) icon.
func Loop() string {
	return current.Loop
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// Favorite returns the favorite/heart icon.
func Favorite() string {
	return current.Favorite
}
