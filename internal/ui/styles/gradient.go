package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// GradientTitle renders text bold, fading from the theme's primary to its
// secondary color one grapheme cluster at a time.
func GradientTitle(text string) string {
	t := T()
	return gradient(text, t.Primary, t.Secondary)
}

func gradient(text string, from, to lipgloss.Color) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Bold(true).Foreground(from).Render(text)
	}

	colors := ramp(from, to, len(clusters))
	var b strings.Builder
	for i, c := range clusters {
		fg := lipgloss.Color(colors[i].Hex())
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(fg).Render(c))
	}
	return b.String()
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// ramp returns n >= 2 colors from a to b, evenly spaced in HCL.
func ramp(a, b lipgloss.Color, n int) []colorful.Color {
	from, to := toColorful(a), toColorful(b)
	out := make([]colorful.Color, n)
	for i := range n {
		out[i] = from.BlendHcl(to, float64(i)/float64(n-1)).Clamped()
	}
	return out
}

// toColorful parses a hex color. ANSI palette indexes map to mid gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
