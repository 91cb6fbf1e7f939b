package styles

import "github.com/charmbracelet/lipgloss"

func frame(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c)
}

// PanelStyle returns a rounded panel, highlighted when focused.
func PanelStyle(focused bool) lipgloss.Style {
	if focused {
		return frame(T().BorderFocus)
	}
	return frame(T().Border)
}

// ToastStyle frames transient notices drawn over the player.
func ToastStyle(isError bool) lipgloss.Style {
	c := T().Success
	if isError {
		c = T().Error
	}
	return frame(c).Foreground(c).Padding(0, 1)
}
