// Package inkstyle renders entry ink tags with lipgloss.
package inkstyle

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/maimon495/gratitude/internal/models"
)

var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// Text returns the style used for an entry's content.
func Text(ink models.Ink) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ink.Color))
}

// Heading is Text in bold, underlined when the ink has a shimmer.
func Heading(ink models.Ink) lipgloss.Style {
	return Text(ink).Bold(true).Underline(ink.HasShimmer())
}

// Swatch is a colored dot, with a shimmer accent when the ink has one.
func Swatch(ink models.Ink) string {
	dot := Text(ink).Render("●")
	if ink.HasShimmer() {
		dot += lipgloss.NewStyle().Foreground(lipgloss.Color(ink.Shimmer)).Render("✦")
	}
	return dot
}

// Empty renders a placeholder dot for a day without an entry.
func Empty() string {
	return mutedStyle.Render("○")
}

// Bar renders n cells of the ink's color.
func Bar(ink models.Ink, n int) string {
	if n <= 0 {
		return ""
	}
	cells := make([]rune, n)
	for i := range cells {
		cells[i] = '█'
	}
	return Text(ink).Render(string(cells))
}
