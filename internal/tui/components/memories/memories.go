package memories

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/components/inkstyle"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	agoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			MarginBottom(1)
)

type Model struct {
	entries  []models.Entry
	today    time.Time
	width    int
	height   int
	viewport viewport.Model
}

func New(width, height int) Model {
	m := Model{width: width, height: height, viewport: viewport.New(width, height)}
	m.updateViewportContent()
	return m
}

// SetEntries shows entries from today's month and day in earlier years.
func (m *Model) SetEntries(entries []models.Entry, today time.Time) {
	m.entries = entries
	m.today = today
	m.updateViewportContent()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateViewportContent()
}

// YearsAgo labels an entry relative to today.
func YearsAgo(day, today time.Time) string {
	n := today.Year() - day.Year()
	if n == 1 {
		return "1 year ago"
	}
	return fmt.Sprintf("%d years ago", n)
}

func (m *Model) updateViewportContent() {
	sections := []string{titleStyle.Render("On This Day")}

	if len(m.entries) == 0 {
		sections = append(sections, emptyStyle.Render("No memories from this day yet. Keep writing!"))
	}
	for _, e := range m.entries {
		ink := e.Ink()
		heading := agoStyle.Render(YearsAgo(e.Day, m.today)) + "  " + emptyStyle.Render(e.Day.Format(constants.ShortDateFormat))
		body := inkstyle.Text(ink).Width(max(m.width-4, 20)).Render(e.Content)
		sections = append(sections, sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, inkstyle.Swatch(ink)+" "+heading, body)))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
