package today

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/components/inkstyle"
)

type KeyMap struct {
	Write  key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Write: key.NewBinding(
			key.WithKeys("w", "e", "enter"),
			key.WithHelp("w", "write"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	entry    *models.Entry
	streak   int
	day      time.Time
	keys     KeyMap
	width    int
	height   int
	viewport viewport.Model
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginTop(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(width, height int) Model {
	m := Model{
		keys:     DefaultKeyMap(),
		width:    width,
		height:   height,
		viewport: viewport.New(width, height),
	}
	m.updateViewportContent()
	return m
}

// SetEntry shows entry (nil when nothing is written yet) for day.
func (m *Model) SetEntry(entry *models.Entry, day time.Time, streak int) {
	m.entry = entry
	m.day = day
	m.streak = streak
	m.updateViewportContent()
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Write):
			day := m.day
			return m, func() tea.Msg { return constants.WriteEntryMsg{Day: day} }
		case key.Matches(msg, m.keys.Delete):
			if m.entry != nil {
				day := m.entry.Day
				return m, func() tea.Msg { return constants.DeleteEntryMsg{Day: day} }
			}
			return m, nil
		}
	}
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

func (m *Model) updateViewportContent() {
	var sections []string

	sections = append(sections, titleStyle.Render("Today"))
	if !m.day.IsZero() {
		sections = append(sections, dateStyle.Render(m.day.Format(constants.ElegantDateFormat)))
	}

	switch m.streak {
	case 0:
		sections = append(sections, emptyStyle.Render("No streak yet"))
	case 1:
		sections = append(sections, streakStyle.Render("🔥 1 day streak"))
	default:
		sections = append(sections, streakStyle.Render(fmt.Sprintf("🔥 %d day streak", m.streak)))
	}

	if m.entry == nil {
		sections = append(sections, sectionStyle.Render(emptyStyle.Render("What are you grateful for today?")))
	} else {
		ink := m.entry.Ink()
		body := inkstyle.Text(ink).Width(max(m.width-4, 20)).Render(m.entry.Content)
		sections = append(sections, sectionStyle.Render(body))
		sections = append(sections, metaStyle.Render(fmt.Sprintf("%s %s · %s", inkstyle.Swatch(ink), ink.Name, m.entry.Typeface().Name)))
	}

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'w' to write, 'd' to delete")
	sections = append(sections, helpText)

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
