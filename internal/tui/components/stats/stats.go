package stats

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/components/inkstyle"
)

const barWidth = 24

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

type Model struct {
	stats    journal.Stats
	user     *models.User
	reminder string
	width    int
	height   int
	viewport viewport.Model
}

func New(width, height int) Model {
	m := Model{width: width, height: height, viewport: viewport.New(width, height)}
	m.updateViewportContent()
	return m
}

func (m *Model) SetStats(s journal.Stats) {
	m.stats = s
	m.updateViewportContent()
}

// SetAccount shows the signed-in user, or nil when signed out.
func (m *Model) SetAccount(u *models.User) {
	m.user = u
	m.updateViewportContent()
}

// SetReminder shows a one-line reminder status such as "daily at 20:00".
func (m *Model) SetReminder(status string) {
	m.reminder = status
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

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func (m *Model) updateViewportContent() {
	s := m.stats
	sections := []string{titleStyle.Render("Your Journal")}

	summary := []string{
		row("Total entries", fmt.Sprintf("%d", s.TotalEntries)),
		row("Current streak", fmt.Sprintf("%d days", s.CurrentStreak)),
		row("Longest streak", fmt.Sprintf("%d days", s.LongestStreak)),
	}
	if !s.FirstDay.IsZero() {
		summary = append(summary, row("Writing since", s.FirstDay.Format(constants.ShortDateFormat)))
	}
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, summary...))

	var inks []string
	for _, ink := range models.Inks() {
		n := s.InkCounts[ink.Code]
		width := 0
		if s.TotalEntries > 0 {
			width = n * barWidth / s.TotalEntries
		}
		inks = append(inks, fmt.Sprintf("%s %s %s %d", inkstyle.Swatch(ink), labelStyle.Render(ink.Name), inkstyle.Bar(ink, width), n))
	}
	sections = append(sections, sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, inks...)))

	account := "Not signed in"
	if m.user != nil {
		account = m.user.Greeting()
		if m.user.Email != "" {
			account += " <" + m.user.Email + ">"
		}
	}
	settings := []string{row("Account", account)}
	if m.reminder != "" {
		settings = append(settings, row("Reminder", m.reminder))
	}
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, settings...))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
