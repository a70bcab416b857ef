package week

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/tui/components/inkstyle"
	"github.com/maimon495/gratitude/internal/utils"
)

// Item is one day of the visible week.
type Item struct {
	Day   time.Time
	Entry *models.Entry
}

func (i Item) Title() string {
	label := i.Day.Format("Mon Jan 2")
	if i.Entry == nil {
		return inkstyle.Empty() + " " + label
	}
	return inkstyle.Swatch(i.Entry.Ink()) + " " + label
}

func (i Item) Description() string {
	if i.Entry == nil {
		return "nothing written"
	}
	return i.Entry.Preview(60)
}

func (i Item) FilterValue() string {
	if i.Entry == nil {
		return ""
	}
	return i.Entry.Content
}

type KeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Write  key.Binding
	Delete key.Binding
	Search key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "["),
			key.WithHelp("←", "older week"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "]"),
			key.WithHelp("→", "newer week"),
		),
		Write: key.NewBinding(
			key.WithKeys("enter", "w"),
			key.WithHelp("enter", "write"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	list  list.Model
	keys  KeyMap
	weeks []journal.Week
	page  int // 0 is the most recent week
	query string
	today time.Time
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Prev, keys.Next, keys.Write, keys.Search}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Prev, keys.Next, keys.Write, keys.Delete, keys.Search}
	}

	return Model{list: l, keys: keys}
}

// SetWeeks replaces the pages. The current page is kept when it still exists.
func (m *Model) SetWeeks(weeks []journal.Week, query string, today time.Time) {
	m.weeks = weeks
	m.query = query
	m.today = today
	if m.page >= len(weeks) {
		m.page = max(len(weeks)-1, 0)
	}
	m.refreshItems()
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// Page returns the index of the visible week, 0 being the most recent.
func (m Model) Page() int {
	return m.page
}

// Current returns the visible week.
func (m Model) Current() (journal.Week, bool) {
	if m.page < 0 || m.page >= len(m.weeks) {
		return journal.Week{}, false
	}
	return m.weeks[m.page], true
}

func (m *Model) refreshItems() {
	w, ok := m.Current()
	if !ok {
		m.list.SetItems(nil)
		return
	}
	var items []list.Item
	for i, e := range w.Days {
		day := utils.AddDays(w.Start, i)
		// Empty future days are not selectable.
		if e == nil && !m.today.IsZero() && utils.DaysBetween(m.today, day) > 0 {
			continue
		}
		items = append(items, Item{Day: day, Entry: e})
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Prev):
			if m.page < len(m.weeks)-1 {
				m.page++
				m.refreshItems()
			}
			return m, nil
		case key.Matches(msg, m.keys.Next):
			if m.page > 0 {
				m.page--
				m.refreshItems()
			}
			return m, nil
		case key.Matches(msg, m.keys.Search):
			return m, func() tea.Msg { return constants.SearchMsg{} }
		case key.Matches(msg, m.keys.Write):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return constants.WriteEntryMsg{Day: i.Day} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Entry != nil {
				return m, func() tea.Msg { return constants.DeleteEntryMsg{Day: i.Day} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	w, ok := m.Current()
	if !ok {
		return countStyle.Render("No weeks match your search.")
	}

	end := utils.AddDays(w.Start, 6)
	header := headerStyle.Render(fmt.Sprintf("%s – %s", w.Start.Format("Jan 2"), end.Format(constants.ShortDateFormat)))
	count := countStyle.Render(fmt.Sprintf("%d/7 days · page %d of %d", w.Count(), m.page+1, len(m.weeks)))
	if m.query != "" {
		count += countStyle.Render(fmt.Sprintf(" · matching %q", m.query))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, count, "", m.list.View())
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-3)
}
