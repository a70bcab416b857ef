package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/tui/state"
)

// StartSearch focuses the search box on the week view.
func StartSearch(m *state.Model) tea.Cmd {
	m.State = constants.StateSearching
	m.Search.SetValue(m.Query)
	m.Search.CursorEnd()
	return m.Search.Focus()
}

// HandleSearchState filters the week pages as the user types. Enter keeps
// the filter, esc clears it.
func HandleSearchState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.Search.Blur()
			m.State = constants.StateWeek
			return nil
		case tea.KeyEsc:
			m.Search.Blur()
			m.Search.SetValue("")
			m.Query = ""
			m.Refresh()
			m.State = constants.StateWeek
			return nil
		}
	}

	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	if q := m.Search.Value(); q != m.Query {
		m.Query = q
		m.WeekModel.SetWeeks(m.Journal.Weeks(q), q, m.Journal.Now())
	}
	return cmd
}
