package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/tui/state"
)

// Tabs is the display order of the main views.
var Tabs = []constants.SessionState{
	constants.StateToday,
	constants.StateWeek,
	constants.StateOnThisDay,
	constants.StateStats,
}

func tabIndex(s constants.SessionState) int {
	for i, t := range Tabs {
		if t == s {
			return i
		}
	}
	return -1
}

// HandleGlobalKeys handles global key presses
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.Quitting = true
		return true, tea.Quit
	case "tab":
		// Sub-states such as the entry form keep focus
		if i := tabIndex(m.State); i >= 0 {
			m.State = Tabs[(i+1)%len(Tabs)]
		}
		return true, nil
	case "shift+tab":
		if i := tabIndex(m.State); i >= 0 {
			m.State = Tabs[(i+len(Tabs)-1)%len(Tabs)]
		}
		return true, nil
	case "ctrl+r":
		if err := m.Journal.Load(m.Ctx); err != nil {
			m.StatusMessage = "Reload failed: " + err.Error()
		} else {
			m.StatusMessage = ""
		}
		m.Refresh()
		return true, nil
	case "?":
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	}
	return false, nil
}
