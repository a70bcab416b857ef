package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/tui/handlers"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Background notifications are handled in every state
	switch msg := msg.(type) {
	case snapshotMsg:
		m.Refresh()
		return m, waitForSnapshot(m.snapshots)
	case authMsg:
		m.RefreshAccount()
		return m, waitForAccount(m.accounts)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		// Adjust height for tabs, status and help
		listHeight := msg.Height - 5

		h, v := docStyle.GetFrameSize()
		m.TodayModel.SetSize(msg.Width-h, listHeight-v)
		m.WeekModel.SetSize(msg.Width-h, listHeight-v)
		m.MemoriesModel.SetSize(msg.Width-h, listHeight-v)
		m.StatsModel.SetSize(msg.Width-h, listHeight-v)
		m.Search.Width = msg.Width - h - 4
		return m, nil
	}

	switch m.State {
	case constants.StateWriting:
		return m, handlers.HandleWritingState(&m.Model, msg)
	case constants.StateConfirmDelete:
		return m, handlers.HandleConfirmDeleteState(&m.Model, msg)
	case constants.StateEditSettings:
		return m, handlers.HandleEditSettingsState(&m.Model, msg)
	case constants.StateSearching:
		return m, handlers.HandleSearchState(&m.Model, msg)
	}

	switch msg := msg.(type) {
	case constants.WriteEntryMsg:
		return m, handlers.StartWriting(&m.Model, msg)
	case constants.DeleteEntryMsg:
		return m, handlers.StartDelete(&m.Model, msg)
	case constants.SearchMsg:
		return m, handlers.StartSearch(&m.Model)
	case tea.KeyMsg:
		m.StatusMessage = ""
		if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
			return m, cmd
		}
		if m.State == constants.StateStats && msg.String() == "s" {
			return m, handlers.StartEditSettings(&m.Model)
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateToday:
		m.TodayModel, cmd = m.TodayModel.Update(msg)
	case constants.StateWeek:
		m.WeekModel, cmd = m.WeekModel.Update(msg)
	case constants.StateOnThisDay:
		m.MemoriesModel, cmd = m.MemoriesModel.Update(msg)
	case constants.StateStats:
		m.StatsModel, cmd = m.StatsModel.Update(msg)
	}
	return m, cmd
}
