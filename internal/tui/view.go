package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/tui/handlers"
)

var tabTitles = map[constants.SessionState]string{
	constants.StateToday:     "Today",
	constants.StateWeek:      "Week",
	constants.StateOnThisDay: "On This Day",
	constants.StateStats:     "Stats",
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string

	switch m.State {
	case constants.StateToday:
		content = docStyle.Render(m.TodayModel.View())
	case constants.StateWeek:
		content = docStyle.Render(m.WeekModel.View())
	case constants.StateSearching:
		content = docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.Search.View(), "", m.WeekModel.View()))
	case constants.StateOnThisDay:
		content = docStyle.Render(m.MemoriesModel.View())
	case constants.StateStats:
		content = docStyle.Render(m.StatsModel.View())
	case constants.StateWriting, constants.StateEditSettings:
		content = docStyle.Render(m.Form.View())
		if m.FormError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render(m.FormError))
		}
	case constants.StateConfirmDelete:
		content = lipgloss.Place(m.Width, m.Height-4,
			lipgloss.Center, lipgloss.Center,
			m.Form.View(),
		)
	}

	var banner string
	if len(m.ValidationConflicts) > 0 && m.State == constants.StateWeek {
		banner = m.viewConflictBanner()
	}

	var status string
	if m.StatusMessage != "" {
		status = statusStyle.Render(m.StatusMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		status,
		m.Help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.State
	if active == constants.StateSearching {
		active = constants.StateWeek
	}
	if _, ok := tabTitles[active]; !ok {
		active = m.PreviousState
	}

	var tabs []string
	for _, s := range handlers.Tabs {
		if s == active {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[s]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConflictBanner() string {
	bannerText := fmt.Sprintf("⚠ %d CONFLICT(S) DETECTED · run `gratitude doctor --fix`", len(m.ValidationConflicts))
	return bannerStyle.Render(bannerText)
}
