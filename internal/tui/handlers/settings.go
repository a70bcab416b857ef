package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/tui/state"
)

// StartEditSettings opens the settings form with the stored values.
func StartEditSettings(m *state.Model) tea.Cmd {
	if m.SettingsStore == nil {
		return nil
	}
	s, err := m.SettingsStore.Settings(m.Ctx)
	if err != nil {
		m.StatusMessage = fmt.Sprintf("Failed to load settings: %v", err)
		return nil
	}
	m.SettingsForm = &state.SettingsFormModel{
		ReminderEnabled: s.ReminderEnabled,
		ReminderTime:    s.ReminderTime,
		Timezone:        s.Timezone,
		WeekStart:       s.WeekStart,
	}
	m.Form = NewSettingsForm(m.SettingsForm)
	m.FormError = ""
	m.PreviousState = m.State
	m.State = constants.StateEditSettings
	return m.Form.Init()
}

// HandleEditSettingsState drives the settings form
func HandleEditSettingsState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.State = m.PreviousState
		return nil
	}

	var cmds []tea.Cmd
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		s, err := m.SettingsStore.Settings(m.Ctx)
		if err == nil {
			fm := m.SettingsForm
			s.ReminderEnabled = fm.ReminderEnabled
			s.ReminderTime = fm.ReminderTime
			s.Timezone = fm.Timezone
			s.WeekStart = fm.WeekStart
			err = m.SettingsStore.ApplySettings(m.Ctx, s)
		}
		if err != nil {
			// Stay in form state on save error
			m.FormError = fmt.Sprintf("Failed to save settings: %v", err)
			m.Form = NewSettingsForm(m.SettingsForm)
			cmds = append(cmds, m.Form.Init())
			return tea.Batch(cmds...)
		}
		m.FormError = ""
		m.StatusMessage = "Settings saved. Timezone and week start apply on next launch."
		m.Refresh()
		m.State = m.PreviousState
	case huh.StateAborted:
		m.State = m.PreviousState
	}
	return tea.Batch(cmds...)
}
