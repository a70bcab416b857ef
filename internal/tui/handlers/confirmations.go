package handlers

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/tui/state"
)

// StartDelete asks before deleting the entry on msg.Day.
func StartDelete(m *state.Model, msg constants.DeleteEntryMsg) tea.Cmd {
	if m.EntryFor(msg.Day) == nil {
		return nil
	}
	m.DayToDelete = msg.Day
	m.ConfirmationForm = &state.ConfirmationFormModel{
		Message: fmt.Sprintf("Delete your entry for %s?", msg.Day.Format(constants.ElegantDateFormat)),
	}
	m.Form = NewConfirmationForm(m.ConfirmationForm)
	m.PreviousState = m.State
	m.State = constants.StateConfirmDelete
	return m.Form.Init()
}

// HandleConfirmDeleteState handles the delete confirmation state
func HandleConfirmDeleteState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.DayToDelete = time.Time{}
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
		if m.ConfirmationForm.Confirmed {
			if e := m.EntryFor(m.DayToDelete); e != nil {
				if err := m.Journal.Delete(m.Ctx, e.ID); err != nil {
					m.StatusMessage = fmt.Sprintf("Failed to delete entry: %v", err)
				} else {
					m.StatusMessage = "Entry deleted. Restore it with `gratitude restore " + e.Day.Format(constants.DateFormat) + "`"
					m.Refresh()
				}
			}
		}
		m.DayToDelete = time.Time{}
		m.State = m.PreviousState
	case huh.StateAborted:
		m.DayToDelete = time.Time{}
		m.State = m.PreviousState
	}
	return tea.Batch(cmds...)
}
