package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/tui/state"
)

// StartWriting opens the entry form for day, prefilled when the day already
// has an entry.
func StartWriting(m *state.Model, msg constants.WriteEntryMsg) tea.Cmd {
	m.EntryForm = state.NewEntryFormModel(msg.Day, m.EntryFor(msg.Day))
	m.Form = NewEntryForm(m.EntryForm)
	m.FormError = ""
	m.PreviousState = m.State
	m.State = constants.StateWriting
	return m.Form.Init()
}

// HandleWritingState drives the entry form and saves on completion
func HandleWritingState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.FormError = "" // Clear error on cancel
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
		fm := m.EntryForm
		if _, err := m.Journal.Save(m.Ctx, fm.Day, fm.Content, fm.Ink, fm.Font); err != nil {
			if journal.IsUserError(err) {
				m.FormError = err.Error()
			} else {
				m.FormError = fmt.Sprintf("Failed to save entry: %v", err)
			}
			// Stay in the form so the text is not lost
			m.Form = NewEntryForm(fm)
			cmds = append(cmds, m.Form.Init())
			return tea.Batch(cmds...)
		}
		m.FormError = ""
		m.StatusMessage = "Saved ✓"
		m.Refresh()
		m.State = m.PreviousState
	case huh.StateAborted:
		m.FormError = "" // Clear error on abort
		m.State = m.PreviousState
	}
	return tea.Batch(cmds...)
}
