package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maimon495/gratitude/internal/auth"
	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/journal"
	"github.com/maimon495/gratitude/internal/tui/state"
)

// snapshotMsg carries a journal change into the update loop.
type snapshotMsg journal.Snapshot

// authMsg carries a sign-in change into the update loop.
type authMsg auth.State

type Model struct {
	state.Model
	snapshots chan journal.Snapshot
	accounts  chan auth.State
	unsubs    []func()
}

// NewModel builds the TUI over a loaded journal. a, r and ss may be nil.
func NewModel(ctx context.Context, j *journal.Journal, a *auth.Service, r state.Reminder, ss state.SettingsStore) Model {
	m := Model{
		Model:     state.New(ctx, j, a, r, ss),
		snapshots: make(chan journal.Snapshot, 1),
		accounts:  make(chan auth.State, 1),
	}

	m.unsubs = append(m.unsubs, j.Subscribe(func(s journal.Snapshot) {
		offer(m.snapshots, s)
	}))
	if a != nil {
		m.unsubs = append(m.unsubs, a.Subscribe(func(s auth.State) {
			offer(m.accounts, s)
		}))
	}
	return m
}

// offer replaces any undelivered value so the listener sees the latest one.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Close drops the journal and auth subscriptions.
func (m Model) Close() {
	for _, fn := range m.unsubs {
		fn()
	}
}

func waitForSnapshot(ch chan journal.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

func waitForAccount(ch chan auth.State) tea.Cmd {
	return func() tea.Msg {
		return authMsg(<-ch)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), waitForAccount(m.accounts))
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.Keys.Tab, m.Keys.Quit, m.Keys.Help}
	switch m.State {
	case constants.StateToday:
		keys = append(keys, m.TodayModel.Keys().Write, m.TodayModel.Keys().Delete)
	case constants.StateWeek:
		keys = append(keys, m.Keys.Search)
	case constants.StateStats:
		keys = append(keys, m.Keys.Settings)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.Keys.Tab, m.Keys.ShiftTab, m.Keys.Refresh, m.Keys.Quit, m.Keys.Help}

	var actions []key.Binding
	switch m.State {
	case constants.StateToday:
		actions = []key.Binding{m.TodayModel.Keys().Write, m.TodayModel.Keys().Delete}
	case constants.StateWeek:
		wk := m.WeekModel.Keys()
		actions = []key.Binding{wk.Prev, wk.Next, wk.Write, wk.Delete, wk.Search}
	case constants.StateStats:
		actions = []key.Binding{m.Keys.Settings}
	}

	return [][]key.Binding{global, actions}
}
