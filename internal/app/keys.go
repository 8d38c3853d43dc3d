package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/folio/internal/config"
	"github.com/Gaurav-Gosain/folio/internal/tape"
)

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	action := m.keys.GetAction(key)

	if m.showHelp {
		// Only quit and the help toggle reach through the overlay.
		switch {
		case action == config.ActionQuit:
		case action == config.ActionToggleHelp, key == "esc":
			m.showHelp = false
			return nil
		default:
			return nil
		}
	}
	return m.dispatch(action)
}

// dispatch runs a keybinding action.
func (m *Model) dispatch(action string) tea.Cmd {
	if action == "" {
		return nil
	}
	m.log.Debug("action", "session", m.sessionID, "action", action)

	focused := m.desktop.FocusedID()
	switch action {
	case config.ActionFocusNext:
		m.desktop.FocusNext()
		m.record(tape.CommandType_FocusNext)
	case config.ActionFocusPrev:
		m.desktop.FocusPrev()
		m.record(tape.CommandType_FocusPrev)
	case config.ActionMinimize:
		if focused != "" {
			m.desktop.Minimize(focused)
			m.record(tape.CommandType_Minimize, focused)
		}
	case config.ActionMaximize:
		if focused != "" {
			m.desktop.Maximize(focused)
			m.record(tape.CommandType_Maximize, focused)
		}
	case config.ActionClose:
		if focused != "" {
			m.desktop.Close(focused)
			m.record(tape.CommandType_Close, focused)
		}
	case config.ActionRestoreAll:
		m.desktop.RestoreAll()
		m.record(tape.CommandType_RestoreAll)
	case config.ActionToggleHelp:
		m.showHelp = !m.showHelp
	case config.ActionQuit:
		m.quitting = true
		return tea.Quit
	default:
		if n, ok := config.OpenWindowIndex(action); ok {
			windows := m.desktop.Windows()
			if n <= len(windows) {
				m.desktop.Open(windows[n-1].ID)
				m.record(tape.CommandType_Open, windows[n-1].ID)
			}
		}
	}
	return nil
}

func (m *Model) record(typ tape.CommandType, id ...string) {
	if m.rec != nil {
		m.rec.RecordAction(typ, id...)
	}
}
