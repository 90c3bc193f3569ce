package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/ui"
	"github.com/zhubert/sheetchat/internal/ui/modals"
)

// handleModalKey routes modal key events to the handler for the visible state.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.OpenFileState:
		return m.handleOpenFileModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}
	return m.forwardToModal(msg)
}

func (m *Model) forwardToModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleOpenFileModal attaches the typed or highlighted path.
func (m *Model) handleOpenFileModal(key string, msg tea.KeyPressMsg, state *modals.OpenFileState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		// Esc first dismisses the completion list
		if state.IsShowingOptions() {
			return m.forwardToModal(msg)
		}
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if state.IsShowingOptions() {
			return m.forwardToModal(msg)
		}
		path := state.GetPath()
		if path == "" {
			m.modal.SetError("Enter a path to an .xlsx or .xls file")
			return m, nil
		}
		fromRecent := state.RecentIndex >= 0

		c, ok, err := m.attachPath(path)
		if err != nil {
			logger.WithComponent("app").Warn("failed to inspect file", "path", path, "error", err)
			m.modal.SetError(describeAttachError(path, err))
			if fromRecent {
				m.config.RemoveRecentFile(path)
				m.saveConfig()
			}
			return m, nil
		}
		if !ok {
			m.modal.SetError(fmt.Sprintf("%s is not an Excel file", c.Name))
			return m, nil
		}
		m.modal.Hide()
		return m, m.ShowFlash("Attached "+c.Name, ui.FlashSuccess)
	}
	return m.forwardToModal(msg)
}

// handleSettingsModal applies the form on Enter. Both Enter and Esc are
// swallowed by the form, so they arrive here untouched.
func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		if !state.Changed() {
			return m, nil
		}
		v := state.Values()
		providerChanged := v.Provider != m.config.GetProvider() || v.Model != m.config.GetModel()
		m.config.SetProvider(v.Provider)
		m.config.SetModel(v.Model)
		m.config.SetNotificationsEnabled(v.NotificationsEnabled)
		m.config.SetTranscriptsEnabled(v.TranscriptsEnabled)
		m.saveConfig()
		logger.WithComponent("app").Info("settings updated",
			"provider", v.Provider,
			"model", v.Model,
			"notifications", v.NotificationsEnabled,
			"transcripts", v.TranscriptsEnabled,
		)
		if providerChanged {
			return m, m.ShowFlash("Settings saved. Provider changes apply on next start", ui.FlashInfo)
		}
		return m, m.ShowFlash("Settings saved", ui.FlashSuccess)
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// While filtering, forward all keys to the list (Esc cancels filter, Enter applies)
	if state.IsFiltering() {
		return m.forwardToModal(msg)
	}

	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.SelectedShortcut()
		if shortcut == nil {
			return m, nil
		}
		m.modal.Hide()
		triggered := shortcut.Key
		return m, func() tea.Msg {
			return modals.HelpShortcutTriggeredMsg{Key: triggered}
		}
	}
	return m.forwardToModal(msg)
}

// handleHelpShortcutTrigger runs a shortcut picked in the help modal.
func (m *Model) handleHelpShortcutTrigger(key string) (tea.Model, tea.Cmd) {
	normalized := normalizeHelpDisplayKey(key)
	if normalized == "" {
		return m, nil // display-only
	}
	result, cmd, _ := m.ExecuteShortcut(normalized)
	return result, cmd
}

// normalizeHelpDisplayKey converts a help display key back into the key
// string the registry matches on. Display-only entries map to "".
func normalizeHelpDisplayKey(key string) string {
	for _, s := range DisplayOnlyShortcuts {
		if s.DisplayKey == key {
			return ""
		}
	}
	for _, s := range ShortcutRegistry {
		if s.DisplayKey != "" && s.DisplayKey == key {
			return s.Key
		}
	}
	return strings.ToLower(key)
}
