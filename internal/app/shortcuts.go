package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/provider"
	"github.com/zhubert/sheetchat/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "ctrl+o")
	DisplayKey      string                              // Display name in help; defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresSidebar bool                                // Must not be in chat focus
	RequiresFile    bool                                // A workbook must be attached
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation = "Navigation"
	CategoryFiles      = "Spreadsheet"
	CategoryChat       = "Chat"
	CategoryGeneral    = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryFiles,
	CategoryChat,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of keyboard shortcuts. Entries
// here appear in the help modal and can be run from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between sidebar and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},

	// Spreadsheet
	{
		Key:         keys.CtrlO,
		Description: "Open a spreadsheet",
		Category:    CategoryFiles,
		Handler:     shortcutOpenFile,
	},
	{
		Key:             keys.Enter,
		DisplayKey:      "Enter",
		Description:     "Browse for a spreadsheet",
		Category:        CategoryFiles,
		RequiresSidebar: true,
		Handler:         shortcutOpenFile,
	},
	{
		Key:          keys.CtrlX,
		Description:  "Remove the attached spreadsheet",
		Category:     CategoryFiles,
		RequiresFile: true,
		Handler:      shortcutRemoveFile,
	},

	// Chat
	{
		Key:         keys.CtrlY,
		Description: "Copy the last reply",
		Category:    CategoryChat,
		Handler:     shortcutCopyReply,
		Condition: func(m *Model) bool {
			_, ok := m.chat.LastReply()
			return ok
		},
	},

	// General
	{
		Key:             ",",
		Description:     "Settings",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutSettings,
	},
	{
		Key:         keys.CtrlC,
		Description: "Quit",
		Category:    CategoryGeneral,
		Handler:     shortcutQuit,
	},
	{
		Key:             "q",
		Description:     "Quit",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid an initialization cycle:
// its handler reads ShortcutRegistry.
var helpShortcut = Shortcut{
	Key:         "?",
	Description: "Show this help",
	Category:    CategoryGeneral,
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "PgUp/PgDn", Description: "Scroll the conversation", Category: CategoryNavigation},
	{DisplayKey: "Mouse wheel", Description: "Scroll the conversation", Category: CategoryNavigation},

	{DisplayKey: "Drag & drop", Description: "Drop an .xlsx or .xls onto the terminal", Category: CategoryFiles},

	{DisplayKey: "Enter (chat)", Description: "Send message", Category: CategoryChat},
	{DisplayKey: "Shift+Enter", Description: "Insert a newline", Category: CategoryChat},
	{DisplayKey: "Esc", Description: "Cancel the pending reply", Category: CategoryChat},
}

// helpAvailable reports whether "?" opens help rather than being typed.
func (m *Model) helpAvailable() bool {
	return m.focus == FocusSidebar || strings.TrimSpace(m.chat.GetInput()) == ""
}

// isShortcutApplicable checks the guards of s against the current state.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus != FocusSidebar {
		return false
	}
	if s.RequiresFile {
		if _, ok := m.session.CurrentFile(); !ok {
			return false
		}
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and its guards passed.
// Returns (model, nil, false) otherwise, so the key can reach the input.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	if key == helpShortcut.Key {
		if !m.helpAvailable() {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			logger.WithComponent("shortcuts").Debug("guard failed", "key", key, "focus", m.focus.String())
			continue
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections builds help sections from the shortcuts whose
// guards pass right now, plus the display-only entries.
func (m *Model) getApplicableHelpSections() []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)
	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range ShortcutRegistry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	add(helpShortcut)
	for _, s := range DisplayOnlyShortcuts {
		add(s)
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts := categories[cat]; len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{Title: cat, Shortcuts: shortcuts})
		}
	}
	return sections
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutOpenFile(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewOpenFileState(m.config.GetStartDir(), m.config.GetRecentFiles()))
	return m, nil
}

func shortcutRemoveFile(m *Model) (tea.Model, tea.Cmd) {
	return m, m.removeFile()
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	return m, m.copyLastReply()
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	current := modals.SettingsValues{
		Provider:             m.config.GetProvider(),
		Model:                m.config.GetModel(),
		NotificationsEnabled: m.config.GetNotificationsEnabled(),
		TranscriptsEnabled:   m.config.GetTranscriptsEnabled(),
	}
	m.modal.Show(modals.NewSettingsState(current, provider.Names))
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewHelpState(m.getApplicableHelpSections()))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
