package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/ui"
)

// handleMouseClick focuses the clicked panel and fires its control, if any.
// Panel hit tests take coordinates relative to the panel's top-left corner.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() || msg.Button != tea.MouseLeft {
		return m, nil
	}

	y := msg.Y - ui.HeaderHeight
	if y < 0 {
		return m, nil
	}

	sidebarWidth := m.sidebar.Width()
	if msg.X < sidebarWidth {
		m.setFocus(FocusSidebar)
		switch {
		case m.sidebar.RemoveHit(msg.X, y):
			return m, m.removeFile()
		case m.sidebar.DropZoneHit(msg.X, y):
			return shortcutOpenFile(m)
		}
		return m, nil
	}

	x := msg.X - sidebarWidth
	m.setFocus(FocusChat)
	if m.chat.SendButtonHit(x, y) {
		logger.WithComponent("app").Debug("send button clicked", "enabled", m.chat.CanSend())
		return m, m.submit()
	}
	return m, nil
}
