package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/upload"
)

// Terminals deliver a file dropped onto the window as a bracketed paste of
// its path. The paste start/end pair brackets the drag, so the drop zone
// lights up while the path arrives.

func (m *Model) handlePasteStart() {
	if m.modal.IsVisible() {
		return
	}
	m.session.Files().DragEnter()
	m.syncFiles()
}

func (m *Model) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		return m.forwardToModal(msg)
	}

	if c, ok := inspectDropped(msg.Content); ok {
		logger.WithComponent("app").Debug("file dropped", "path", c.Path)
		return m, m.Drop(c)
	}

	// Not a file: ordinary pasted text
	m.session.Files().DragLeave()
	m.syncFiles()
	if m.focus == FocusChat {
		m.chat.InsertText(msg.Content)
	}
	return m, nil
}

func (m *Model) handlePasteEnd() {
	files := m.session.Files()
	if files.Drag() == upload.DragIdle {
		return
	}
	files.DragLeave()
	m.syncFiles()
}

// inspectDropped inspects the first dropped path. Later paths are never
// considered, even when the first cannot be read.
func inspectDropped(text string) (upload.Candidate, bool) {
	paths := upload.ParseDroppedPaths(text)
	if len(paths) == 0 {
		return upload.Candidate{}, false
	}
	c, err := upload.Inspect(paths[0])
	if err != nil {
		logger.WithComponent("app").Debug("ignoring dropped path", "path", paths[0], "count", len(paths), "error", err)
		return upload.Candidate{}, false
	}
	return c, true
}
