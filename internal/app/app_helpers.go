package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	pErrors "github.com/zhubert/sheetchat/internal/errors"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/ui"
	"github.com/zhubert/sheetchat/internal/upload"
)

// ShowFlash displays a flash message in the footer and returns the command
// that dismisses it.
func (m *Model) ShowFlash(text string, flashType ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, flashType)
	return ui.FlashTick()
}

// attachPath inspects the file at path and hands it to the session. It
// reports whether the file was accepted; an error means it could not be read.
func (m *Model) attachPath(path string) (upload.Candidate, bool, error) {
	c, err := upload.Inspect(path)
	if err != nil {
		return upload.Candidate{}, false, err
	}
	ok := m.session.SelectFile(c)
	m.syncFiles()
	if ok {
		m.rememberFile(c)
	}
	return c, ok, nil
}

// Drop ends a drag over the drop zone with cands. Only the first candidate
// is considered, exactly as if it had been picked.
func (m *Model) Drop(cands ...upload.Candidate) tea.Cmd {
	ok := m.session.Files().Drop(cands...)
	m.syncFiles()
	if len(cands) == 0 {
		return nil
	}
	if !ok {
		return m.ShowFlash(fmt.Sprintf("%s is not an Excel file", cands[0].Name), ui.FlashWarning)
	}
	m.rememberFile(cands[0])
	return m.ShowFlash("Attached "+cands[0].Name, ui.FlashSuccess)
}

// removeFile detaches the current workbook.
func (m *Model) removeFile() tea.Cmd {
	c, ok := m.session.CurrentFile()
	if !ok {
		return nil
	}
	m.session.ClearFile()
	m.syncFiles()
	return m.ShowFlash("Removed "+c.Name, ui.FlashInfo)
}

// copyLastReply puts the newest reply on the clipboard.
func (m *Model) copyLastReply() tea.Cmd {
	reply, ok := m.chat.LastReply()
	if !ok {
		return m.ShowFlash("No reply to copy yet", ui.FlashWarning)
	}
	if err := m.copyText(reply.Content); err != nil {
		logger.WithComponent("clipboard").Warn("copy failed", "error", err)
		return m.ShowFlash("Clipboard unavailable", ui.FlashError)
	}
	return m.ShowFlash("Copied reply to clipboard", ui.FlashSuccess)
}

// rememberFile records c in the recent files list.
func (m *Model) rememberFile(c upload.Candidate) {
	if c.Path == "" {
		return
	}
	m.config.AddRecentFile(c.Path)
	m.saveConfig()
}

func (m *Model) saveConfig() {
	if m.config.Path() == "" {
		return
	}
	if err := m.config.Save(); err != nil {
		logger.WithComponent("config").Warn("failed to save config", "error", err)
	}
}

// describeAttachError turns an Inspect error into modal text.
func describeAttachError(path string, err error) string {
	switch pErrors.GetKind(err) {
	case pErrors.KindNotFound:
		return "File not found: " + path
	case pErrors.KindInvalid:
		return "Not a regular file: " + path
	default:
		return fmt.Sprintf("Could not read %s: %v", path, err)
	}
}
