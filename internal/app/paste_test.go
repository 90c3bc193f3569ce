package app

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/upload"
)

func dropText(m *Model, text string) {
	m.Update(tea.PasteStartMsg{})
	m.Update(tea.PasteMsg{Content: text})
	m.Update(tea.PasteEndMsg{})
}

func TestPaste_DragStateFollowsBrackets(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)

	m.Update(tea.PasteStartMsg{})
	if got := m.session.Files().Drag(); got != upload.DragDragging {
		t.Fatalf("drag = %s after paste start", got)
	}
	m.Update(tea.PasteEndMsg{})
	if got := m.session.Files().Drag(); got != upload.DragIdle {
		t.Fatalf("drag = %s after paste end", got)
	}
}

func TestPaste_DropsWorkbook(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	path := writeFile(t, t.TempDir(), "q3 forecast.xlsx", "PK fake workbook")

	dropText(m, "'"+path+"'")

	c, ok := m.session.CurrentFile()
	if !ok || c.Name != "q3 forecast.xlsx" {
		t.Fatalf("expected the dropped workbook, got %+v (%v)", c, ok)
	}
	if m.session.Files().Drag() != upload.DragIdle {
		t.Error("drop should end the drag")
	}
	if got := m.config.GetRecentFiles(); len(got) != 1 {
		t.Errorf("dropped file should be remembered, got %v", got)
	}
	if m.chat.GetInput() != "" {
		t.Error("a dropped path must not land in the input")
	}
}

func TestPaste_RejectsOtherFiles(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xlsx", "PK fake workbook")
	bad := writeFile(t, dir, "photo.txt", "not a workbook")

	dropText(m, good)
	dropText(m, bad)

	c, ok := m.session.CurrentFile()
	if !ok || c.Name != "good.xlsx" {
		t.Errorf("a rejected drop must keep the current file, got %+v", c)
	}
	if got := m.session.Files().LastRejected(); got != "photo.txt" {
		t.Errorf("LastRejected = %q", got)
	}
}

func TestPaste_OnlyFirstFileCounts(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	dir := t.TempDir()
	first := writeFile(t, dir, "first.xlsx", "PK one")
	second := writeFile(t, dir, "second.xlsx", "PK two")

	dropText(m, first+"\n"+second)

	c, _ := m.session.CurrentFile()
	if c.Name != "first.xlsx" {
		t.Errorf("got %q, want first.xlsx", c.Name)
	}
}

func TestPaste_MissingFirstFileAttachesNothing(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	dir := t.TempDir()
	missing := filepath.Join(dir, "deleted.xlsx")
	second := writeFile(t, dir, "second.xlsx", "PK two")

	dropText(m, missing+"\n"+second)

	if c, ok := m.session.CurrentFile(); ok {
		t.Errorf("only the first dropped path counts, but %q was attached", c.Name)
	}
	if m.session.Files().Drag() != upload.DragIdle {
		t.Error("drag should be idle")
	}
}

func TestPaste_PlainTextGoesToInput(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)

	dropText(m, "total revenue by region")

	if got := m.chat.GetInput(); got != "total revenue by region" {
		t.Errorf("input = %q", got)
	}
	if _, ok := m.session.CurrentFile(); ok {
		t.Error("plain text must not attach anything")
	}
	if m.session.Files().Drag() != upload.DragIdle {
		t.Error("drag should be idle")
	}
}

func TestPaste_ModalOwnsPaste(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	path := writeFile(t, t.TempDir(), "budget.xlsx", "PK fake workbook")
	openFileModal(t, m)

	dropText(m, path)

	if _, ok := m.session.CurrentFile(); ok {
		t.Error("a paste into the modal must not attach directly")
	}
	if m.session.Files().Drag() != upload.DragIdle {
		t.Error("the drop zone should not react while a modal is open")
	}
}
