package app

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/ui/modals"
)

func openFileModal(t *testing.T, m *Model) *modals.OpenFileState {
	t.Helper()
	m.Update(keyPress(keys.CtrlO))
	state, ok := m.modal.State.(*modals.OpenFileState)
	if !ok {
		t.Fatalf("expected the open file modal, got %T", m.modal.State)
	}
	return state
}

func TestOpenFileModal_AttachesWorkbook(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	path := writeFile(t, t.TempDir(), "budget.xlsx", "PK fake workbook")

	state := openFileModal(t, m)
	state.Input.SetValue(path)
	m.Update(keyPress(keys.Enter))

	if m.modal.IsVisible() {
		t.Fatalf("modal should close, error: %q", m.modal.GetError())
	}
	c, ok := m.session.CurrentFile()
	if !ok || c.Name != "budget.xlsx" {
		t.Fatalf("expected budget.xlsx attached, got %+v (%v)", c, ok)
	}
	if got := m.config.GetRecentFiles(); len(got) != 1 || got[0] != path {
		t.Errorf("recent files = %v", got)
	}
	if _, ok := m.sidebar.File(); !ok {
		t.Error("sidebar should show the file card")
	}
}

func TestOpenFileModal_Errors(t *testing.T) {
	dir := t.TempDir()
	notes := writeFile(t, dir, "notes.txt", "just text")

	tests := []struct {
		name      string
		path      string
		wantError string
	}{
		{"empty path", "", "Enter a path"},
		{"missing file", filepath.Join(dir, "missing.xlsx"), "File not found"},
		{"directory", dir, "Not a regular file"},
		{"not a workbook", notes, "notes.txt is not an Excel file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
			state := openFileModal(t, m)
			state.Input.SetValue(tt.path)
			m.Update(keyPress(keys.Enter))

			if !m.modal.IsVisible() {
				t.Fatal("modal should stay open on error")
			}
			if got := m.modal.GetError(); !strings.Contains(got, tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", got, tt.wantError)
			}
			if _, ok := m.session.CurrentFile(); ok {
				t.Error("nothing should be attached")
			}
		})
	}
}

func TestOpenFileModal_DropsMissingRecentFile(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	missing := filepath.Join(t.TempDir(), "gone.xlsx")
	m.config.AddRecentFile(missing)

	openFileModal(t, m)
	m.Update(keyPress(keys.Down))
	m.Update(keyPress(keys.Enter))

	if !strings.Contains(m.modal.GetError(), "File not found") {
		t.Errorf("error = %q", m.modal.GetError())
	}
	if got := m.config.GetRecentFiles(); len(got) != 0 {
		t.Errorf("missing recent file should be forgotten, got %v", got)
	}
}

func TestOpenFileModal_Escape(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	openFileModal(t, m)

	m.Update(keyPress(keys.Escape))
	if m.modal.IsVisible() {
		t.Error("esc should close the modal")
	}
}

func TestSettingsModal(t *testing.T) {
	m, _ := testModelWithSize(t, replyWith("ok", nil), 120, 40)
	m.setFocus(FocusSidebar)

	m.Update(keyPress(","))
	if _, ok := m.modal.State.(*modals.SettingsState); !ok {
		t.Fatalf("expected settings modal, got %T", m.modal.State)
	}

	before := m.config.GetProvider()
	m.Update(keyPress(keys.Enter))
	if m.modal.IsVisible() {
		t.Error("enter should close settings")
	}
	if m.config.GetProvider() != before {
		t.Error("unchanged settings must not touch the config")
	}

	m.Update(keyPress(","))
	m.Update(keyPress(keys.Escape))
	if m.modal.IsVisible() {
		t.Error("esc should close settings")
	}
}
