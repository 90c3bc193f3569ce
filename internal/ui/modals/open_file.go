package modals

import (
	"fmt"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/sheetchat/internal/keys"
)

// maxCompletionRows caps how many completion options are listed at once.
const maxCompletionRows = 5

// =============================================================================
// OpenFileState - State for the Open Spreadsheet modal
// =============================================================================

type OpenFileState struct {
	Input       textinput.Model
	RecentFiles []string
	// RecentIndex is the highlighted recent file, or -1 when the path input has focus.
	RecentIndex int

	completer       *PathCompleter
	lastValue       string
	showingOptions  bool
	completionIndex int
}

func (*OpenFileState) modalState() {}

func (s *OpenFileState) Title() string { return "Open Spreadsheet" }

func (s *OpenFileState) Help() string {
	switch {
	case s.showingOptions:
		return "up/down to select, Tab/Enter to confirm, Esc to close list"
	case len(s.RecentFiles) > 0:
		return "up/down: recent files  Tab: complete path  Enter: open  Esc: cancel"
	default:
		return "Tab: complete path  Enter: open  Esc: cancel"
	}
}

func (s *OpenFileState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	inputStyle := lipgloss.NewStyle().PaddingLeft(2)
	if s.RecentIndex < 0 {
		inputStyle = lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorPrimary).
			PaddingLeft(1)
	}
	label := lipgloss.NewStyle().Foreground(ColorTextMuted).Render("Path to an .xlsx or .xls file:")
	content := lipgloss.JoinVertical(lipgloss.Left, label, inputStyle.Render(s.Input.View()))

	if s.showingOptions {
		if completions := s.completer.GetCompletions(); len(completions) > 0 {
			optionsLabel := lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				MarginTop(1).
				Render("Completions:")
			content = lipgloss.JoinVertical(lipgloss.Left, content, optionsLabel, s.renderCompletionOptions(completions))
		}
	}

	if len(s.RecentFiles) > 0 {
		recentLabel := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1).
			Render("Recent files:")
		items := make([]string, len(s.RecentFiles))
		for i, p := range s.RecentFiles {
			items[i] = TruncatePath(p, ModalInputWidth)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, recentLabel,
			strings.TrimRight(RenderSelectableList(items, s.RecentIndex), "\n"))
	}

	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
}

func (s *OpenFileState) renderCompletionOptions(completions []string) string {
	start := 0
	if s.completionIndex >= maxCompletionRows {
		start = s.completionIndex - maxCompletionRows + 1
	}
	end := min(start+maxCompletionRows, len(completions))

	items := make([]string, 0, end-start)
	for _, c := range completions[start:end] {
		display := filepath.Base(c)
		if strings.HasSuffix(c, string(filepath.Separator)) {
			display = filepath.Base(strings.TrimSuffix(c, string(filepath.Separator))) + "/"
		}
		items = append(items, display)
	}
	out := strings.TrimRight(RenderSelectableList(items, s.completionIndex-start), "\n")

	if len(completions) > maxCompletionRows {
		out += "\n" + lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render(fmt.Sprintf("  (%d total, scroll with up/down)", len(completions)))
	}
	return out
}

func (s *OpenFileState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyPressMsg)
	if isKey && s.showingOptions {
		completions := s.completer.GetCompletions()
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.completionIndex > 0 {
				s.completionIndex--
			}
			return s, nil
		case keys.Down, "j":
			if s.completionIndex < len(completions)-1 {
				s.completionIndex++
			}
			return s, nil
		case keys.Tab, keys.Enter:
			if s.completionIndex < len(completions) {
				s.setInput(completions[s.completionIndex])
			}
			s.hideOptions()
			return s, nil
		case keys.Escape:
			s.hideOptions()
			return s, nil
		default:
			s.hideOptions()
		}
	}

	if isKey {
		switch keyMsg.String() {
		case keys.Up:
			s.moveRecent(-1)
			return s, nil
		case keys.Down:
			s.moveRecent(1)
			return s, nil
		case keys.Tab:
			if s.RecentIndex >= 0 {
				s.setInput(s.RecentFiles[s.RecentIndex])
				s.RecentIndex = -1
				s.Input.Focus()
				return s, nil
			}
			s.complete()
			return s, nil
		}
	}

	if s.RecentIndex >= 0 {
		return s, nil
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != s.lastValue {
		s.completer.Reset()
		s.showingOptions = false
		s.lastValue = s.Input.Value()
	}
	return s, cmd
}

// moveRecent moves the highlight between the path input (-1) and the recent files.
func (s *OpenFileState) moveRecent(delta int) {
	if len(s.RecentFiles) == 0 {
		return
	}
	next := s.RecentIndex + delta
	if next < -1 {
		next = -1
	}
	if next >= len(s.RecentFiles) {
		next = len(s.RecentFiles) - 1
	}
	s.RecentIndex = next
	if next < 0 {
		s.Input.Focus()
	} else {
		s.Input.Blur()
	}
}

func (s *OpenFileState) complete() {
	current := s.Input.Value()
	s.completer.GenerateCompletions(current)
	completions := s.completer.GetCompletions()

	switch len(completions) {
	case 0:
		return
	case 1:
		s.setInput(completions[0])
		s.completer.Reset()
		return
	}

	if common := s.completer.GetCommonPrefix(); common != "" && common != current {
		s.setInput(common)
		s.completer.GenerateCompletions(common)
	}
	if len(s.completer.GetCompletions()) > 1 {
		s.showingOptions = true
		s.completionIndex = 0
	}
}

func (s *OpenFileState) setInput(v string) {
	s.Input.SetValue(v)
	s.Input.CursorEnd()
	s.lastValue = v
}

func (s *OpenFileState) hideOptions() {
	s.showingOptions = false
	s.completer.Reset()
}

// IsShowingOptions returns true if completion options are being displayed
func (s *OpenFileState) IsShowingOptions() bool {
	return s.showingOptions
}

// GetPath returns the highlighted recent file, or the typed path.
func (s *OpenFileState) GetPath() string {
	if s.RecentIndex >= 0 && s.RecentIndex < len(s.RecentFiles) {
		return s.RecentFiles[s.RecentIndex]
	}
	return strings.TrimSpace(s.Input.Value())
}

// NewOpenFileState creates the modal with the input focused. startDir, if
// set, pre-fills the input so Tab lists that directory.
func NewOpenFileState(startDir string, recent []string) *OpenFileState {
	ti := textinput.New()
	ti.Placeholder = "~/Documents/report.xlsx"
	ti.CharLimit = ModalInputCharLimit
	ti.SetWidth(ModalInputWidth)

	s := &OpenFileState{
		Input:       ti,
		RecentFiles: append([]string(nil), recent...),
		RecentIndex: -1,
		completer:   NewPathCompleter(),
	}
	if startDir != "" {
		if !strings.HasSuffix(startDir, string(filepath.Separator)) {
			startDir += string(filepath.Separator)
		}
		s.setInput(startDir)
	}
	s.Input.Focus()
	return s
}
