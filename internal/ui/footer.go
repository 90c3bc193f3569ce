package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the color of a footer flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash message stays up.
const DefaultFlashDuration = 3 * time.Second

// FlashTickMsg asks the app to drop an expired flash message.
type FlashTickMsg time.Time

// FlashTick returns a command that fires once the default flash duration has passed.
func FlashTick() tea.Cmd {
	return tea.Tick(DefaultFlashDuration, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// FlashMessage is a transient status line that replaces the bindings.
type FlashMessage struct {
	Text      string
	Type      FlashType
	Duration  time.Duration
	CreatedAt time.Time
}

// IsExpired reports whether the message has outlived its duration.
func (f *FlashMessage) IsExpired(now time.Time) bool {
	return now.Sub(f.CreatedAt) >= f.Duration
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	sidebarFocused bool
	pending        bool
	hasFile        bool
	flashMessage   *FlashMessage
	now            func() time.Time
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{now: time.Now}
}

// SetContext updates the state the bindings depend on
func (f *Footer) SetContext(sidebarFocused, pending, hasFile bool) {
	f.sidebarFocused = sidebarFocused
	f.pending = pending
	f.hasFile = hasFile
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows text for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, t FlashType) {
	f.SetFlashWithDuration(text, t, DefaultFlashDuration)
}

// SetFlashWithDuration shows text for d.
func (f *Footer) SetFlashWithDuration(text string, t FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{Text: text, Type: t, Duration: d, CreatedAt: f.now()}
}

// ClearFlash removes any flash message.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// ClearIfExpired drops an expired flash message and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired(f.now()) {
		f.flashMessage = nil
		return true
	}
	return false
}

// HasFlash reports whether a flash message is showing.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// Bindings returns the shortcuts shown for the current context.
func (f *Footer) Bindings() []KeyBinding {
	var bindings []KeyBinding
	switch {
	case f.pending:
		bindings = append(bindings, KeyBinding{Key: "esc", Desc: "cancel reply"})
	case f.sidebarFocused:
		bindings = append(bindings, KeyBinding{Key: "enter", Desc: "browse"})
	default:
		bindings = append(bindings,
			KeyBinding{Key: "enter", Desc: "send"},
			KeyBinding{Key: "shift+enter", Desc: "newline"},
		)
	}

	bindings = append(bindings, KeyBinding{Key: "ctrl+o", Desc: "open file"})
	if f.hasFile {
		bindings = append(bindings, KeyBinding{Key: "ctrl+x", Desc: "remove file"})
	}
	bindings = append(bindings,
		KeyBinding{Key: "tab", Desc: "switch pane"},
		KeyBinding{Key: "?", Desc: "help"},
		KeyBinding{Key: "ctrl+c", Desc: "quit"},
	)
	return bindings
}

func (f *Footer) renderFlash() string {
	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	icon := "ℹ"
	switch f.flashMessage.Type {
	case FlashSuccess:
		style, icon = StatusSuccessStyle, "✓"
	case FlashWarning:
		style, icon = StatusWarningStyle, "!"
	case FlashError:
		style, icon = StatusErrorStyle, "✕"
	}
	return style.Render(icon + " " + f.flashMessage.Text)
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return FooterStyle.Width(f.width).Render(f.renderFlash())
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := strings.Join(parts, sep)
	if f.width > 2 {
		content = ansi.Truncate(content, f.width-2, "…")
	}
	return FooterStyle.Width(f.width).Render(content)
}
