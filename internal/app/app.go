package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/clipboard"
	"github.com/zhubert/sheetchat/internal/config"
	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/notification"
	"github.com/zhubert/sheetchat/internal/session"
	"github.com/zhubert/sheetchat/internal/ui"
	"github.com/zhubert/sheetchat/internal/ui/modals"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	if f == FocusSidebar {
		return "sidebar"
	}
	return "chat"
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	session *session.Session
	watcher *sessionWatcher
	version string

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	width  int
	height int
	focus  Focus

	copyText func(string) error
	notify   func(reply string) error
}

// Option configures a Model.
type Option func(*Model)

// WithVersion sets the version shown in logs.
func WithVersion(v string) Option {
	return func(m *Model) { m.version = v }
}

// WithClipboard replaces the system clipboard writer used by copy.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copyText = fn }
}

// WithNotifier replaces the desktop notification sent when a reply lands.
func WithNotifier(fn func(reply string) error) Option {
	return func(m *Model) { m.notify = fn }
}

// New creates the app model around an already started session.
func New(cfg *config.Config, sess *session.Session, opts ...Option) *Model {
	m := &Model{
		config:   cfg,
		session:  sess,
		header:   ui.NewHeader(),
		footer:   ui.NewFooter(),
		sidebar:  ui.NewSidebar(),
		chat:     ui.NewChat(),
		modal:    ui.NewModal(),
		focus:    FocusChat,
		copyText: clipboard.WriteText,
		notify:   notification.ReplyReady,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.header.SetProvider(sess.Provider().Name())
	m.setFocus(FocusChat)
	m.watcher = newSessionWatcher(sess)

	// The greeting was appended before the watcher subscribed.
	m.syncSession(sess.State())
	m.syncFiles()
	m.chat.ScrollToLatest()

	logger.WithComponent("app").Info("app started", "session", sess.ID(), "provider", sess.Provider().Name(), "version", m.version)
	return m
}

// Session returns the chat session the model drives.
func (m *Model) Session() *session.Session {
	return m.session
}

// Focus returns the focused panel.
func (m *Model) Focus() Focus {
	return m.focus
}

// ModalVisible reports whether a modal currently owns the keyboard.
func (m *Model) ModalVisible() bool {
	return m.modal.IsVisible()
}

// Close detaches the model from its session. The session itself is left open.
func (m *Model) Close() {
	m.watcher.stop()
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.watcher.listen()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case SessionChangedMsg:
		return m, m.handleSessionChanged(msg)

	case ui.StopwatchTickMsg:
		_, cmd := m.chat.Update(msg)
		return m, cmd

	case ui.FlashTickMsg:
		m.footer.ClearIfExpired()
		return m, nil

	case tea.PasteStartMsg:
		m.handlePasteStart()
		return m, nil

	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.PasteEndMsg:
		m.handlePasteEnd()
		return m, nil

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseWheelMsg:
		if m.modal.IsVisible() {
			return m, nil
		}
		if msg.X >= m.sidebar.Width() {
			_, cmd := m.chat.Update(msg)
			return m, cmd
		}
		return m, nil

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Anything else (cursor blink, huh internals) goes to whatever has input
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}
	_, cmd := m.chat.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	key := msg.String()

	// Esc interrupts the outstanding reply; the session appends the notice
	if key == keys.Escape && m.session.Pending() {
		if m.session.Cancel() {
			logger.WithSession(m.session.ID()).Info("reply cancelled by user")
		}
		return m, nil
	}

	if m.focus == FocusChat {
		switch ui.ClassifyInputKey(msg) {
		case ui.InputSubmit:
			return m, m.submit()
		case ui.InputNewline:
			m.chat.InsertText("\n")
			return m, nil
		}
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	_, cmd := m.chat.Update(msg)
	return m, cmd
}

// submit sends the input if Send is enabled. The input is cleared only
// when the session accepted it.
func (m *Model) submit() tea.Cmd {
	if !m.chat.CanSend() {
		return nil
	}
	if !m.session.Submit(m.chat.GetInput()) {
		return nil
	}
	m.chat.ClearInput()
	return nil
}

// setFocus moves focus to f
func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

// toggleFocus switches focus between sidebar and chat
func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	} else {
		m.setFocus(FocusSidebar)
	}
}
