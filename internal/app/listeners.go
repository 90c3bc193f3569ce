package app

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/chat"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/session"
)

// SessionChangedMsg is sent after the session's history or pending flag
// changed. Several changes that land between two reads are coalesced.
type SessionChangedMsg struct {
	State chat.State
	// Appended holds every message appended since the previous SessionChangedMsg.
	Appended []chat.Message
}

// sessionWatcher turns store notifications, which arrive on whatever
// goroutine mutated the session, into tea messages.
type sessionWatcher struct {
	sess   *session.Session
	signal chan struct{} // one slot; a full slot means "something changed"
	done   chan struct{}

	mu          sync.Mutex
	appended    []chat.Message
	unsubscribe func()
	stopOnce    sync.Once
}

func newSessionWatcher(sess *session.Session) *sessionWatcher {
	w := &sessionWatcher{
		sess:   sess,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	w.unsubscribe = sess.Subscribe(func(c chat.Change) {
		if len(c.Appended) > 0 {
			w.mu.Lock()
			w.appended = append(w.appended, c.Appended...)
			w.mu.Unlock()
		}
		select {
		case w.signal <- struct{}{}:
		default:
		}
	})
	return w
}

// listen returns a command that waits for the next change.
func (w *sessionWatcher) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.signal:
			return w.drain()
		case <-w.done:
			return nil
		}
	}
}

// poll returns the pending change without blocking.
func (w *sessionWatcher) poll() (SessionChangedMsg, bool) {
	select {
	case <-w.signal:
		return w.drain(), true
	default:
		return SessionChangedMsg{}, false
	}
}

func (w *sessionWatcher) drain() SessionChangedMsg {
	w.mu.Lock()
	appended := w.appended
	w.appended = nil
	w.mu.Unlock()
	return SessionChangedMsg{State: w.sess.State(), Appended: appended}
}

func (w *sessionWatcher) stop() {
	w.stopOnce.Do(func() {
		w.unsubscribe()
		close(w.done)
	})
}

// PollSession returns the session change waiting to be applied, if any.
// Scripted drivers use it instead of running the listen command.
func (m *Model) PollSession() (SessionChangedMsg, bool) {
	return m.watcher.poll()
}

// handleSessionChanged re-renders from the snapshot, then scrolls if the
// history grew, then re-arms the watcher.
func (m *Model) handleSessionChanged(msg SessionChangedMsg) tea.Cmd {
	cmds := []tea.Cmd{m.watcher.listen()}

	cmds = append(cmds, m.syncSession(msg.State))
	if len(msg.Appended) > 0 {
		m.chat.ScrollToLatest()
	}

	for _, appended := range msg.Appended {
		if appended.Author != chat.AuthorAssistant {
			continue
		}
		if appended.Failed {
			logger.WithSession(m.session.ID()).Warn("reply failed", "notice", appended.Content)
			continue
		}
		cmds = append(cmds, m.replyReady(appended))
	}
	return tea.Batch(cmds...)
}

// syncSession renders st and starts or stops the waiting display.
func (m *Model) syncSession(st chat.State) tea.Cmd {
	m.chat.SetMessages(st.Messages)
	return m.chat.SetPending(st.Pending)
}

// syncFiles mirrors the session's attachment and drag state into the sidebar.
func (m *Model) syncFiles() {
	files := m.session.Files()
	if c, ok := files.Current(); ok {
		m.sidebar.SetFile(&c)
	} else {
		m.sidebar.SetFile(nil)
	}
	m.sidebar.SetDragState(files.Drag())
	m.sidebar.SetRejected(files.LastRejected())
}

// replyReady sends the desktop notification for reply, if enabled.
func (m *Model) replyReady(reply chat.Message) tea.Cmd {
	if !m.config.GetNotificationsEnabled() || m.notify == nil {
		return nil
	}
	notify := m.notify
	content := reply.Content
	return func() tea.Msg {
		if err := notify(content); err != nil {
			logger.WithComponent("notification").Warn("failed to send notification", "error", err)
		}
		return nil
	}
}
