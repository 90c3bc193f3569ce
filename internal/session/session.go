package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/sheetchat/internal/chat"
	pErrors "github.com/zhubert/sheetchat/internal/errors"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/provider"
	"github.com/zhubert/sheetchat/internal/upload"
)

// DefaultGreeting is the assistant message every new session starts with.
const DefaultGreeting = "Hello! I'm your AI assistant. Upload an Excel file using the sidebar to get started, or ask me anything!"

// Notices appended in place of a reply that could not be produced.
const (
	CancelledNotice = "Response cancelled."
	TimeoutNotice   = "Timed out waiting for a response."
	failurePrefix   = "Sorry, I couldn't get a response: "
)

// Session is a single conversation with one provider.
type Session struct {
	id       string
	store    *chat.Store
	files    *upload.Selection
	provider provider.Provider

	now          func() time.Time
	newID        func() string
	replyTimeout time.Duration
	log          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	turn   *turn // reply being awaited, cleared just before it is stored
	flight *turn // most recent turn, for Wait
}

type turn struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type options struct {
	id           string
	greeting     string
	historyLimit int
	replyTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

// Option configures a Session.
type Option func(*options)

// WithID sets the session ID instead of generating one.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithGreeting replaces the seeded assistant greeting. Blank keeps the default.
func WithGreeting(greeting string) Option {
	return func(o *options) {
		if strings.TrimSpace(greeting) != "" {
			o.greeting = greeting
		}
	}
}

// WithHistoryLimit caps the number of stored messages, dropping the oldest.
// Zero or less means unbounded.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

// WithReplyTimeout bounds how long a single reply may take. Zero disables it.
func WithReplyTimeout(d time.Duration) Option {
	return func(o *options) { o.replyTimeout = d }
}

// WithClock sets the source of message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the source of message IDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// New starts a session answered by p. The history is seeded with the greeting.
func New(p provider.Provider, opts ...Option) *Session {
	o := options{
		greeting: DefaultGreeting,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:           o.id,
		store:        chat.NewStore(chat.WithLimit(o.historyLimit)),
		files:        upload.NewSelection(),
		provider:     p,
		now:          o.now,
		newID:        o.newID,
		replyTimeout: o.replyTimeout,
		log:          logger.WithSession(o.id),
		ctx:          ctx,
		cancel:       cancel,
	}
	s.store.Append(chat.Message{
		ID:        s.newID(),
		Content:   o.greeting,
		Author:    chat.AuthorAssistant,
		Timestamp: s.now(),
	})
	s.log.Debug("session created", "provider", p.Name())
	return s
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Provider returns the provider answering this session.
func (s *Session) Provider() provider.Provider { return s.provider }

// Submit sends rawText as a user message and starts waiting for a reply.
// It returns false, changing nothing, if the trimmed text is empty, a reply
// is already pending, or the session is closed.
func (s *Session) Submit(rawText string) bool {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return false
	}

	ctx, cancel := s.turnContext()
	t := &turn{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed || s.turn != nil {
		s.mu.Unlock()
		cancel()
		return false
	}
	s.turn = t
	s.mu.Unlock()

	userMsg := chat.Message{
		ID:        s.newID(),
		Content:   text,
		Author:    chat.AuthorUser,
		Timestamp: s.now(),
	}
	if !s.store.StartTurn(userMsg) {
		s.mu.Lock()
		s.turn = nil
		s.mu.Unlock()
		cancel()
		close(t.done)
		return false
	}
	// Wait only follows turns whose user message was stored.
	s.mu.Lock()
	s.flight = t
	s.mu.Unlock()

	req := provider.Request{History: s.store.Snapshot()}
	if c, ok := s.files.Current(); ok {
		req.File = &c
	}
	s.log.Debug("turn started", "messages", len(req.History), "file", req.File != nil)

	go s.await(ctx, t, req)
	return true
}

func (s *Session) turnContext() (context.Context, context.CancelFunc) {
	if s.replyTimeout > 0 {
		return context.WithTimeout(s.ctx, s.replyTimeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *Session) await(ctx context.Context, t *turn, req provider.Request) {
	defer close(t.done)
	defer t.cancel()

	start := time.Now()
	reply, err := s.reply(ctx, req)

	msg := chat.Message{
		ID:        s.newID(),
		Author:    chat.AuthorAssistant,
		Timestamp: s.now(),
		Content:   reply,
	}
	if err != nil {
		failure := pErrors.ProviderFailed(s.provider.Name(), err)
		msg.Failed = true
		msg.Content = failureNotice(failure)
		s.log.Warn("reply failed", "provider", s.provider.Name(), "kind", pErrors.GetKind(failure), "error", failure)
	} else {
		s.log.Debug("reply received", "provider", s.provider.Name(), "elapsed", time.Since(start))
	}

	// Release the turn before storing the reply so an observer reacting to
	// pending=false can submit again straight away.
	s.mu.Lock()
	if s.turn == t {
		s.turn = nil
	}
	s.mu.Unlock()

	s.store.FinishTurn(msg)
}

// reply calls the provider, converting panics and blank replies to errors.
func (s *Session) reply(ctx context.Context, req provider.Request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()

	reply, err = s.provider.Reply(ctx, req)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", pErrors.ProviderEmptyReply(s.provider.Name())
	}
	return reply, nil
}

func failureNotice(err error) string {
	switch pErrors.GetKind(err) {
	case pErrors.KindCanceled:
		return CancelledNotice
	case pErrors.KindTimeout:
		return TimeoutNotice
	}
	if cause := errors.Unwrap(err); cause != nil {
		err = cause
	}
	return failurePrefix + err.Error()
}

// IsFailureNotice reports whether content is one of the notices a Session
// stores in place of a reply.
func IsFailureNotice(content string) bool {
	return content == CancelledNotice || content == TimeoutNotice || strings.HasPrefix(content, failurePrefix)
}

// Cancel aborts the reply being awaited. It returns false if there is none.
// The cancellation notice is appended once the provider returns.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	t := s.turn
	s.mu.Unlock()
	if t == nil {
		return false
	}
	t.cancel()
	s.log.Debug("reply cancelled")
	return true
}

// Wait blocks until the most recent turn has stored its reply.
func (s *Session) Wait() {
	s.mu.Lock()
	t := s.flight
	s.mu.Unlock()
	if t != nil {
		<-t.done
	}
}

// Close cancels any outstanding reply, waits for it to be stored, and
// makes later Submit calls no-ops. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.Wait()
	s.log.Debug("session closed", "messages", s.store.Len())
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Messages returns a copy of the history.
func (s *Session) Messages() []chat.Message { return s.store.Snapshot() }

// Pending reports whether a reply is outstanding.
func (s *Session) Pending() bool { return s.store.Pending() }

// State returns a copy of the history and the pending flag.
func (s *Session) State() chat.State { return s.store.State() }

// Subscribe registers fn for every change to the conversation.
func (s *Session) Subscribe(fn func(chat.Change)) func() { return s.store.Subscribe(fn) }

// OnAppend registers fn for every new message, after Subscribe observers.
func (s *Session) OnAppend(fn func(chat.Message)) func() { return s.store.OnAppend(fn) }

// Files exposes the attachment state, including the drop zone's drag state.
func (s *Session) Files() *upload.Selection { return s.files }

// SelectFile attaches c if it is a spreadsheet. Otherwise the current
// attachment is kept and false is returned.
func (s *Session) SelectFile(c upload.Candidate) bool {
	ok := s.files.Select(c)
	if ok {
		s.log.Info("file selected", "name", c.Name, "size", c.SizeBytes, "mime", c.MIMEType)
	} else {
		s.log.Debug("file rejected", "name", c.Name, "mime", c.MIMEType)
	}
	return ok
}

// SelectPath inspects the file at path and attaches it if it is a
// spreadsheet. It returns false with an error when the file cannot be read
// or is not a workbook; the current attachment is kept either way.
func (s *Session) SelectPath(path string) (bool, error) {
	c, err := upload.Inspect(path)
	if err != nil {
		return false, err
	}
	if !s.SelectFile(c) {
		return false, pErrors.FileNotSpreadsheet(c.Name)
	}
	return true, nil
}

// ClearFile removes the attachment.
func (s *Session) ClearFile() {
	s.files.Clear()
	s.log.Debug("file cleared")
}

// CurrentFile returns the attached workbook, if any.
func (s *Session) CurrentFile() (upload.Candidate, bool) { return s.files.Current() }
