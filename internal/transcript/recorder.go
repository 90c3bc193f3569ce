package transcript

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zhubert/sheetchat/internal/chat"
	"github.com/zhubert/sheetchat/internal/logger"
)

// writeTimeout bounds each database write made by a Recorder.
const writeTimeout = 5 * time.Second

// Source is the part of a chat session a Recorder observes.
type Source interface {
	ID() string
	Messages() []chat.Message
	OnAppend(fn func(chat.Message)) func()
}

// Recorder copies every message appended to a session into a Store. Writes
// happen on the Recorder's own goroutine so the UI never waits on disk.
type Recorder struct {
	store *Store
	id    string
	log   *slog.Logger

	queue       chan chat.Message
	done        chan struct{}
	stopped     chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

// Record begins conversation src.ID() in store, writes the messages already
// in src, and follows new ones until Close. Call it before the first submit.
func Record(ctx context.Context, store *Store, src Source, provider string) (*Recorder, error) {
	existing := src.Messages()
	started := time.Now()
	if len(existing) > 0 {
		started = existing[0].Timestamp
	}
	if err := store.BeginConversation(ctx, src.ID(), provider, started); err != nil {
		return nil, err
	}
	for _, m := range existing {
		if err := store.AppendMessage(ctx, src.ID(), m); err != nil {
			return nil, err
		}
	}

	r := &Recorder{
		store:   store,
		id:      src.ID(),
		log:     logger.WithSession(src.ID()).With("component", "transcript"),
		queue:   make(chan chat.Message, 64),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go r.run()
	r.unsubscribe = src.OnAppend(r.enqueue)
	r.log.Debug("recording conversation", "messages", len(existing))
	return r, nil
}

func (r *Recorder) enqueue(m chat.Message) {
	select {
	case r.queue <- m:
	case <-r.done:
	}
}

func (r *Recorder) run() {
	defer close(r.stopped)
	for {
		select {
		case m := <-r.queue:
			r.write(m)
		case <-r.done:
			// Flush what is already queued
			for {
				select {
				case m := <-r.queue:
					r.write(m)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(m chat.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.AppendMessage(ctx, r.id, m); err != nil {
		r.log.Warn("failed to record message", "message", m.ID, "error", err)
	}
}

// SetFile records the attached workbook's name on the conversation.
func (r *Recorder) SetFile(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.SetFile(ctx, r.id, name); err != nil {
		r.log.Warn("failed to record file", "file", name, "error", err)
	}
}

// Close stops following the session and waits for queued messages to be
// written. It does not close the Store.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		r.unsubscribe()
		close(r.done)
		<-r.stopped
	})
}
