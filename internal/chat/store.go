package chat

import "sync"

// Store is the append-only message sequence plus the pending flag.
//
// Every mutation produces a Change. Subscribe observers see each Change
// first; OnAppend observers then see each message that Change appended, so
// anything reacting to new messages (scrolling, persistence) runs after
// the render observers for the same update. Changes are delivered one at a
// time in mutation order. An observer may mutate the Store; that Change is
// queued and delivered once the current one finishes.
type Store struct {
	mu       sync.Mutex
	messages []Message
	pending  bool
	limit    int

	nextID      int
	subscribers []changeListener
	appendHooks []appendListener

	queue      []Change
	delivering bool
}

type changeListener struct {
	id int
	fn func(Change)
}

type appendListener struct {
	id int
	fn func(Message)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLimit caps the history at n messages, dropping the oldest first.
// n <= 0 means unbounded, which is the default.
func WithLimit(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewStore returns an empty, idle store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds msg to the end of the history. It returns false and stores
// nothing if msg has no ID or no visible content.
func (s *Store) Append(msg Message) bool {
	if !msg.Valid() {
		return false
	}
	s.mu.Lock()
	c := s.appendLocked(msg)
	s.commit(c)
	return true
}

// StartTurn appends a user message and marks a reply as pending, as one
// change. It refuses (returning false) while another reply is pending.
func (s *Store) StartTurn(msg Message) bool {
	if !msg.Valid() {
		return false
	}
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return false
	}
	c := s.appendLocked(msg)
	s.pending = true
	c.Pending = true
	s.commit(c)
	return true
}

// FinishTurn appends the reply and clears the pending flag, as one change.
// The flag is cleared even when reply is rejected as invalid; the return
// value reports whether reply was stored.
func (s *Store) FinishTurn(reply Message) bool {
	s.mu.Lock()
	if !reply.Valid() {
		if !s.pending {
			s.mu.Unlock()
			return false
		}
		s.pending = false
		s.commit(Change{State: s.stateLocked()})
		return false
	}
	s.pending = false
	c := s.appendLocked(reply)
	s.commit(c)
	return true
}

// SetPending sets the pending flag. Observers are only notified when the
// value actually changes.
func (s *Store) SetPending(pending bool) {
	s.mu.Lock()
	if s.pending == pending {
		s.mu.Unlock()
		return
	}
	s.pending = pending
	s.commit(Change{State: s.stateLocked()})
}

// Pending reports whether a reply is outstanding.
func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Last returns the newest message.
func (s *Store) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Snapshot returns a copy of the history, oldest first.
func (s *Store) Snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// State returns a copy of the history together with the pending flag.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Subscribe registers fn to receive every Change. The returned function
// removes the registration.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, changeListener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.subscribers {
			if l.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// OnAppend registers fn to run for each appended message, after all
// Subscribe observers have seen the Change that appended it.
func (s *Store) OnAppend(fn func(Message)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.appendHooks = append(s.appendHooks, appendListener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.appendHooks {
			if l.id == id {
				s.appendHooks = append(s.appendHooks[:i:i], s.appendHooks[i+1:]...)
				return
			}
		}
	}
}

// appendLocked stores msg and returns the resulting Change.
// Timestamps are clamped so the sequence never goes backwards in time.
func (s *Store) appendLocked(msg Message) Change {
	if n := len(s.messages); n > 0 {
		if prev := s.messages[n-1].Timestamp; msg.Timestamp.Before(prev) {
			msg.Timestamp = prev
		}
	}
	s.messages = append(s.messages, msg)

	evicted := 0
	if s.limit > 0 && len(s.messages) > s.limit {
		evicted = len(s.messages) - s.limit
		kept := make([]Message, s.limit)
		copy(kept, s.messages[evicted:])
		s.messages = kept
	}

	return Change{
		State:    s.stateLocked(),
		Appended: []Message{msg},
		Evicted:  evicted,
	}
}

func (s *Store) copyLocked() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) stateLocked() State {
	return State{Messages: s.copyLocked(), Pending: s.pending}
}

// commit queues c for delivery and releases s.mu. The first goroutine to
// commit drains the queue; listeners run without the lock held.
func (s *Store) commit(c Change) {
	s.queue = append(s.queue, c)
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	defer func() {
		s.delivering = false
		s.mu.Unlock()
	}()

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		subs := append([]changeListener(nil), s.subscribers...)
		hooks := append([]appendListener(nil), s.appendHooks...)

		s.mu.Unlock()
		s.deliver(next, subs, hooks)
		s.mu.Lock()
	}
}

func (s *Store) deliver(c Change, subs []changeListener, hooks []appendListener) {
	// commit's deferred unlock expects the lock held if a listener panics.
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.queue = nil
			panic(r)
		}
	}()
	for _, l := range subs {
		l.fn(c)
	}
	for _, m := range c.Appended {
		for _, h := range hooks {
			h.fn(m)
		}
	}
}
