package chat

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func msg(id string, author Author, content string, offset time.Duration) Message {
	return Message{ID: id, Author: author, Content: content, Timestamp: t0.Add(offset)}
}

func TestAppend_Validation(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"valid", msg("1", AuthorUser, "hello", 0), true},
		{"empty content", msg("1", AuthorUser, "", 0), false},
		{"whitespace content", msg("1", AuthorUser, " \n\t ", 0), false},
		{"missing id", msg("", AuthorUser, "hello", 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			if got := s.Append(tt.msg); got != tt.want {
				t.Errorf("Append() = %v, want %v", got, tt.want)
			}
			wantLen := 0
			if tt.want {
				wantLen = 1
			}
			if s.Len() != wantLen {
				t.Errorf("Len() = %d, want %d", s.Len(), wantLen)
			}
		})
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Append(msg(fmt.Sprint(i), AuthorUser, fmt.Sprintf("m%d", i), time.Duration(i)*time.Second))
	}

	got := s.Snapshot()
	for i, m := range got {
		if m.ID != fmt.Sprint(i) {
			t.Errorf("message %d has ID %q", i, m.ID)
		}
	}
	last, ok := s.Last()
	if !ok || last.ID != "4" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestAppend_ClampsTimestamps(t *testing.T) {
	s := NewStore()
	s.Append(msg("a", AuthorUser, "first", time.Minute))
	s.Append(msg("b", AuthorAssistant, "second", 0))

	got := s.Snapshot()
	if got[1].Timestamp.Before(got[0].Timestamp) {
		t.Errorf("timestamps went backwards: %v then %v", got[0].Timestamp, got[1].Timestamp)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore()
	s.Append(msg("a", AuthorUser, "original", 0))

	snap := s.Snapshot()
	snap[0].Content = "mutated"

	if s.Snapshot()[0].Content != "original" {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestLast_Empty(t *testing.T) {
	if _, ok := NewStore().Last(); ok {
		t.Error("Last() on empty store should report false")
	}
}

func TestSetPending_NotifiesOnlyOnChange(t *testing.T) {
	s := NewStore()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.SetPending(false)
	s.SetPending(true)
	s.SetPending(true)
	s.SetPending(false)

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if !changes[0].Pending || changes[1].Pending {
		t.Errorf("pending sequence = %v, %v", changes[0].Pending, changes[1].Pending)
	}
}

func TestStartTurn(t *testing.T) {
	s := NewStore()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	if !s.StartTurn(msg("1", AuthorUser, "hello", 0)) {
		t.Fatal("first StartTurn should be accepted")
	}
	if s.StartTurn(msg("2", AuthorUser, "again", 0)) {
		t.Error("StartTurn while pending should be refused")
	}
	if s.Len() != 1 || !s.Pending() {
		t.Errorf("Len=%d Pending=%v, want 1 true", s.Len(), s.Pending())
	}
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if c := changes[0]; !c.Pending || len(c.Appended) != 1 || len(c.Messages) != 1 {
		t.Errorf("StartTurn change = %+v", c)
	}
}

func TestStartTurn_RejectsInvalid(t *testing.T) {
	s := NewStore()
	if s.StartTurn(msg("1", AuthorUser, "   ", 0)) {
		t.Error("blank message should not start a turn")
	}
	if s.Pending() {
		t.Error("rejected turn must not set pending")
	}
}

func TestFinishTurn(t *testing.T) {
	t.Run("appends reply and clears pending", func(t *testing.T) {
		s := NewStore()
		s.StartTurn(msg("1", AuthorUser, "hi", 0))

		if !s.FinishTurn(msg("2", AuthorAssistant, "hello", time.Second)) {
			t.Error("valid reply should be stored")
		}
		if s.Pending() {
			t.Error("pending should be cleared")
		}
		if s.Len() != 2 {
			t.Errorf("Len() = %d, want 2", s.Len())
		}
	})

	t.Run("invalid reply still clears pending", func(t *testing.T) {
		s := NewStore()
		s.StartTurn(msg("1", AuthorUser, "hi", 0))

		if s.FinishTurn(msg("2", AuthorAssistant, "", 0)) {
			t.Error("blank reply should not be stored")
		}
		if s.Pending() {
			t.Error("pending should be cleared")
		}
		if s.Len() != 1 {
			t.Errorf("Len() = %d, want 1", s.Len())
		}
	})
}

func TestWithLimit_EvictsOldest(t *testing.T) {
	s := NewStore(WithLimit(3))
	var last Change
	s.Subscribe(func(c Change) { last = c })

	for i := 0; i < 5; i++ {
		s.Append(msg(fmt.Sprint(i), AuthorUser, "x", 0))
	}

	got := s.Snapshot()
	if len(got) != 3 {
		t.Fatalf("Len = %d, want 3", len(got))
	}
	if got[0].ID != "2" || got[2].ID != "4" {
		t.Errorf("kept IDs %s..%s, want 2..4", got[0].ID, got[2].ID)
	}
	if last.Evicted != 1 {
		t.Errorf("Evicted = %d, want 1", last.Evicted)
	}
}

func TestWithLimit_ZeroIsUnbounded(t *testing.T) {
	s := NewStore(WithLimit(0))
	for i := 0; i < 100; i++ {
		s.Append(msg(fmt.Sprint(i), AuthorUser, "x", 0))
	}
	if s.Len() != 100 {
		t.Errorf("Len() = %d, want 100", s.Len())
	}
}

func TestNotifications_RenderBeforeScroll(t *testing.T) {
	s := NewStore()
	var events []string

	s.OnAppend(func(m Message) { events = append(events, "scroll:"+m.ID) })
	s.Subscribe(func(c Change) { events = append(events, fmt.Sprintf("render:%d", len(c.Messages))) })
	s.Subscribe(func(c Change) { events = append(events, "render2") })

	s.Append(msg("a", AuthorUser, "hi", 0))
	s.SetPending(true)
	s.Append(msg("b", AuthorAssistant, "yo", 0))

	want := "render:1 render2 scroll:a render:1 render2 render:2 render2 scroll:b"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("events =\n  %s\nwant\n  %s", got, want)
	}
}

func TestNotifications_NoScrollWithoutAppend(t *testing.T) {
	s := NewStore()
	scrolls := 0
	s.OnAppend(func(Message) { scrolls++ })

	s.SetPending(true)
	s.SetPending(false)
	s.Append(msg("x", AuthorUser, "", 0))

	if scrolls != 0 {
		t.Errorf("scroll hook ran %d times without a successful append", scrolls)
	}
}

func TestNotifications_ReentrantMutation(t *testing.T) {
	s := NewStore()
	var seen []int

	s.Subscribe(func(c Change) {
		seen = append(seen, len(c.Messages))
		if len(c.Messages) == 1 {
			// Queued until this delivery finishes.
			s.Append(msg("echo", AuthorAssistant, "echo", 0))
			seen = append(seen, -1)
		}
	})

	s.Append(msg("a", AuthorUser, "hi", 0))

	want := []int{1, -1, 2}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("delivery order = %v, want %v", seen, want)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	renders, scrolls := 0, 0
	unsub := s.Subscribe(func(Change) { renders++ })
	unhook := s.OnAppend(func(Message) { scrolls++ })

	s.Append(msg("a", AuthorUser, "hi", 0))
	unsub()
	unhook()
	s.Append(msg("b", AuthorUser, "hi", 0))

	if renders != 1 || scrolls != 1 {
		t.Errorf("renders=%d scrolls=%d, want 1 1", renders, scrolls)
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := NewStore()
	var mu sync.Mutex
	delivered := 0
	s.OnAppend(func(Message) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Append(msg(fmt.Sprintf("%d-%d", n, j), AuthorUser, "x", 0))
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", s.Len())
	}
	mu.Lock()
	defer mu.Unlock()
	if delivered != 1000 {
		t.Errorf("delivered %d append notifications, want 1000", delivered)
	}
}

func TestParseAuthor(t *testing.T) {
	for _, a := range []Author{AuthorUser, AuthorAssistant} {
		got, ok := ParseAuthor(a.String())
		if !ok || got != a {
			t.Errorf("ParseAuthor(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if _, ok := ParseAuthor("system"); ok {
		t.Error("unknown author should not parse")
	}
}
