// Package chat holds the conversation history and the pending-reply flag,
// and tells observers when either changes.
package chat

import (
	"strings"
	"time"
)

// Author identifies who wrote a message.
type Author int

const (
	AuthorUser Author = iota
	AuthorAssistant
)

func (a Author) String() string {
	if a == AuthorAssistant {
		return "assistant"
	}
	return "user"
}

// ParseAuthor is the inverse of Author.String.
func ParseAuthor(s string) (Author, bool) {
	switch s {
	case "user":
		return AuthorUser, true
	case "assistant":
		return AuthorAssistant, true
	}
	return AuthorUser, false
}

// Message is one entry in the conversation. Messages are never edited
// after they are appended.
type Message struct {
	ID        string
	Content   string
	Author    Author
	Timestamp time.Time
	// Failed marks an assistant notice that stands in for a reply that
	// could not be produced.
	Failed bool
}

// Valid reports whether the message can be stored: it needs an ID and
// some non-whitespace content.
func (m Message) Valid() bool {
	return m.ID != "" && strings.TrimSpace(m.Content) != ""
}

// State is a point-in-time copy of the conversation.
type State struct {
	Messages []Message
	// Pending is true while a reply is outstanding.
	Pending bool
}

// Change describes one mutation of a Store.
type Change struct {
	State
	// Appended holds the messages added by this mutation, oldest first.
	Appended []Message
	// Evicted is the number of old messages dropped to honour the history limit.
	Evicted int
}
