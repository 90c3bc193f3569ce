// Package provider produces assistant replies. A Provider is handed the
// conversation so far (ending with the user's newest message) and the
// workbook the user has attached, if any.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhubert/sheetchat/internal/chat"
	"github.com/zhubert/sheetchat/internal/upload"
)

// Request is the input to a single reply.
type Request struct {
	// History is the conversation in order, including the message being
	// answered as its last element.
	History []chat.Message
	// File is the selected workbook, or nil.
	File *upload.Candidate
}

// Prompt returns the content of the newest user message.
func (r Request) Prompt() string {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].Author == chat.AuthorUser {
			return r.History[i].Content
		}
	}
	return ""
}

// Provider answers chat messages. Reply must return promptly once ctx is
// done. An empty reply is treated as a failure by callers.
type Provider interface {
	Name() string
	Reply(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to a Provider.
type Func func(ctx context.Context, req Request) (string, error)

// Name returns "func".
func (f Func) Name() string { return "func" }

// Reply calls f.
func (f Func) Reply(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

const basePrompt = "You are a helpful assistant that answers questions about the user's Excel data. " +
	"Answer concisely and use Markdown tables or code blocks where they help."

// SystemPrompt describes the assistant's role and the attached workbook.
func SystemPrompt(file *upload.Candidate) string {
	if file == nil {
		return basePrompt + " No workbook is attached yet; if a question needs data, ask the user to upload one."
	}
	return fmt.Sprintf("%s The user has attached the workbook %q (%s, %s).",
		basePrompt, file.Name, file.SizeMB(), mimeOrUnknown(file.MIMEType))
}

func mimeOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown type"
	}
	return s
}

// turn is a provider-neutral conversation entry.
type turn struct {
	assistant bool
	content   string
}

// conversation drops failure notices and any assistant messages that come
// before the first user message (the greeting), since chat APIs expect the
// conversation to open with the user.
func conversation(history []chat.Message) []turn {
	var out []turn
	for _, m := range history {
		if m.Failed {
			continue
		}
		if m.Author == chat.AuthorAssistant && len(out) == 0 {
			continue
		}
		out = append(out, turn{assistant: m.Author == chat.AuthorAssistant, content: m.Content})
	}
	return out
}
