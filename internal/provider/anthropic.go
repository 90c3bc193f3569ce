package provider

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic defaults.
const (
	DefaultAnthropicModel     = "claude-3-5-haiku-latest"
	DefaultAnthropicMaxTokens = 1024
)

// Anthropic answers through the Messages API.
type Anthropic struct {
	Client    *anthropic.Client
	Model     string
	MaxTokens int
}

// NewAnthropic builds a client for apiKey. Extra options are passed to the
// SDK client, e.g. anthropicopt.WithBaseURL.
func NewAnthropic(apiKey, model string, opts ...anthropicopt.RequestOption) *Anthropic {
	cl := anthropic.NewClient(append([]anthropicopt.RequestOption{anthropicopt.WithAPIKey(apiKey)}, opts...)...)
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{Client: &cl, Model: model, MaxTokens: DefaultAnthropicMaxTokens}
}

// Name returns "anthropic".
func (a *Anthropic) Name() string { return "anthropic" }

// Reply sends the conversation and concatenates the text blocks of the answer.
func (a *Anthropic) Reply(ctx context.Context, req Request) (string, error) {
	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: int64(a.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt(req.File)}},
		Messages:  anthropicMessages(req),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}

func anthropicMessages(req Request) []anthropic.MessageParam {
	var msgs []anthropic.MessageParam
	for _, t := range conversation(req.History) {
		block := anthropic.NewTextBlock(t.content)
		if t.assistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}
	return msgs
}
