package provider

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI answers through the Chat Completions API. BaseURL may point at any
// OpenAI-compatible server.
type OpenAI struct {
	Client *openai.Client
	Model  string
}

// NewOpenAI builds a client for apiKey. An empty baseURL uses OpenAI itself.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Reply sends the conversation with a system prompt describing the workbook.
func (o *OpenAI) Reply(ctx context.Context, req Request) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.Model,
		Messages: openAIMessages(req),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIMessages(req Request) []openai.ChatCompletionMessage {
	msgs := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt(req.File),
	}}
	for _, t := range conversation(req.History) {
		role := openai.ChatMessageRoleUser
		if t.assistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.content})
	}
	return msgs
}
