package provider

import (
	"context"
	"time"
)

// Default mock behaviour, used until a real backend is configured.
const (
	DefaultMockReply = "This is a simulated response. Connect your FastAPI backend here to get real AI responses based on your Excel data and DuckDB queries."
	DefaultMockDelay = time.Second
)

// Mock replies with a fixed text after a fixed delay. It needs no network
// and is the default provider.
type Mock struct {
	Delay time.Duration
	Text  string
}

// NewMock returns a Mock with the default reply and delay.
func NewMock() *Mock {
	return &Mock{Delay: DefaultMockDelay, Text: DefaultMockReply}
}

// Name returns "mock".
func (m *Mock) Name() string { return "mock" }

// Reply waits for Delay, then returns Text. It returns ctx.Err() if ctx
// ends first.
func (m *Mock) Reply(ctx context.Context, _ Request) (string, error) {
	text := m.Text
	if text == "" {
		text = DefaultMockReply
	}
	if m.Delay <= 0 {
		return text, ctx.Err()
	}

	timer := time.NewTimer(m.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
