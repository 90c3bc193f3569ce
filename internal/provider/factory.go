package provider

import (
	"os"
	"strings"
	"time"

	pErrors "github.com/zhubert/sheetchat/internal/errors"
)

// Provider names accepted by New.
const (
	NameMock      = "mock"
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
)

// Names lists the providers New can build.
var Names = []string{NameMock, NameOpenAI, NameAnthropic}

// Settings selects and configures a provider.
type Settings struct {
	Name    string
	Model   string
	BaseURL string

	MockReply string
	// MockDelay is how long the mock waits. Zero replies immediately; a
	// negative value keeps DefaultMockDelay.
	MockDelay time.Duration

	// Getenv looks up API keys. Defaults to os.Getenv.
	Getenv func(string) string
}

// New builds the provider named in s. An empty name means the mock.
func New(s Settings) (Provider, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	switch strings.ToLower(strings.TrimSpace(s.Name)) {
	case "", NameMock:
		m := NewMock()
		if s.MockReply != "" {
			m.Text = s.MockReply
		}
		if s.MockDelay >= 0 {
			m.Delay = s.MockDelay
		}
		return m, nil

	case NameOpenAI:
		key := getenv("OPENAI_API_KEY")
		if key == "" {
			key = getenv("OPENAI_KEY")
		}
		if key == "" && s.BaseURL == "" {
			return nil, pErrors.ProviderMissingKey(NameOpenAI, "OPENAI_API_KEY")
		}
		return NewOpenAI(key, s.BaseURL, s.Model), nil

	case NameAnthropic:
		key := getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, pErrors.ProviderMissingKey(NameAnthropic, "ANTHROPIC_API_KEY")
		}
		return NewAnthropic(key, s.Model), nil

	default:
		return nil, pErrors.ProviderUnknown(s.Name)
	}
}
