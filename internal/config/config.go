package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	pErrors "github.com/zhubert/sheetchat/internal/errors"
	"github.com/zhubert/sheetchat/internal/provider"
)

// DefaultMockDelayMS matches provider.DefaultMockDelay.
const DefaultMockDelayMS = 1000

// MaxRecentFiles is how many recently attached workbooks are remembered.
const MaxRecentFiles = 10

// Config holds the application configuration
type Config struct {
	Provider string `json:"provider,omitempty"` // "mock", "openai" or "anthropic"
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty"` // OpenAI-compatible endpoint

	Greeting    string `json:"greeting,omitempty"`
	MockReply   string `json:"mock_reply,omitempty"`
	MockDelayMS *int   `json:"mock_delay_ms,omitempty"`

	ReplyTimeoutSeconds int `json:"reply_timeout_seconds,omitempty"` // 0 disables the timeout
	HistoryLimit        int `json:"history_limit,omitempty"`         // 0 keeps every message

	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notification when a reply lands
	TranscriptsEnabled   bool   `json:"transcripts_enabled,omitempty"`   // Record conversations to SQLite
	TranscriptPath       string `json:"transcript_path,omitempty"`

	StartDir    string   `json:"start_dir,omitempty"` // Where the file picker starts
	RecentFiles []string `json:"recent_files,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// Dir returns the directory holding config.json and the transcript
// database. SHEETCHAT_CONFIG_DIR overrides the default ~/.sheetchat.
func Dir() (string, error) {
	if dir := os.Getenv("SHEETCHAT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sheetchat"), nil
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from its default location.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, pErrors.ConfigLoadFailed("~/.sheetchat/config.json", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.ensureInitialized()
		return cfg, nil
	}
	if err != nil {
		return nil, pErrors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, pErrors.ConfigLoadFailed(path, err)
	}

	// Must happen before Validate, which only reads.
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ensureInitialized fills in nil collections. Only called from LoadFrom,
// before the Config is shared.
func (c *Config) ensureInitialized() {
	if c.RecentFiles == nil {
		c.RecentFiles = []string{}
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if name := strings.ToLower(c.Provider); name != "" && !slices.Contains(provider.Names, name) {
		return pErrors.ConfigInvalid(fmt.Sprintf("unknown provider %q (want one of %s)", c.Provider, strings.Join(provider.Names, ", ")))
	}
	if c.MockDelayMS != nil && *c.MockDelayMS < 0 {
		return pErrors.ConfigInvalid("mock_delay_ms must not be negative")
	}
	if c.ReplyTimeoutSeconds < 0 {
		return pErrors.ConfigInvalid("reply_timeout_seconds must not be negative")
	}
	if c.HistoryLimit < 0 {
		return pErrors.ConfigInvalid("history_limit must not be negative")
	}

	seen := make(map[string]bool)
	for _, f := range c.RecentFiles {
		if f == "" {
			return pErrors.ConfigInvalid("empty recent file path found")
		}
		if seen[f] {
			return pErrors.ConfigInvalid(fmt.Sprintf("duplicate recent file: %s", f))
		}
		seen[f] = true
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return pErrors.ConfigSaveFailed("", fmt.Errorf("config has no file path"))
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return pErrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return pErrors.ConfigSaveFailed(c.filePath, err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return pErrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Path returns the file the config is loaded from and saved to.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// ApplyEnv overrides provider settings from SHEETCHAT_PROVIDER,
// SHEETCHAT_MODEL and SHEETCHAT_BASE_URL. The overrides are not saved
// unless Save is called afterwards.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v := getenv("SHEETCHAT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := getenv("SHEETCHAT_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("SHEETCHAT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
}

// GetProvider returns the configured provider name, defaulting to the mock.
func (c *Config) GetProvider() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Provider == "" {
		return provider.NameMock
	}
	return strings.ToLower(c.Provider)
}

// SetProvider sets the provider name
func (c *Config) SetProvider(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Provider = name
}

// GetModel returns the model name; empty means the provider's default.
func (c *Config) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Model
}

// SetModel sets the model name
func (c *Config) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Model = model
}

// GetGreeting returns the custom greeting, or "" for the built-in one.
func (c *Config) GetGreeting() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Greeting
}

// GetMockDelay returns how long the mock provider waits before replying.
func (c *Config) GetMockDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ms := DefaultMockDelayMS
	if c.MockDelayMS != nil {
		ms = *c.MockDelayMS
	}
	return time.Duration(ms) * time.Millisecond
}

// SetMockDelay sets the mock provider's delay.
func (c *Config) SetMockDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := int(d / time.Millisecond)
	c.MockDelayMS = &ms
}

// GetReplyTimeout returns the per-reply timeout; zero means none.
func (c *Config) GetReplyTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.ReplyTimeoutSeconds) * time.Second
}

// GetHistoryLimit returns the message cap; zero means unbounded.
func (c *Config) GetHistoryLimit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.HistoryLimit
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetTranscriptsEnabled returns whether conversations are recorded.
func (c *Config) GetTranscriptsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.TranscriptsEnabled
}

// SetTranscriptsEnabled sets whether conversations are recorded.
func (c *Config) SetTranscriptsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TranscriptsEnabled = enabled
}

// GetTranscriptPath returns the transcript database path. By default it
// lives next to the config file.
func (c *Config) GetTranscriptPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.TranscriptPath != "" {
		return c.TranscriptPath
	}
	return filepath.Join(filepath.Dir(c.filePath), "transcripts.db")
}

// GetStartDir returns the directory the file picker opens in, falling back
// to the working directory.
func (c *Config) GetStartDir() string {
	c.mu.RLock()
	dir := c.StartDir
	c.mu.RUnlock()
	if dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ProviderSettings returns what provider.New needs.
func (c *Config) ProviderSettings() provider.Settings {
	delay := c.GetMockDelay()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return provider.Settings{
		Name:      c.Provider,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		MockReply: c.MockReply,
		MockDelay: delay,
	}
}
