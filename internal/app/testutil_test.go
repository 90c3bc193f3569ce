package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/config"
	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/provider"
	"github.com/zhubert/sheetchat/internal/session"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}

type result struct {
	text string
	err  error
}

// gatedProvider blocks each reply until the test releases it.
type gatedProvider struct {
	calls   chan provider.Request
	release chan result
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{
		calls:   make(chan provider.Request, 10),
		release: make(chan result),
	}
}

func (g *gatedProvider) Name() string { return "gated" }

func (g *gatedProvider) Reply(ctx context.Context, req provider.Request) (string, error) {
	g.calls <- req
	select {
	case r := <-g.release:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func replyWith(text string, err error) provider.Func {
	return func(context.Context, provider.Request) (string, error) { return text, err }
}

// recorder captures clipboard writes and notifications.
type recorder struct {
	mu       sync.Mutex
	copied   []string
	notified []string
	copyErr  error
}

func (r *recorder) copy(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.copyErr != nil {
		return r.copyErr
	}
	r.copied = append(r.copied, s)
	return nil
}

func (r *recorder) notify(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, s)
	return nil
}

// testConfig loads an empty config backed by a temp file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	return cfg
}

// testModel builds a Model around a fresh session answered by p.
func testModel(t *testing.T, p provider.Provider) (*Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	sess := session.New(p, session.WithID("test-session"))
	m := New(testConfig(t), sess, WithVersion("0.0.0-test"), WithClipboard(rec.copy), WithNotifier(rec.notify))
	t.Cleanup(func() {
		m.Close()
		sess.Close()
	})
	return m, rec
}

// testModelWithSize creates a test Model and sets its size.
func testModelWithSize(t *testing.T, p provider.Provider, width, height int) (*Model, *recorder) {
	t.Helper()
	m, rec := testModel(t, p)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m, rec
}

// settle waits for the outstanding reply and applies the resulting change.
func settle(t *testing.T, m *Model) {
	t.Helper()
	m.session.Wait()
	msg, ok := m.PollSession()
	if !ok {
		t.Fatal("expected a pending session change")
	}
	m.Update(msg)
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.ShiftEnter:
		return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlO:
		return tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}
	case keys.CtrlX:
		return tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
