package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/sheetchat/internal/chat"
	"github.com/zhubert/sheetchat/internal/config"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/provider"
	"github.com/zhubert/sheetchat/internal/session"
	"github.com/zhubert/sheetchat/internal/transcript"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}

// testCommand returns a command writing to a buffer, with a context set so
// it can be used without Execute.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func writeWorkbook(t *testing.T, name string) string {
	t.Helper()
	// Minimal zip header so MIME sniffing sees an archive
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("PK\x03\x04workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDebugFlagDefaultTrue(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "true" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "true")
	}
}

func TestQuietFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--quiet default = %q, want %q", flag.DefValue, "false")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"provider", "model", "file"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	want := map[string]bool{"history": false, "config": false, "demo": false, "clean": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestInitConfig_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	// Should not panic - quiet should take precedence
	initConfig()
}

func TestVersionTemplate(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer SetVersionInfo(origV, origC, origD)

	SetVersionInfo("1.2.0", "none", "unknown")
	if got := versionTemplate(); got != "sheetchat 1.2.0\n" {
		t.Errorf("versionTemplate() = %q", got)
	}

	SetVersionInfo("1.2.0", "abc123", "2026-01-01")
	if got := versionTemplate(); !strings.Contains(got, "commit: abc123") {
		t.Errorf("versionTemplate() = %q, want the commit", got)
	}
}

func TestProviderSettings(t *testing.T) {
	origProvider, origModel := providerName, modelName
	defer func() { providerName, modelName = origProvider, origModel }()

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetProvider("openai")
	cfg.SetModel("gpt-4o-mini")

	providerName, modelName = "", ""
	if s := providerSettings(cfg); s.Name != "openai" || s.Model != "gpt-4o-mini" {
		t.Errorf("without flags got %+v", s)
	}

	providerName, modelName = "anthropic", "claude-sonnet-4-5"
	s := providerSettings(cfg)
	if s.Name != "anthropic" || s.Model != "claude-sonnet-4-5" {
		t.Errorf("flags should win, got %+v", s)
	}
	if cfg.GetProvider() != "openai" {
		t.Error("flags must not change the saved config")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SHEETCHAT_CONFIG_DIR", t.TempDir())
	t.Setenv("SHEETCHAT_PROVIDER", "anthropic")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.GetProvider() != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.GetProvider())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SHEETCHAT_CONFIG_DIR", t.TempDir())
	t.Setenv("SHEETCHAT_PROVIDER", "carrier-pigeon")

	if _, err := loadConfig(); err == nil {
		t.Error("expected an unknown provider to be rejected")
	}
}

func TestAttachStartFile(t *testing.T) {
	tests := []struct {
		name       string
		path       func(t *testing.T) string
		wantFile   bool
		wantRecent bool
	}{
		{"workbook", func(t *testing.T) string { return writeWorkbook(t, "sales.xlsx") }, true, true},
		{"not a workbook", func(t *testing.T) string { return writeWorkbook(t, "notes.txt") }, false, false},
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.xlsx") }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
			if err != nil {
				t.Fatal(err)
			}
			sess := session.New(provider.NewMock())
			defer sess.Close()

			path := tt.path(t)
			attachStartFile(cfg, sess, path)

			if _, ok := sess.CurrentFile(); ok != tt.wantFile {
				t.Errorf("attached = %v, want %v", ok, tt.wantFile)
			}
			if got := len(cfg.GetRecentFiles()) == 1; got != tt.wantRecent {
				t.Errorf("remembered = %v, want %v", got, tt.wantRecent)
			}
		})
	}
}

func TestStartTranscript(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetTranscriptsEnabled(true)

	reply := provider.Func(func(context.Context, provider.Request) (string, error) {
		return "Row 7 is the largest.", nil
	})
	sess := session.New(reply, session.WithID("conv-1"))
	defer sess.Close()

	stop := startTranscript(context.Background(), cfg, sess)
	if !sess.Submit("Which row is largest?") {
		t.Fatal("Submit refused")
	}
	sess.Wait()
	stop()

	store, err := transcript.Open(cfg.GetTranscriptPath())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	cmd, out := testCommand()
	if err := showConversation(cmd, store, "conv-1"); err != nil {
		t.Fatalf("showConversation: %v", err)
	}
	for _, want := range []string{"Assistant", "You", "Which row is largest?", "Row 7 is the largest."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("transcript missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	historyLimit = transcript.DefaultListLimit
	if err := listConversations(cmd, store); err != nil {
		t.Fatalf("listConversations: %v", err)
	}
	if !strings.Contains(out.String(), "conv-1") || !strings.Contains(out.String(), "3 msgs") {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}

func TestStartTranscript_RecordsCancelOnQuit(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetTranscriptsEnabled(true)

	started := make(chan struct{})
	slow := provider.Func(func(ctx context.Context, _ provider.Request) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	sess := session.New(slow, session.WithID("conv-quit"))
	defer sess.Close()

	stop := startTranscript(context.Background(), cfg, sess)
	if !sess.Submit("Sum column C") {
		t.Fatal("Submit refused")
	}
	<-started
	stop()

	store, err := transcript.Open(cfg.GetTranscriptPath())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	msgs, err := store.Messages(context.Background(), "conv-quit")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) == 0 {
		t.Fatal("nothing recorded")
	}
	last := msgs[len(msgs)-1]
	if last.Content != session.CancelledNotice || !last.Failed {
		t.Errorf("last recorded message = %+v, want the cancellation notice", last)
	}
}

func TestStartTranscript_Disabled(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(provider.NewMock())
	defer sess.Close()

	startTranscript(context.Background(), cfg, sess)()

	if _, err := os.Stat(cfg.GetTranscriptPath()); !os.IsNotExist(err) {
		t.Errorf("no database should be created when transcripts are off: %v", err)
	}
}

func TestShowConversation_Failed(t *testing.T) {
	store, err := transcript.Open(filepath.Join(t.TempDir(), "t.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	store.BeginConversation(ctx, "c", "mock", at)
	store.AppendMessage(ctx, "c", chat.Message{ID: "1", Author: chat.AuthorAssistant, Content: "Error: boom", Timestamp: at, Failed: true})

	cmd, out := testCommand()
	if err := showConversation(cmd, store, "c"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Assistant (failed)") {
		t.Errorf("failed replies should be labelled:\n%s", out.String())
	}

	if err := showConversation(cmd, store, "missing"); err == nil {
		t.Error("expected an error for an unknown conversation")
	}
}

func TestHandleMissingStore(t *testing.T) {
	var buf bytes.Buffer
	if err := handleMissingStore(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No transcripts recorded.") {
		t.Errorf("got %q", buf.String())
	}
}
