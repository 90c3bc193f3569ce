package cmd

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/sheetchat/internal/app"
	"github.com/zhubert/sheetchat/internal/config"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/provider"
	"github.com/zhubert/sheetchat/internal/session"
	"github.com/zhubert/sheetchat/internal/transcript"
)

var (
	debugMode             bool
	quietMode             bool
	providerName          string
	modelName             string
	startFile             string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "sheetchat",
	Short: "Chat with an AI assistant about an Excel workbook",
	Long: `sheetchat is a terminal chat client for asking questions about an Excel workbook.
Attach an .xlsx or .xls file with Ctrl+O or by dropping it on the terminal,
then ask away. Replies come from OpenAI, Anthropic or a built-in mock.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")

	rootCmd.Flags().StringVar(&providerName, "provider", "", "Reply provider: mock, openai or anthropic (overrides config)")
	rootCmd.Flags().StringVar(&modelName, "model", "", "Model name passed to the provider (overrides config)")
	rootCmd.Flags().StringVarP(&startFile, "file", "f", "", "Attach this workbook on startup")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("sheetchat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("sheetchat %s\n", version)
}

// loadConfig loads .env files, then the config file, then the
// SHEETCHAT_* environment overrides.
func loadConfig() (*config.Config, error) {
	if loaded, err := config.LoadEnvFiles(); err != nil {
		return nil, fmt.Errorf("error loading .env: %w", err)
	} else if len(loaded) > 0 {
		logger.WithComponent("cmd").Debug("loaded env files", "files", loaded)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// providerSettings applies the command line overrides without touching the
// saved config.
func providerSettings(cfg *config.Config) provider.Settings {
	s := cfg.ProviderSettings()
	if providerName != "" {
		s.Name = providerName
	}
	if modelName != "" {
		s.Model = modelName
	}
	return s
}

// newSession builds the chat session described by cfg.
func newSession(cfg *config.Config, p provider.Provider) *session.Session {
	opts := []session.Option{
		session.WithHistoryLimit(cfg.GetHistoryLimit()),
		session.WithReplyTimeout(cfg.GetReplyTimeout()),
	}
	if greeting := cfg.GetGreeting(); greeting != "" {
		opts = append(opts, session.WithGreeting(greeting))
	}
	return session.New(p, opts...)
}

// attachStartFile selects path in sess. A file that cannot be read or is not
// a workbook is left unattached, as with any other pick.
func attachStartFile(cfg *config.Config, sess *session.Session, path string) {
	log := logger.WithSession(sess.ID())
	if _, err := sess.SelectPath(path); err != nil {
		log.Warn("start file not attached", "path", path, "error", err)
		return
	}
	cfg.AddRecentFile(path)
	if cfg.Path() != "" {
		if err := cfg.Save(); err != nil {
			log.Warn("failed to save config", "error", err)
		}
	}
}

// startTranscript records sess when transcripts are enabled. The returned
// stop function closes sess, so a reply cancelled on quit is still recorded,
// then stores the attached file name and closes the database.
func startTranscript(ctx context.Context, cfg *config.Config, sess *session.Session) func() {
	if !cfg.GetTranscriptsEnabled() {
		return func() {}
	}
	log := logger.WithSession(sess.ID())

	store, err := transcript.Open(cfg.GetTranscriptPath())
	if err != nil {
		log.Warn("transcripts disabled", "error", err)
		return func() {}
	}
	rec, err := transcript.Record(ctx, store, sess, sess.Provider().Name())
	if err != nil {
		log.Warn("transcripts disabled", "error", err)
		store.Close()
		return func() {}
	}

	return func() {
		sess.Close()
		if c, ok := sess.CurrentFile(); ok {
			rec.SetFile(c.Name)
		}
		rec.Close()
		if err := store.Close(); err != nil {
			log.Warn("failed to close transcript store", "error", err)
		}
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	p, err := provider.New(providerSettings(cfg))
	if err != nil {
		return fmt.Errorf("error creating provider: %w", err)
	}

	sess := newSession(cfg, p)
	if startFile != "" {
		attachStartFile(cfg, sess, startFile)
	}

	// Deferred in this order so the session closes before recording stops
	stopTranscript := startTranscript(cmd.Context(), cfg, sess)
	defer stopTranscript()
	defer sess.Close()

	// Create and run the app
	m := app.New(cfg, sess, app.WithVersion(version))
	defer m.Close()
	prog := tea.NewProgram(m)

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
