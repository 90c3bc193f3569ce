package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/sheetchat/internal/provider"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration sheetchat would start with: the config file,
any .env files, and SHEETCHAT_PROVIDER, SHEETCHAT_MODEL and SHEETCHAT_BASE_URL.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	settings := cfg.ProviderSettings()
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	orNone := func(s string) string {
		if s == "" {
			return "(default)"
		}
		return s
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "config file:     %s\n", cfg.Path())
	fmt.Fprintf(w, "provider:        %s\n", cfg.GetProvider())
	fmt.Fprintf(w, "model:           %s\n", orNone(settings.Model))
	fmt.Fprintf(w, "base url:        %s\n", orNone(settings.BaseURL))
	if cfg.GetProvider() == provider.NameMock {
		fmt.Fprintf(w, "mock delay:      %s\n", settings.MockDelay)
	}
	timeout := "none"
	if d := cfg.GetReplyTimeout(); d > 0 {
		timeout = d.String()
	}
	fmt.Fprintf(w, "reply timeout:   %s\n", timeout)
	limit := "unbounded"
	if n := cfg.GetHistoryLimit(); n > 0 {
		limit = fmt.Sprintf("%d messages", n)
	}
	fmt.Fprintf(w, "history limit:   %s\n", limit)
	fmt.Fprintf(w, "notifications:   %s\n", onOff(cfg.GetNotificationsEnabled()))
	fmt.Fprintf(w, "transcripts:     %s (%s)\n", onOff(cfg.GetTranscriptsEnabled()), cfg.GetTranscriptPath())
	fmt.Fprintf(w, "start dir:       %s\n", cfg.GetStartDir())
	if recent := cfg.GetRecentFiles(); len(recent) > 0 {
		fmt.Fprintf(w, "recent files:    %s\n", strings.Join(recent, "\n                 "))
	}
	return nil
}
