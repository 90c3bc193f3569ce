package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zhubert/sheetchat/internal/chat"
	"github.com/zhubert/sheetchat/internal/transcript"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversations",
	Long: `Lists conversations recorded to the transcript database, newest first.

Recording is off by default. Turn it on in settings (",") or set
"transcripts_enabled": true in ~/.sheetchat/config.json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTranscripts()
		if err != nil || store == nil {
			return handleMissingStore(cmd.OutOrStdout(), err)
		}
		defer store.Close()
		return listConversations(cmd, store)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one recorded conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTranscripts()
		if err != nil || store == nil {
			return handleMissingStore(cmd.OutOrStdout(), err)
		}
		defer store.Close()
		return showConversation(cmd, store, args[0])
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one recorded conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTranscripts()
		if err != nil || store == nil {
			return handleMissingStore(cmd.OutOrStdout(), err)
		}
		defer store.Close()
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", transcript.DefaultListLimit, "Maximum number of conversations to list")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// openTranscripts opens the configured transcript database. It returns a nil
// store and no error when nothing has been recorded yet.
func openTranscripts() (*transcript.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.GetTranscriptPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return transcript.Open(path)
}

func handleMissingStore(w io.Writer, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "No transcripts recorded.")
	return nil
}

func listConversations(cmd *cobra.Command, store *transcript.Store) error {
	convs, err := store.ListConversations(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(convs) == 0 {
		fmt.Fprintln(w, "No transcripts recorded.")
		return nil
	}

	for _, c := range convs {
		file := c.File
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(w, "%-36s  %-10s  %3d msgs  %-24s  %s\n",
			c.ID, c.Provider, c.Messages, file, humanize.Time(c.UpdatedAt))
	}
	return nil
}

func showConversation(cmd *cobra.Command, store *transcript.Store, id string) error {
	msgs, err := store.Messages(cmd.Context(), id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, m := range msgs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		label := "You"
		if m.Author == chat.AuthorAssistant {
			label = "Assistant"
		}
		if m.Failed {
			label += " (failed)"
		}
		fmt.Fprintf(w, "[%s] %s\n", m.Timestamp.Local().Format("2006-01-02 15:04"), label)
		fmt.Fprintln(w, strings.TrimRight(m.Content, "\n"))
	}
	return nil
}
