package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/sheetchat/internal/logger"
)

var (
	skipConfirm      bool
	cleanTranscripts bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove log files and, optionally, recorded transcripts",
	Long: `Removes the debug log and any demo logs from /tmp. With --transcripts the
transcript database is deleted too.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanTranscripts, "transcripts", false, "Also delete the transcript database")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(cmd.OutOrStdout(), os.Stdin)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(out io.Writer, input io.Reader) error {
	var transcriptFiles []string
	if cleanTranscripts {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// SQLite keeps its write-ahead log beside the database
		for _, suffix := range []string{"", "-wal", "-shm"} {
			p := cfg.GetTranscriptPath() + suffix
			if _, err := os.Stat(p); err == nil {
				transcriptFiles = append(transcriptFiles, p)
			}
		}
	}

	fmt.Fprintln(out, "This will clean:")
	fmt.Fprintln(out, "  - All sheetchat log files in /tmp")
	if len(transcriptFiles) > 0 {
		fmt.Fprintf(out, "  - The transcript database (%s)\n", transcriptFiles[0])
	}

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(out, input, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	removed := 0
	for _, p := range transcriptFiles {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error removing %s: %v\n", p, err)
			continue
		}
		removed++
	}

	// Print results
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	if removed > 0 {
		fmt.Fprintf(out, "  - %d transcript file(s) removed\n", removed)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(out io.Writer, input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
