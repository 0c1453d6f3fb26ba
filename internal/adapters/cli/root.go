package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/devbush/ytlingo/internal/adapters/cli/tui"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	formatFlag   string
	outputFlag   string
	quietFlag    bool
	languageFlag string
	noCacheFlag  bool
	logLevelFlag string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ytlingo [youtube-url]",
		Short: "Word-timed transcripts and audio for YouTube videos",
		Long: `ytlingo fetches the captions of a YouTube video, estimates a time
span for every word, and extracts the audio as MP3 for synchronized playback.

Provide a video URL to fetch it, run "ytlingo serve" to start the HTTP API,
or run without arguments for an interactive menu.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text", "Output format: text, srt, json")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output file (fetch) or directory (batch)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "language", "l", "", "Caption language code (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false, "Skip the transcript cache")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().StringVar(&audioFlag, "audio", "", "Also save the MP3 to this path")

	rootCmd.AddCommand(NewFetchCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewStoreCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runInteractiveMenu(cmd.Context())
	}
	return runFetch(cmd.Context(), args[0])
}

func runInteractiveMenu(ctx context.Context) error {
	options := []tui.MenuOption{
		{Label: "Fetch a video transcript", Value: "fetch"},
		{Label: "Fetch transcript and audio", Value: "audio"},
		{Label: "Store statistics", Value: "store"},
		{Label: "Dependency status", Value: "deps"},
	}

	selected, err := tui.RunMenu("ytlingo", options)
	if err != nil {
		return err
	}

	switch selected {
	case "fetch", "audio":
		url := prompt("Enter YouTube URL: ")
		if selected == "audio" && audioFlag == "" {
			audioFlag = prompt("Save MP3 to: ")
		}
		return runFetch(ctx, url)
	case "store":
		return runStoreStatus(ctx)
	case "deps":
		return runDepsStatus(ctx)
	case "":
		fmt.Fprintln(os.Stderr, "Cancelled")
	}

	return nil
}

func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// Execute runs the CLI
func Execute(ctx context.Context) int {
	defer func() {
		if globalApp != nil {
			globalApp.Close()
		}
	}()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, tui.Failure(err.Error()))
		return 1
	}
	return 0
}
