package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/devbush/ytlingo/internal/adapters/cli/tui"
	"github.com/devbush/ytlingo/internal/adapters/ffmpeg"
	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/domain"
	"github.com/spf13/cobra"
)

var audioFlag string

// NewFetchCmd creates the fetch command
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <youtube-url>",
		Short: "Fetch a word-timed transcript (and optionally the audio)",
		Long: `Fetch the captions of a video and print them with per-word timings.

With --audio the audio is extracted as well and the MP3 is copied to the
given path.

Example:
  ytlingo fetch https://youtu.be/dQw4w9WgXcQ
  ytlingo fetch https://youtu.be/dQw4w9WgXcQ --format json -o out.json
  ytlingo fetch https://youtu.be/dQw4w9WgXcQ -l fr --audio talk.mp3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&audioFlag, "audio", "", "Also save the MP3 to this path")
	return cmd
}

func runFetch(ctx context.Context, input string) error {
	if _, err := domain.ParseVideoInput(input); err != nil {
		return err
	}

	app, err := GetApp(ctx)
	if err != nil {
		return err
	}
	ctx = app.cliContext(ctx)

	wantAudio := audioFlag != ""
	if err := ensureDeps(ctx, app, wantAudio); err != nil {
		return err
	}

	req := application.ProcessRequest{
		URL:      input,
		Language: languageFlag,
		NoCache:  noCacheFlag,
	}

	doc := &videoDocument{}
	label := "Fetching captions"
	if wantAudio {
		label = "Fetching captions and audio"
	}

	err = tui.RunWithSpinner(ctx, label, quietFlag, func(ctx context.Context) error {
		if !wantAudio {
			transcript, _, err := app.ProcessSvc.Transcript(ctx, req)
			if err != nil {
				return err
			}
			doc = newVideoDocument(transcript, nil)
			return nil
		}

		result, err := app.ProcessSvc.Process(ctx, req)
		if err != nil {
			return err
		}
		doc = newVideoDocument(result.Transcript, result)
		return exportAudio(ctx, app, result.JobID, audioFlag)
	})
	if err != nil {
		return err
	}

	if err := writeOutput(doc); err != nil {
		return err
	}

	if !quietFlag {
		fmt.Fprintln(os.Stderr, tui.Success(fmt.Sprintf("%d segments, %d words", len(doc.Transcript.Segments), doc.Transcript.WordCount())))
		if outputFlag != "" {
			fmt.Fprintln(os.Stderr, tui.KeyValue("Transcript:", outputFlag))
		}
		if wantAudio {
			fmt.Fprintln(os.Stderr, tui.KeyValue("Audio:", audioFlag))
		}
	}
	return nil
}

// ensureDeps installs yt-dlp when it is the audio backend, and checks that
// ffmpeg is present when audio is wanted
func ensureDeps(ctx context.Context, app *App, wantAudio bool) error {
	if !wantAudio {
		return nil
	}

	var steps []string
	needYtDlp := app.Config.YouTube.Backend == "ytdlp" && !app.Downloader.IsAvailable()
	needFFmpeg := !app.Transcoder.IsAvailable()
	if needYtDlp {
		steps = append(steps, "Installing yt-dlp")
	}
	if needFFmpeg {
		if !ffmpeg.CanInstall() {
			return fmt.Errorf("%w: %s", domain.ErrFFmpegNotFound, ffmpeg.Instructions())
		}
		steps = append(steps, "Installing ffmpeg")
	}
	if len(steps) == 0 {
		return nil
	}

	progress := tui.NewProgressDisplay(steps, quietFlag)
	installers := make([]func(context.Context, func(int64, int64)) error, 0, 2)
	if needYtDlp {
		installers = append(installers, app.Downloader.Install)
	}
	if needFFmpeg {
		installers = append(installers, app.Transcoder.Install)
	}

	for i, install := range installers {
		progress.StartStep(i)
		if err := install(ctx, func(d, t int64) { progress.UpdateProgress(i, d, t) }); err != nil {
			progress.FailStep(i, err.Error())
			return err
		}
		progress.CompleteStep(i)
	}
	return nil
}

func writeOutput(doc *videoDocument) error {
	output, err := formatDocument(doc, formatFlag)
	if err != nil {
		return err
	}

	if outputFlag != "" {
		return os.WriteFile(outputFlag, []byte(output), 0644)
	}

	fmt.Println(output)
	return nil
}

// formatDocument renders doc as text, srt or json
func formatDocument(doc *videoDocument, format string) (string, error) {
	switch format {
	case "", "text":
		return doc.Transcript.ToText(), nil
	case "srt":
		return doc.Transcript.ToSRT(), nil
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", errors.New("unknown format: " + format + " (use text, srt or json)")
	}
}
