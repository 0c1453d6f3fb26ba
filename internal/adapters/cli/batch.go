package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devbush/ytlingo/internal/adapters/cli/tui"
	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	batchFileFlag     string
	batchConcurrency  int
	batchNoAudio      bool
	batchKeepArtifact bool
)

const maxBatchConcurrency = 16

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [urls/ids...]",
		Short: "Batch process multiple videos",
		Long: `Batch process multiple YouTube videos concurrently.

Provide video URLs or IDs as arguments and/or via a file with --file.
For each video <id>.json (transcript with word timings) and <id>.mp3 are
written to the output directory.

Example:
  ytlingo batch dQw4w9WgXcQ https://youtu.be/9bZkp7q19f0
  ytlingo batch --file videos.txt -o out/
  ytlingo batch --file videos.txt --concurrency 2 --no-audio`,
		RunE: runBatch,
	}

	cmd.Flags().StringVarP(&batchFileFlag, "file", "f", "", "File with URLs/IDs (one per line)")
	cmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 3, fmt.Sprintf("Max concurrent videos (max %d)", maxBatchConcurrency))
	cmd.Flags().BoolVar(&batchNoAudio, "no-audio", false, "Only write transcripts")
	cmd.Flags().BoolVar(&batchKeepArtifact, "keep-artifacts", false, "Keep MP3 artifacts in the store after copying")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	batchConcurrency = min(max(batchConcurrency, 1), maxBatchConcurrency)

	videos, err := CollectInputs(args, batchFileFlag)
	if err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}
	if len(videos) == 0 {
		return fmt.Errorf("no valid YouTube URLs or IDs provided")
	}

	ctx := cmd.Context()
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}
	ctx = app.cliContext(ctx)

	if err := ensureDeps(ctx, app, !batchNoAudio); err != nil {
		return err
	}

	outputDir := outputFlag
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := processBatch(ctx, app, videos, outputDir)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d videos failed", summary.Failed, summary.Total)
	}
	return nil
}

// processBatch runs every video through the pipeline. A failing video does
// not stop the others.
func processBatch(ctx context.Context, app *App, videos []*domain.Video, outputDir string) batchSummary {
	progress := tui.NewBatchProgress(len(videos), quietFlag)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, video := range videos {
		g.Go(func() error {
			progress.AddResult(processOneVideo(ctx, app, video, outputDir))
			return nil
		})
	}
	g.Wait()

	progress.Complete()

	return batchSummary{
		Total:     len(videos),
		Succeeded: progress.SuccessCount(),
		Failed:    progress.FailureCount(),
	}
}

func processOneVideo(ctx context.Context, app *App, video *domain.Video, outputDir string) tui.BatchResult {
	start := time.Now()
	result := func(err error, cached bool) tui.BatchResult {
		r := tui.BatchResult{
			VideoID:  video.ID,
			Success:  err == nil,
			Duration: time.Since(start),
			Cached:   cached,
		}
		if err != nil {
			r.ErrMsg = err.Error()
		}
		return r
	}

	req := application.ProcessRequest{
		URL:      video.URL,
		Language: languageFlag,
		NoCache:  noCacheFlag,
	}

	var doc *videoDocument
	var cached bool
	if batchNoAudio {
		transcript, fromCache, err := app.ProcessSvc.Transcript(ctx, req)
		if err != nil {
			return result(err, false)
		}
		doc, cached = newVideoDocument(transcript, nil), fromCache
	} else {
		res, err := app.ProcessSvc.Process(ctx, req)
		if err != nil {
			return result(err, false)
		}
		doc, cached = newVideoDocument(res.Transcript, res), res.TranscriptFromCache

		doc.AudioFile = video.ID + ".mp3"
		if err := exportAudio(ctx, app, res.JobID, filepath.Join(outputDir, doc.AudioFile)); err != nil {
			return result(fmt.Errorf("failed to copy audio: %w", err), cached)
		}
		if !batchKeepArtifact {
			if err := app.Store.Delete(ctx, res.JobID); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("job_id", res.JobID).Msg("failed to delete artifact")
			} else {
				doc.AudioURL = ""
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return result(err, cached)
	}
	if err := os.WriteFile(filepath.Join(outputDir, video.ID+".json"), data, 0644); err != nil {
		return result(fmt.Errorf("failed to write transcript: %w", err), cached)
	}

	return result(nil, cached)
}
