package cli

import (
	"time"

	"github.com/devbush/ytlingo/internal/adapters/httpapi"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/spf13/cobra"
)

var (
	serveAddrFlag  string
	serveSweepFlag bool
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API:

  POST /process-video   fetch transcript and audio for a video
  GET  /audio/{job_id}  stream an extracted MP3
  GET  /health          liveness probe
  POST /cleanup         remove expired audio files

Stops gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddrFlag, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&serveSweepFlag, "sweep", true, "Periodically remove expired audio files")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := GetApp(ctx)
	if err != nil {
		return err
	}

	cfg := app.Config
	addr := cfg.Server.Addr
	if serveAddrFlag != "" {
		addr = serveAddrFlag
	}

	if cfg.YouTube.Backend == "ytdlp" && !app.Downloader.IsAvailable() {
		app.Logger.Warn().Msg("yt-dlp not found; run 'ytlingo deps install'")
	}
	if !app.Transcoder.IsAvailable() {
		app.Logger.Warn().Msg("ffmpeg not found; audio extraction will fail")
	}

	ctx = app.Logger.WithContext(ctx)

	if serveSweepFlag {
		interval := config.MustDuration(cfg.Store.SweepInterval, 30*time.Minute)
		go app.ArtifactSvc.RunSweeper(ctx, interval)
	}

	server := httpapi.NewServer(app.ProcessSvc, app.ArtifactSvc, app.Logger, httpapi.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})

	app.Logger.Info().
		Str("addr", addr).
		Str("backend", cfg.YouTube.Backend).
		Str("cache", cfg.Cache.Backend).
		Str("store", app.Store.Dir()).
		Msg("server starting")

	return server.ListenAndServe(ctx, addr, shutdownTimeout)
}
