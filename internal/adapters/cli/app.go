package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/devbush/ytlingo/internal/adapters/artifact"
	"github.com/devbush/ytlingo/internal/adapters/cache"
	"github.com/devbush/ytlingo/internal/adapters/ffmpeg"
	"github.com/devbush/ytlingo/internal/adapters/youtube"
	"github.com/devbush/ytlingo/internal/adapters/ytdlp"
	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/rs/zerolog"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      *artifact.FileStore
	Cache      ports.TranscriptCache
	YouTube    *youtube.Client
	Downloader *ytdlp.Downloader
	Transcoder *ffmpeg.Transcoder

	ProcessSvc  *application.ProcessService
	ArtifactSvc *application.ArtifactService

	closers []io.Closer
}

// NewApp creates and wires up all dependencies
func NewApp(ctx context.Context) (*App, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", config.ConfigPath(), err)
	}

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger}

	var credentials ports.CredentialProvider
	if creds := (domain.Credentials{VisitorData: cfg.YouTube.VisitorData, POToken: cfg.YouTube.POToken}); !creds.Empty() {
		credentials = ports.StaticCredentials(creds)
	}

	app.Store = artifact.NewFileStore(cfg.StoreDir())
	app.YouTube = youtube.NewClient(nil, credentials)
	app.Downloader = ytdlp.NewDownloader(cfg.Paths.YtDlp, credentials)
	app.Transcoder = ffmpeg.NewTranscoder(cfg.Paths.FFmpeg, cfg.Audio.Bitrate)

	app.Cache, err = app.newCache(ctx)
	if err != nil {
		return nil, err
	}

	var audio ports.AudioSource = app.YouTube
	if cfg.YouTube.Backend == "ytdlp" {
		audio = app.Downloader
	}

	app.ProcessSvc = application.NewProcessService(
		app.YouTube, audio, app.Transcoder, app.Store, app.Cache, credentials,
		application.ProcessOptions{
			DefaultLanguage:    cfg.YouTube.DefaultLanguage,
			RequireCredentials: cfg.YouTube.RequireCredentials,
			CaptionsTimeout:    config.MustDuration(cfg.Timeouts.Captions, 30*time.Second),
			AudioTimeout:       config.MustDuration(cfg.Timeouts.Audio, 10*time.Minute),
		},
	)
	app.ArtifactSvc = application.NewArtifactService(app.Store, config.MustDuration(cfg.Store.MaxAge, 24*time.Hour))

	return app, nil
}

func (a *App) newCache(ctx context.Context) (ports.TranscriptCache, error) {
	ttl := config.MustDuration(a.Config.Cache.TTL, 6*time.Hour)

	switch a.Config.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, a.Config.Cache.RedisAddr, a.Config.Cache.RedisPassword, a.Config.Cache.RedisDB, ttl)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc)
		return rc, nil
	case "none":
		return nil, nil
	default:
		return cache.NewMemoryCache(a.Config.Cache.Size, ttl), nil
	}
}

// Close releases connections held by the app
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// newLogger builds a zerolog logger from the log config
func newLogger(cfg config.LogConfig, out io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed
func GetApp(ctx context.Context) (*App, error) {
	if globalApp == nil {
		app, err := NewApp(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize: %w", err)
		}
		globalApp = app
	}
	return globalApp, nil
}

// cliContext attaches a logger suited to interactive commands. Unless a
// level was requested explicitly only warnings reach the terminal.
func (a *App) cliContext(ctx context.Context) context.Context {
	logger := a.Logger
	if logLevelFlag == "" {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger.WithContext(ctx)
}
