package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProcessOptions configures the orchestrator
type ProcessOptions struct {
	DefaultLanguage    string
	RequireCredentials bool
	CaptionsTimeout    time.Duration // zero means no extra bound
	AudioTimeout       time.Duration
}

// ProcessRequest is a single process-video call
type ProcessRequest struct {
	URL         string
	Language    string // empty uses the default language
	Credentials domain.Credentials
	NoCache     bool
}

// ProcessResult contains everything the client needs for playback
type ProcessResult struct {
	JobID               string
	VideoID             string
	Language            string
	AudioURL            string
	AudioBytes          int64
	Transcript          *domain.Transcript
	TranscriptFromCache bool
}

// ProcessService orchestrates transcript synthesis and audio extraction
type ProcessService struct {
	captions    ports.CaptionSource
	audio       ports.AudioSource
	transcoder  ports.Transcoder
	store       ports.ArtifactStore
	cache       ports.TranscriptCache
	credentials ports.CredentialProvider
	opts        ProcessOptions
}

// NewProcessService creates a new orchestrator. cache and credentials may be nil.
func NewProcessService(
	captions ports.CaptionSource,
	audio ports.AudioSource,
	transcoder ports.Transcoder,
	store ports.ArtifactStore,
	cache ports.TranscriptCache,
	credentials ports.CredentialProvider,
	opts ProcessOptions,
) *ProcessService {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &ProcessService{
		captions:    captions,
		audio:       audio,
		transcoder:  transcoder,
		store:       store,
		cache:       cache,
		credentials: credentials,
		opts:        opts,
	}
}

// Process fetches the transcript and audio for a video. Both must succeed;
// the first failure cancels the other branch and is returned.
func (s *ProcessService) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	video, err := domain.ParseVideoInput(req.URL)
	if err != nil {
		return nil, err
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = s.opts.DefaultLanguage
	}

	creds, err := s.resolveCredentials(ctx, req.Credentials)
	if err != nil {
		return nil, err
	}

	job := domain.NewJob(video.ID)
	logger := zerolog.Ctx(ctx).With().
		Str("job_id", job.ID).
		Str("video_id", video.ID).
		Str("language", language).
		Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Msg("processing video")
	start := time.Now()

	var (
		transcript *domain.Transcript
		fromCache  bool
		audioBytes int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transcript, fromCache, err = s.loadTranscript(gctx, video.ID, language, req.NoCache)
		return err
	})
	g.Go(func() error {
		var err error
		audioBytes, err = s.acquireAudio(gctx, job.ID, ports.AudioRequest{
			URL:         video.URL,
			VideoID:     video.ID,
			Credentials: creds,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("processing failed")
		if audioBytes > 0 {
			s.discard(ctx, job.ID)
		}
		return nil, err
	}

	logger.Info().
		Int("segments", len(transcript.Segments)).
		Int("words", transcript.WordCount()).
		Int64("audio_bytes", audioBytes).
		Bool("transcript_cached", fromCache).
		Dur("elapsed", time.Since(start)).
		Msg("processing completed")

	return &ProcessResult{
		JobID:               job.ID,
		VideoID:             video.ID,
		Language:            language,
		AudioURL:            domain.AudioURL(job.ID),
		AudioBytes:          audioBytes,
		Transcript:          transcript,
		TranscriptFromCache: fromCache,
	}, nil
}

// Transcript fetches and synthesizes the transcript only, without audio.
func (s *ProcessService) Transcript(ctx context.Context, req ProcessRequest) (*domain.Transcript, bool, error) {
	video, err := domain.ParseVideoInput(req.URL)
	if err != nil {
		return nil, false, err
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = s.opts.DefaultLanguage
	}

	return s.loadTranscript(ctx, video.ID, language, req.NoCache)
}

func (s *ProcessService) resolveCredentials(ctx context.Context, creds domain.Credentials) (domain.Credentials, error) {
	if !s.opts.RequireCredentials || creds.Complete() {
		return creds, nil
	}
	if s.credentials != nil {
		provided, err := s.credentials.Credentials(ctx)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("%w: %w", domain.ErrMissingCredentials, err)
		}
		if provided.Complete() {
			return provided, nil
		}
	}
	return domain.Credentials{}, domain.ErrMissingCredentials
}

func (s *ProcessService) loadTranscript(ctx context.Context, videoID, language string, noCache bool) (*domain.Transcript, bool, error) {
	logger := zerolog.Ctx(ctx)
	key := ports.TranscriptCacheKey(videoID, language)

	if s.cache != nil && !noCache {
		if tr, err := s.cache.Get(ctx, key); err == nil {
			return tr, true, nil
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("transcript cache lookup failed")
		}
	}

	fetchCtx, cancel := withTimeout(ctx, s.opts.CaptionsTimeout)
	cues, err := s.captions.FetchCues(fetchCtx, videoID, language)
	cancel()
	if err != nil {
		return nil, false, withKind(domain.ErrTranscriptUnavailable, err)
	}

	tr := &domain.Transcript{
		VideoID:   videoID,
		Language:  language,
		Segments:  domain.Synthesize(cues),
		FetchedAt: time.Now(),
	}

	// Cache failures are non-fatal
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, tr); err != nil {
			logger.Warn().Err(err).Msg("transcript cache store failed")
		}
	}

	return tr, false, nil
}

// acquireAudio streams source audio through the transcoder straight into
// the artifact store; no intermediate file is written.
func (s *ProcessService) acquireAudio(ctx context.Context, jobID string, req ports.AudioRequest) (int64, error) {
	ctx, cancel := withTimeout(ctx, s.opts.AudioTimeout)
	defer cancel()

	src, err := s.audio.FetchAudio(ctx, req)
	if err != nil {
		return 0, withKind(domain.ErrAudioUnavailable, err)
	}
	defer src.Close()

	pr, pw := io.Pipe()
	transcodeErr := make(chan error, 1)
	go func() {
		err := s.transcoder.ToMP3(ctx, src, pw)
		pw.CloseWithError(err)
		transcodeErr <- err
	}()

	mp3 := &pipeReader{r: pr}
	n, putErr := s.store.Put(ctx, jobID, mp3)
	if putErr != nil {
		pr.CloseWithError(errStoreAborted)
	} else {
		pr.Close()
	}
	transErr := <-transcodeErr

	switch {
	case putErr == nil && transErr == nil:
		if n == 0 {
			err = fmt.Errorf("%w: transcoder produced no output", domain.ErrAudioUnavailable)
		}
	case ctx.Err() != nil:
		err = withKind(domain.ErrAudioUnavailable, ctx.Err())
	case putErr != nil && mp3.err == nil:
		// The store failed on its own, not because the transcoder did
		err = fmt.Errorf("failed to store audio: %w", putErr)
	case transErr != nil:
		err = withKind(domain.ErrAudioUnavailable, transErr)
	default:
		err = withKind(domain.ErrAudioUnavailable, putErr)
	}

	if err != nil {
		if putErr == nil {
			s.discard(ctx, jobID)
		}
		return 0, err
	}
	return n, nil
}

// discard removes an artifact whose job ID will never reach a client
func (s *ProcessService) discard(ctx context.Context, jobID string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), jobID); err != nil && !errors.Is(err, domain.ErrAudioNotFound) {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to delete orphaned audio")
	}
}

var errStoreAborted = errors.New("artifact store aborted")

// pipeReader records the first read error other than EOF
type pipeReader struct {
	r   io.Reader
	err error
}

func (p *pipeReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != nil && !errors.Is(err, io.EOF) && p.err == nil {
		p.err = err
	}
	return n, err
}

// withKind tags err with a domain error kind unless it already carries it
func withKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
