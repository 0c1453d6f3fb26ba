package ports

import (
	"context"

	"github.com/devbush/ytlingo/internal/domain"
)

// CaptionSource retrieves raw caption cues for a video.
type CaptionSource interface {
	// FetchCues returns the cues for videoID in the requested language.
	// Failures wrap domain.ErrTranscriptUnavailable.
	FetchCues(ctx context.Context, videoID string, language string) ([]domain.CaptionCue, error)
}

// TranscriptCache holds synthesized transcripts keyed by video and language.
type TranscriptCache interface {
	// Get returns domain.ErrCacheMiss when nothing is stored under key.
	Get(ctx context.Context, key string) (*domain.Transcript, error)

	// Set stores a transcript under key.
	Set(ctx context.Context, key string, transcript *domain.Transcript) error
}

// TranscriptCacheKey builds the cache key for a video and language.
func TranscriptCacheKey(videoID, language string) string {
	return videoID + ":" + language
}
