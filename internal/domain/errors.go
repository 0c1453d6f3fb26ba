package domain

import "errors"

var (
	// Request errors
	ErrMissingURL         = errors.New("no URL provided")
	ErrInvalidURL         = errors.New("invalid YouTube URL")
	ErrMissingCredentials = errors.New("visitorData and po_token are required")

	// Upstream errors
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrAudioUnavailable      = errors.New("audio unavailable")
	ErrRateLimited           = errors.New("rate limited by YouTube")

	// Artifact store errors
	ErrInvalidJobID  = errors.New("invalid job id")
	ErrAudioNotFound = errors.New("audio file not found")
	ErrJobExists     = errors.New("job already exists")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")

	// Dependency errors
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	ErrYtDlpNotFound  = errors.New("yt-dlp not found")
)
