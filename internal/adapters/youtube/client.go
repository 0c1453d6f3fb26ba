// Package youtube talks to YouTube directly through kkdai/youtube, without
// any external binaries.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/kkdai/youtube/v2"
)

// videoClient is the subset of youtube.Client used here
type videoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// Client implements CaptionSource and AudioSource
type Client struct {
	httpClient  *http.Client
	credentials ports.CredentialProvider
	newClient   func(*http.Client) videoClient
}

// NewClient creates a native YouTube client. httpClient may be nil for
// http.DefaultClient and credentials may be nil.
func NewClient(httpClient *http.Client, credentials ports.CredentialProvider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:  httpClient,
		credentials: credentials,
		newClient: func(hc *http.Client) videoClient {
			return &youtube.Client{HTTPClient: hc}
		},
	}
}

// FetchCues returns the caption cues of the track matching language
func (c *Client) FetchCues(ctx context.Context, videoID, language string) ([]domain.CaptionCue, error) {
	video, err := c.newClient(c.httpClient).GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, upstreamError(domain.ErrTranscriptUnavailable, err)
	}

	track := selectTrack(video.CaptionTracks, language)
	if track == nil {
		return nil, fmt.Errorf("%w: no %q captions for %s", domain.ErrTranscriptUnavailable, language, videoID)
	}

	cues, err := c.fetchTrack(ctx, track.BaseURL)
	if err != nil {
		return nil, upstreamError(domain.ErrTranscriptUnavailable, err)
	}
	return cues, nil
}

func (c *Client) fetchTrack(ctx context.Context, baseURL string) ([]domain.CaptionCue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, youtube.ErrUnexpectedStatusCode(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}

	return parseTimedText(body)
}

// FetchAudio opens the highest-bitrate audio-only stream
func (c *Client) FetchAudio(ctx context.Context, req ports.AudioRequest) (io.ReadCloser, error) {
	creds, err := ports.ResolveCredentials(ctx, req, c.credentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAudioUnavailable, err)
	}

	yt := c.newClient(withCredentials(c.httpClient, creds))

	id := req.VideoID
	if id == "" {
		id = req.URL
	}

	video, err := yt.GetVideoContext(ctx, id)
	if err != nil {
		return nil, upstreamError(domain.ErrAudioUnavailable, err)
	}

	format := bestAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w: no audio-only format for %s", domain.ErrAudioUnavailable, id)
	}

	stream, _, err := yt.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, upstreamError(domain.ErrAudioUnavailable, err)
	}
	return stream, nil
}

// upstreamError tags err with kind, and with ErrRateLimited on HTTP 429
func upstreamError(kind, err error) error {
	var status youtube.ErrUnexpectedStatusCode
	if errors.As(err, &status) && int(status) == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w: %w", kind, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

var (
	_ ports.CaptionSource = (*Client)(nil)
	_ ports.AudioSource   = (*Client)(nil)
)
