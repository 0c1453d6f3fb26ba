package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/kkdai/youtube/v2"
)

// mockVideoClient stands in for youtube.Client
type mockVideoClient struct {
	video     *youtube.Video
	videoErr  error
	streamErr error

	httpClient *http.Client
	gotFormat  *youtube.Format
}

func (m *mockVideoClient) GetVideoContext(ctx context.Context, url string) (*youtube.Video, error) {
	if m.videoErr != nil {
		return nil, m.videoErr
	}
	return m.video, nil
}

func (m *mockVideoClient) GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	if m.streamErr != nil {
		return nil, 0, m.streamErr
	}
	m.gotFormat = format
	return io.NopCloser(strings.NewReader("audio:" + format.MimeType)), 0, nil
}

func newTestClient(m *mockVideoClient, hc *http.Client, creds ports.CredentialProvider) *Client {
	c := NewClient(hc, creds)
	c.newClient = func(hc *http.Client) videoClient {
		m.httpClient = hc
		return m
	}
	return c
}

func TestFetchCues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript><text start="0" dur="2">hello world</text></transcript>`))
	}))
	defer srv.Close()

	m := &mockVideoClient{video: &youtube.Video{
		ID: "dQw4w9WgXcQ",
		CaptionTracks: []youtube.CaptionTrack{
			{LanguageCode: "en", BaseURL: srv.URL},
		},
	}}
	c := newTestClient(m, srv.Client(), nil)

	cues, err := c.FetchCues(context.Background(), "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("FetchCues() error = %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "hello world" || cues[0].Duration != 2 {
		t.Errorf("cues = %+v", cues)
	}
}

func TestFetchCues_Errors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer failing.Close()

	tests := []struct {
		name        string
		mock        *mockVideoClient
		rateLimited bool
	}{
		{
			name: "metadata failure",
			mock: &mockVideoClient{videoErr: errors.New("boom")},
		},
		{
			name: "no captions",
			mock: &mockVideoClient{video: &youtube.Video{}},
		},
		{
			name: "wrong language",
			mock: &mockVideoClient{video: &youtube.Video{
				CaptionTracks: []youtube.CaptionTrack{{LanguageCode: "de", BaseURL: failing.URL}},
			}},
		},
		{
			name: "caption fetch rate limited",
			mock: &mockVideoClient{video: &youtube.Video{
				CaptionTracks: []youtube.CaptionTrack{{LanguageCode: "en", BaseURL: failing.URL}},
			}},
			rateLimited: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(tt.mock, failing.Client(), nil)
			_, err := c.FetchCues(context.Background(), "dQw4w9WgXcQ", "en")
			if !errors.Is(err, domain.ErrTranscriptUnavailable) {
				t.Errorf("FetchCues() error = %v, want ErrTranscriptUnavailable", err)
			}
			if got := errors.Is(err, domain.ErrRateLimited); got != tt.rateLimited {
				t.Errorf("rate limited = %v, want %v (%v)", got, tt.rateLimited, err)
			}
		})
	}
}

func TestFetchAudio_PicksBestAudio(t *testing.T) {
	m := &mockVideoClient{video: &youtube.Video{
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1"`, Bitrate: 500000},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000},
			{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000},
		},
	}}
	c := newTestClient(m, nil, nil)

	rc, err := c.FetchAudio(context.Background(), ports.AudioRequest{VideoID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("FetchAudio() error = %v", err)
	}
	defer rc.Close()

	if m.gotFormat == nil || m.gotFormat.ItagNo != 251 {
		t.Errorf("picked format %+v, want itag 251", m.gotFormat)
	}
	// No credentials means the base client is used as-is
	if m.httpClient != http.DefaultClient {
		t.Error("expected the base http client without credentials")
	}
}

func TestFetchAudio_NoAudioFormat(t *testing.T) {
	m := &mockVideoClient{video: &youtube.Video{
		Formats: youtube.FormatList{{ItagNo: 18, MimeType: "video/mp4"}},
	}}
	c := newTestClient(m, nil, nil)

	_, err := c.FetchAudio(context.Background(), ports.AudioRequest{VideoID: "dQw4w9WgXcQ"})
	if !errors.Is(err, domain.ErrAudioUnavailable) {
		t.Errorf("FetchAudio() error = %v, want ErrAudioUnavailable", err)
	}
}

func TestFetchAudio_RateLimited(t *testing.T) {
	m := &mockVideoClient{videoErr: youtube.ErrUnexpectedStatusCode(http.StatusTooManyRequests)}
	c := newTestClient(m, nil, nil)

	_, err := c.FetchAudio(context.Background(), ports.AudioRequest{VideoID: "dQw4w9WgXcQ"})
	if !errors.Is(err, domain.ErrAudioUnavailable) || !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("FetchAudio() error = %v, want ErrAudioUnavailable and ErrRateLimited", err)
	}
}

func TestFetchAudio_CredentialTransport(t *testing.T) {
	m := &mockVideoClient{video: &youtube.Video{
		Formats: youtube.FormatList{{MimeType: "audio/webm", Bitrate: 1}},
	}}
	c := newTestClient(m, nil, ports.StaticCredentials{VisitorData: "VD", POToken: "TOK"})

	rc, err := c.FetchAudio(context.Background(), ports.AudioRequest{VideoID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("FetchAudio() error = %v", err)
	}
	rc.Close()

	ct, ok := m.httpClient.Transport.(*credentialTransport)
	if !ok {
		t.Fatalf("transport = %T, want *credentialTransport", m.httpClient.Transport)
	}
	if ct.creds.VisitorData != "VD" || ct.creds.POToken != "TOK" {
		t.Errorf("creds = %+v, want provider credentials", ct.creds)
	}
}
