package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/devbush/ytlingo/internal/adapters/download"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
)

// Downloader implements AudioSource using yt-dlp
type Downloader struct {
	binPath     string
	credentials ports.CredentialProvider
	httpClient  *http.Client
}

// NewDownloader creates a new yt-dlp audio source. binPath may be empty to
// use the bundled binary or the one on PATH. credentials may be nil.
func NewDownloader(binPath string, credentials ports.CredentialProvider) *Downloader {
	return &Downloader{
		binPath:     binPath,
		credentials: credentials,
		httpClient:  http.DefaultClient,
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "yt-dlp.exe"
	}
	return "yt-dlp"
}

func (d *Downloader) findBinary() string {
	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (d *Downloader) GetBinaryPath() string {
	if d.binPath != "" {
		return d.binPath
	}
	d.binPath = d.findBinary()
	return d.binPath
}

func (d *Downloader) IsAvailable() bool {
	return d.GetBinaryPath() != ""
}

// extractorArgs renders credentials in yt-dlp's youtube extractor syntax
func extractorArgs(creds domain.Credentials) string {
	var parts []string
	if token := strings.TrimSpace(creds.POToken); token != "" {
		parts = append(parts, "po_token=web.gvs+"+token)
	}
	if vd := strings.TrimSpace(creds.VisitorData); vd != "" {
		parts = append(parts, "visitor_data="+vd)
	}
	if len(parts) == 0 {
		return ""
	}
	return "youtube:" + strings.Join(parts, ";")
}

func buildArgs(videoURL string, creds domain.Credentials) []string {
	args := []string{
		"--no-warnings",
		"--no-progress",
		"--no-playlist",
		"-f", "bestaudio",
		"-o", "-",
	}
	if ea := extractorArgs(creds); ea != "" {
		args = append(args, "--extractor-args", ea)
	}
	return append(args, "--", videoURL)
}

// classifyStderr maps yt-dlp's error output onto domain errors
func classifyStderr(stderr string) error {
	msg := strings.TrimSpace(stderr)
	if i := strings.LastIndex(msg, "ERROR:"); i >= 0 {
		msg = strings.TrimSpace(msg[i+len("ERROR:"):])
	}
	lower := strings.ToLower(stderr)

	switch {
	case strings.Contains(lower, "http error 429"),
		strings.Contains(lower, "too many requests"),
		strings.Contains(lower, "rate-limit"),
		strings.Contains(lower, "rate limit"):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case msg == "":
		return fmt.Errorf("%w: yt-dlp exited without output", domain.ErrAudioUnavailable)
	default:
		return fmt.Errorf("%w: %s", domain.ErrAudioUnavailable, msg)
	}
}

// FetchAudio starts yt-dlp and returns its stdout. Errors that only surface
// once yt-dlp exits are returned from Read at end of stream.
func (d *Downloader) FetchAudio(ctx context.Context, req ports.AudioRequest) (io.ReadCloser, error) {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrAudioUnavailable, domain.ErrYtDlpNotFound)
	}

	creds, err := ports.ResolveCredentials(ctx, req, d.credentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAudioUnavailable, err)
	}

	videoURL := req.URL
	if req.VideoID != "" {
		videoURL = (&domain.Video{ID: req.VideoID}).WatchURL()
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, binPath, buildArgs(videoURL, creds)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("yt-dlp stdout: %w", err)
	}
	stream := &stream{cmd: cmd, stdout: stdout, cancel: cancel}
	cmd.Stderr = &stream.stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: failed to start yt-dlp: %w", domain.ErrAudioUnavailable, err)
	}

	return stream, nil
}

// stream is a running yt-dlp process
type stream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
	stderr bytes.Buffer

	once    sync.Once
	waitErr error
	closed  bool
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		if werr := s.wait(); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	s.wait()
	return nil
}

func (s *stream) wait() error {
	s.once.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				s.waitErr = classifyStderr(s.stderr.String())
			} else {
				s.waitErr = fmt.Errorf("%w: %w", domain.ErrAudioUnavailable, err)
			}
		}
		s.cancel()
	})
	return s.waitErr
}

func (d *Downloader) Install(ctx context.Context, progress func(downloaded, total int64)) error {
	destPath := filepath.Join(config.BinDir(), binaryName())
	if err := download.ToFile(ctx, d.httpClient, d.getDownloadURL(), destPath, progress); err != nil {
		return err
	}

	// Make executable on Unix
	if runtime.GOOS != "windows" {
		if err := os.Chmod(destPath, 0755); err != nil {
			return err
		}
	}

	d.binPath = destPath
	return nil
}

func (d *Downloader) getDownloadURL() string {
	base := "https://github.com/yt-dlp/yt-dlp/releases/latest/download/"

	switch runtime.GOOS {
	case "windows":
		return base + "yt-dlp.exe"
	case "darwin":
		return base + "yt-dlp_macos"
	default:
		return base + "yt-dlp"
	}
}

func (d *Downloader) Update(ctx context.Context) error {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return domain.ErrYtDlpNotFound
	}

	cmd := exec.CommandContext(ctx, binPath, "-U")
	return cmd.Run()
}

// Version returns the installed yt-dlp version string
func (d *Downloader) Version(ctx context.Context) (string, error) {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return "", domain.ErrYtDlpNotFound
	}

	out, err := exec.CommandContext(ctx, binPath, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

var _ ports.AudioSource = (*Downloader)(nil)
