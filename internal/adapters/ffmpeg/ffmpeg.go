// Package ffmpeg transcodes audio streams to MP3 with an ffmpeg subprocess.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/devbush/ytlingo/internal/adapters/download"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
)

const (
	DefaultBitrate = "128k"

	windowsReleaseURL = "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.7z"
)

// Transcoder implements ports.Transcoder using ffmpeg
type Transcoder struct {
	binPath    string
	bitrate    string
	httpClient *http.Client
}

// NewTranscoder creates a transcoder. binPath may be empty to use the
// bundled binary or the one on PATH.
func NewTranscoder(binPath, bitrate string) *Transcoder {
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	return &Transcoder{
		binPath:    binPath,
		bitrate:    bitrate,
		httpClient: http.DefaultClient,
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (t *Transcoder) findBinary() string {
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	if p, err := exec.LookPath(binaryName()); err == nil {
		return p
	}

	return ""
}

func (t *Transcoder) GetBinaryPath() string {
	if t.binPath != "" {
		return t.binPath
	}
	t.binPath = t.findBinary()
	return t.binPath
}

func (t *Transcoder) IsAvailable() bool {
	return t.GetBinaryPath() != ""
}

func buildArgs(bitrate string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", bitrate,
		"-f", "mp3",
		"pipe:1",
	}
}

// ToMP3 pipes in through ffmpeg into out. A read error from in takes
// precedence over ffmpeg's own exit status, since it is the root cause.
func (t *Transcoder) ToMP3(ctx context.Context, in io.Reader, out io.Writer) error {
	binPath := t.GetBinaryPath()
	if binPath == "" {
		return domain.ErrFFmpegNotFound
	}

	src := &sourceReader{r: in}
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, binPath, buildArgs(t.bitrate)...)
	cmd.Stdin = src
	cmd.Stdout = out
	cmd.Stderr = &stderr
	// Don't block on a stalled source once ffmpeg has exited
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()
	if srcErr := src.Err(); srcErr != nil {
		return srcErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// sourceReader remembers the first non-EOF read error
type sourceReader struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
	return n, err
}

func (s *sourceReader) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Version returns the first line of `ffmpeg -version`
func (t *Transcoder) Version(ctx context.Context) (string, error) {
	binPath := t.GetBinaryPath()
	if binPath == "" {
		return "", domain.ErrFFmpegNotFound
	}

	out, err := exec.CommandContext(ctx, binPath, "-version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// CanInstall reports whether Install supports the current platform
func CanInstall() bool {
	return runtime.GOOS == "windows"
}

// Instructions describes how to install ffmpeg by hand
func Instructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "brew install ffmpeg"
	case "windows":
		return "ytlingo deps install ffmpeg  (or: winget install ffmpeg)"
	default:
		return "sudo apt install ffmpeg  (or your distribution's package manager)"
	}
}

// Install downloads a static ffmpeg build into the bin directory. Only
// Windows is supported; other platforms should use a package manager.
func (t *Transcoder) Install(ctx context.Context, progress func(downloaded, total int64)) error {
	if !CanInstall() {
		return fmt.Errorf("automatic ffmpeg install is not supported on %s: %s", runtime.GOOS, Instructions())
	}

	binDir := config.BinDir()
	archive := filepath.Join(binDir, "ffmpeg-release.7z")
	if err := download.ToFile(ctx, t.httpClient, windowsReleaseURL, archive, progress); err != nil {
		return err
	}
	defer os.Remove(archive)

	destPath := filepath.Join(binDir, binaryName())
	if err := extractBinary(archive, binaryName(), destPath); err != nil {
		return err
	}

	t.binPath = destPath
	return nil
}

// extractBinary copies the first archive entry named name (in any folder)
// to dest.
func extractBinary(archive, name, dest string) error {
	r, err := sevenzip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if path.Base(filepath.ToSlash(f.Name)) != name {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		defer rc.Close()

		tmp := dest + ".part"
		out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			os.Remove(tmp)
			return err
		}
		if err := out.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, dest)
	}

	return fmt.Errorf("%s not found in archive", name)
}

var _ ports.Transcoder = (*Transcoder)(nil)
