package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/spf13/afero"
)

const (
	audioExt   = ".mp3"
	partialExt = ".part"
)

// FileStore keeps one MP3 file per job under baseDir
type FileStore struct {
	fs      afero.Fs
	baseDir string
	now     func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewFileStore creates a store rooted at baseDir on the OS filesystem
func NewFileStore(baseDir string) *FileStore {
	return NewFileStoreFs(afero.NewOsFs(), baseDir)
}

// NewFileStoreFs creates a store on an arbitrary afero filesystem
func NewFileStoreFs(fs afero.Fs, baseDir string) *FileStore {
	return &FileStore{
		fs:       fs,
		baseDir:  baseDir,
		now:      time.Now,
		inFlight: make(map[string]bool),
	}
}

// Dir returns the directory artifacts are written to
func (s *FileStore) Dir() string {
	return s.baseDir
}

func (s *FileStore) audioPath(jobID string) string {
	return filepath.Join(s.baseDir, jobID+audioExt)
}

func (s *FileStore) reserve(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[jobID] {
		return domain.ErrJobExists
	}
	exists, err := afero.Exists(s.fs, s.audioPath(jobID))
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrJobExists
	}
	s.inFlight[jobID] = true
	return nil
}

func (s *FileStore) release(jobID string) {
	s.mu.Lock()
	delete(s.inFlight, jobID)
	s.mu.Unlock()
}

func (s *FileStore) Put(ctx context.Context, jobID string, r io.Reader) (int64, error) {
	if !domain.ValidJobID(jobID) {
		return 0, domain.ErrInvalidJobID
	}
	if err := s.fs.MkdirAll(s.baseDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := s.reserve(jobID); err != nil {
		return 0, err
	}
	defer s.release(jobID)

	partPath := s.audioPath(jobID) + partialExt
	out, err := s.fs.Create(partPath)
	if err != nil {
		return 0, err
	}

	// Track success to clean up partial writes on failure
	success := false
	defer func() {
		if !success {
			_ = s.fs.Remove(partPath)
		}
	}()

	n, err := io.Copy(out, contextReader{ctx: ctx, r: r})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, err
	}

	if err := s.fs.Rename(partPath, s.audioPath(jobID)); err != nil {
		return 0, err
	}

	success = true
	return n, nil
}

func (s *FileStore) Open(ctx context.Context, jobID string) (io.ReadSeekCloser, *ports.ArtifactInfo, error) {
	if !domain.ValidJobID(jobID) {
		return nil, nil, domain.ErrInvalidJobID
	}

	f, err := s.fs.Open(s.audioPath(jobID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrAudioNotFound
		}
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, &ports.ArtifactInfo{
		JobID:   jobID,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Delete removes a single artifact. A missing artifact is ErrAudioNotFound.
func (s *FileStore) Delete(ctx context.Context, jobID string) error {
	if !domain.ValidJobID(jobID) {
		return domain.ErrInvalidJobID
	}
	if err := s.fs.Remove(s.audioPath(jobID)); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrAudioNotFound
		}
		return err
	}
	return nil
}

func (s *FileStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := afero.ReadDir(s.fs, s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !entry.ModTime().Before(cutoff) {
			continue
		}

		name := entry.Name()
		switch {
		case strings.HasSuffix(name, audioExt):
			if err := s.fs.Remove(filepath.Join(s.baseDir, name)); err == nil {
				removed++
			}
		case strings.HasSuffix(name, partialExt):
			// Abandoned partial writes are not counted as artifacts
			_ = s.fs.Remove(filepath.Join(s.baseDir, name))
		}
	}

	return removed, nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	entries, err := afero.ReadDir(s.fs, s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, audioExt) || strings.HasSuffix(name, partialExt) {
			_ = s.fs.Remove(filepath.Join(s.baseDir, name))
		}
	}

	return nil
}

func (s *FileStore) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	entries, err := afero.ReadDir(s.fs, s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), audioExt) {
			continue
		}
		itemCount++
		totalSize += entry.Size()
	}

	return itemCount, totalSize, nil
}

// contextReader stops a copy once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ ports.ArtifactStore = (*FileStore)(nil)
