package ports

import (
	"context"
	"io"
	"time"
)

// ArtifactInfo describes a stored audio artifact.
type ArtifactInfo struct {
	JobID   string
	Size    int64
	ModTime time.Time
}

// ArtifactStore persists MP3 artifacts keyed by job ID.
type ArtifactStore interface {
	// Put streams r into a new artifact. Keys are write-once: an existing
	// key fails with domain.ErrJobExists.
	Put(ctx context.Context, jobID string, r io.Reader) (int64, error)

	// Open returns a reader over a stored artifact. Invalid keys are
	// rejected with domain.ErrInvalidJobID before storage is touched.
	Open(ctx context.Context, jobID string) (io.ReadSeekCloser, *ArtifactInfo, error)

	// Sweep removes artifacts last written more than maxAge ago and
	// returns the count removed.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)

	// Delete removes one artifact. A missing key is domain.ErrAudioNotFound.
	Delete(ctx context.Context, jobID string) error

	// Clear removes all artifacts.
	Clear(ctx context.Context) error

	// Stats returns artifact count and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}
