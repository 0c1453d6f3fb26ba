package application

import (
	"context"
	"io"
	"time"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/rs/zerolog"
)

// StoreStats holds artifact store statistics
type StoreStats struct {
	ItemCount int
	TotalSize int64
}

// ArtifactService handles stored audio lookups and maintenance
type ArtifactService struct {
	store  ports.ArtifactStore
	maxAge time.Duration
}

// NewArtifactService creates a new artifact service. maxAge is the default
// retention used by Sweep.
func NewArtifactService(store ports.ArtifactStore, maxAge time.Duration) *ArtifactService {
	return &ArtifactService{store: store, maxAge: maxAge}
}

// Open returns the MP3 for jobID. Malformed IDs are rejected before the
// store is touched.
func (s *ArtifactService) Open(ctx context.Context, jobID string) (io.ReadSeekCloser, *ports.ArtifactInfo, error) {
	if !domain.ValidJobID(jobID) {
		return nil, nil, domain.ErrInvalidJobID
	}
	return s.store.Open(ctx, jobID)
}

// Sweep removes artifacts older than maxAge, or the default retention when
// maxAge is zero
func (s *ArtifactService) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = s.maxAge
	}

	removed, err := s.store.Sweep(ctx, maxAge)
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		zerolog.Ctx(ctx).Info().Int("removed", removed).Dur("max_age", maxAge).Msg("swept audio artifacts")
	}
	return removed, nil
}

// Stats returns artifact store statistics
func (s *ArtifactService) Stats(ctx context.Context) (*StoreStats, error) {
	count, size, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StoreStats{
		ItemCount: count,
		TotalSize: size,
	}, nil
}

// Clear removes all artifacts
func (s *ArtifactService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// RunSweeper sweeps every interval until ctx is done
func (s *ArtifactService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, 0); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("audio sweep failed")
			}
		}
	}
}
