package cache

import (
	"context"
	"time"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache keeps recently synthesized transcripts in process memory
type MemoryCache struct {
	lru *expirable.LRU[string, *domain.Transcript]
}

// NewMemoryCache creates an LRU cache holding at most size transcripts for ttl
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 128
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, *domain.Transcript](size, nil, ttl),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.Transcript, error) {
	tr, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return tr, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, transcript *domain.Transcript) error {
	c.lru.Add(key, transcript)
	return nil
}

// Len returns the number of cached transcripts
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

var _ ports.TranscriptCache = (*MemoryCache)(nil)
