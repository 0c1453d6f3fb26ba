package application

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/devbush/ytlingo/internal/ports"
)

// Mock implementations for testing
type mockCaptions struct {
	mu       sync.Mutex
	cues     []domain.CaptionCue
	err      error
	block    bool
	delay    time.Duration
	calls    int
	language string
}

func (m *mockCaptions) FetchCues(ctx context.Context, videoID, language string) ([]domain.CaptionCue, error) {
	m.mu.Lock()
	m.calls++
	m.language = language
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.cues, nil
}

func (m *mockCaptions) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockAudio struct {
	mu    sync.Mutex
	data  string
	err   error
	calls int
	req   ports.AudioRequest
}

func (m *mockAudio) FetchAudio(ctx context.Context, req ports.AudioRequest) (io.ReadCloser, error) {
	m.mu.Lock()
	m.calls++
	m.req = req
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewBufferString(m.data)), nil
}

func (m *mockAudio) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockTranscoder struct {
	err error
}

func (m *mockTranscoder) ToMP3(ctx context.Context, in io.Reader, out io.Writer) error {
	if m.err != nil {
		io.Copy(io.Discard, in)
		return m.err
	}
	if _, err := io.WriteString(out, "mp3:"); err != nil {
		return err
	}
	_, err := io.Copy(out, in)
	return err
}

type nopReadSeekCloser struct {
	*bytes.Reader
}

func (nopReadSeekCloser) Close() error { return nil }

type mockStore struct {
	mu     sync.Mutex
	items  map[string][]byte
	putErr error
	opens  int
	swept  time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[string][]byte)}
}

func (m *mockStore) Put(ctx context.Context, jobID string, r io.Reader) (int64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[jobID]; ok {
		return 0, domain.ErrJobExists
	}
	m.items[jobID] = data
	return int64(len(data)), nil
}

func (m *mockStore) Open(ctx context.Context, jobID string) (io.ReadSeekCloser, *ports.ArtifactInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens++
	data, ok := m.items[jobID]
	if !ok {
		return nil, nil, domain.ErrAudioNotFound
	}
	return nopReadSeekCloser{bytes.NewReader(data)}, &ports.ArtifactInfo{JobID: jobID, Size: int64(len(data))}, nil
}

func (m *mockStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swept = maxAge
	n := len(m.items)
	m.items = make(map[string][]byte)
	return n, nil
}

func (m *mockStore) Delete(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[jobID]; !ok {
		return domain.ErrAudioNotFound
	}
	delete(m.items, jobID)
	return nil
}

func (m *mockStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string][]byte)
	return nil
}

func (m *mockStore) Stats(ctx context.Context) (int, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var size int64
	for _, data := range m.items {
		size += int64(len(data))
	}
	return len(m.items), size, nil
}

func (m *mockStore) get(jobID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[jobID]
	return data, ok
}

type mockCache struct {
	mu    sync.Mutex
	items map[string]*domain.Transcript
}

func newMockCache() *mockCache {
	return &mockCache{items: make(map[string]*domain.Transcript)}
}

func (m *mockCache) Get(ctx context.Context, key string) (*domain.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tr, ok := m.items[key]; ok {
		return tr, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, tr *domain.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = tr
	return nil
}
