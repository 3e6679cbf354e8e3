package state

import (
	"context"
	"sync"
)

// MemoryBackend is the fallback when Redis is not configured. State lives
// for the lifetime of the process only.
type MemoryBackend struct {
	mu      sync.RWMutex
	buckets map[string]map[string]string
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{buckets: make(map[string]map[string]string)}
}

func (b *MemoryBackend) GetAll(_ context.Context, bucket string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(b.buckets[bucket]))
	for k, v := range b.buckets[bucket] {
		out[k] = v
	}
	return out, nil
}

func (b *MemoryBackend) Set(_ context.Context, bucket, field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buckets[bucket] == nil {
		b.buckets[bucket] = make(map[string]string)
	}
	b.buckets[bucket][field] = value
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, bucket, field string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.buckets[bucket], field)
	return nil
}

func (b *MemoryBackend) Clear(_ context.Context, bucket string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.buckets, bucket)
	return nil
}
