// Package store persists the vault and tax summary to a durable local
// key-value store, with size-based degradation when the backend runs out
// of room.
package store

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
)

// ErrQuotaExceeded is returned by a KV when a write would exceed the
// backend's capacity. Callers may retry with a smaller payload.
var ErrQuotaExceeded = eris.New("kv: storage quota exceeded")

// KV is the durable key-value capability the vault storage runs on.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryKV is an in-process KV with an optional total-size quota, mirroring
// the capacity constraint of browser local storage. The zero quota means
// unlimited. It doubles as the test backend.
type MemoryKV struct {
	mu    sync.Mutex
	data  map[string]string
	quota int // max total bytes of keys+values; 0 = unlimited
}

// NewMemoryKV creates an empty MemoryKV with the given byte quota
// (0 for unlimited).
func NewMemoryKV(quota int) *MemoryKV {
	return &MemoryKV{data: make(map[string]string), quota: quota}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		total := len(key) + len(value)
		for k, v := range m.data {
			if k == key {
				continue
			}
			total += len(k) + len(v)
		}
		if total > m.quota {
			return eris.Wrapf(ErrQuotaExceeded, "set %s (%d bytes)", key, len(value))
		}
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
