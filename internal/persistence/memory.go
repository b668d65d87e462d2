package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/teknova-erp/resource-api/internal/domain"
)

// MemoryBackend is an in-memory Backend used for development and tests.
// Records are held as raw JSON in insertion order per kind.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[domain.Kind][]json.RawMessage
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		collections: make(map[domain.Kind][]json.RawMessage),
	}
}

func (m *MemoryBackend) FetchAll(ctx context.Context, kind domain.Kind) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.collections[kind]
	out := make([]json.RawMessage, len(records))
	copy(out, records)
	return out, nil
}

func (m *MemoryBackend) FetchOne(ctx context.Context, kind domain.Kind, id int) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, record := m.find(kind, id); record != nil {
		return record, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryBackend) Insert(ctx context.Context, kind domain.Kind, record json.RawMessage) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := append(json.RawMessage(nil), record...)
	m.collections[kind] = append(m.collections[kind], stored)
	return stored, nil
}

func (m *MemoryBackend) Replace(ctx context.Context, kind domain.Kind, id int, record json.RawMessage) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, existing := m.find(kind, id)
	if existing == nil {
		return nil, ErrNotFound
	}
	stored := append(json.RawMessage(nil), record...)
	m.collections[kind][idx] = stored
	return stored, nil
}

func (m *MemoryBackend) Remove(ctx context.Context, kind domain.Kind, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, existing := m.find(kind, id)
	if existing == nil {
		return false, nil
	}
	records := m.collections[kind]
	m.collections[kind] = append(records[:idx], records[idx+1:]...)
	return true, nil
}

// find returns the position and raw record for an id, or (-1, nil).
// Callers must hold the lock.
func (m *MemoryBackend) find(kind domain.Kind, id int) (int, json.RawMessage) {
	for i, record := range m.collections[kind] {
		recID, err := recordID(record)
		if err != nil {
			continue
		}
		if recID == id {
			return i, record
		}
	}
	return -1, nil
}
