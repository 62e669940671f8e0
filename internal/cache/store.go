package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached result, JSON-encoded.
type Entry struct {
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists entries. Get returns (nil, nil) for a missing key.
type Store interface {
	Get(ctx context.Context, key Key) (*Entry, error)
	Set(ctx context.Context, key Key, e Entry, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix Key) (int, error)
}

type memoryItem struct {
	key     Key
	entry   Entry
	expires time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key Key) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := key.String()
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.items, id)
		return nil, nil
	}
	e := it.entry
	return &e, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, e Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.items[key.String()] = memoryItem{key: append(Key(nil), key...), entry: e, expires: expires}
	return nil
}

func (m *MemoryStore) DeletePrefix(_ context.Context, prefix Key) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, it := range m.items {
		if it.key.HasPrefix(prefix) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
