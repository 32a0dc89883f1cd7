package docstore

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store used in tests and when running without a database
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRaw(raw)
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, doc Document, merge bool) error {
	doc = Sanitize(doc)

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		coll = make(map[string][]byte)
		m.data[collection] = coll
	}

	if merge {
		if raw, exists := coll[id]; exists {
			existing, err := decodeRaw(raw)
			if err != nil {
				return err
			}
			doc = Merge(existing, doc)
		}
	}

	// Stored as JSON so callers never share maps with the store
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	coll[id] = raw
	return nil
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.data[collection]))
	for id, raw := range m.data[collection] {
		doc, err := decodeRaw(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: id, Document: doc})
	}
	sortEntries(entries)
	return entries, nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[collection], id)
	return nil
}

func decodeRaw(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
