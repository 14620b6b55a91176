// Package store - store/memory.go
// In-memory Store used by tests and local development. Implements the same
// merge-write semantics as the DynamoDB store and supports fault injection so
// partial-failure recovery paths can be exercised without a network.
package store

import (
	"context"
	"fmt"
	"sync"

	"go-footy-trivia/models"
)

// MemoryStore holds collections as ordered slices of documents.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string][]models.Doc
	fails map[string]error // op name -> error to inject on next call
}

// compile-time check that MemoryStore satisfies the contract
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]models.Doc),
		fails: make(map[string]error),
	}
}

// Seed replaces a collection's contents. Documents are cloned on the way in
// so callers cannot alias the store's internal state.
func (m *MemoryStore) Seed(collection string, docs ...models.Doc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[collection] = nil
	for _, d := range docs {
		m.data[collection] = append(m.data[collection], d.Clone())
	}
}

// FailNext makes the next call of the named op ("FetchAll", "Get", "Upsert",
// "Remove") return the given error, then clears the injection.
func (m *MemoryStore) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[op] = err
}

func (m *MemoryStore) takeFault(op string) error {
	if err, ok := m.fails[op]; ok {
		delete(m.fails, op)
		return err
	}
	return nil
}

// FetchAll returns a deep-enough copy of the collection in insertion order.
func (m *MemoryStore) FetchAll(ctx context.Context, collection string) ([]models.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault("FetchAll"); err != nil {
		return nil, err
	}
	out := make([]models.Doc, 0, len(m.data[collection]))
	for _, d := range m.data[collection] {
		out = append(out, d.Clone())
	}
	return out, nil
}

// Get returns one document by id.
func (m *MemoryStore) Get(ctx context.Context, collection, id string) (models.Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault("Get"); err != nil {
		return nil, err
	}
	for _, d := range m.data[collection] {
		if d.ID() == id {
			return d.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// Upsert merge-writes the fields onto the record, creating it when absent.
// Fields already present on the stored record but absent from the payload are
// left untouched.
func (m *MemoryStore) Upsert(ctx context.Context, collection, id string, fields models.Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault("Upsert"); err != nil {
		return err
	}
	for _, d := range m.data[collection] {
		if d.ID() == id {
			for k, v := range fields {
				if k == "id" {
					continue
				}
				d[k] = v
			}
			return nil
		}
	}
	doc := fields.Clone()
	doc["id"] = id
	m.data[collection] = append(m.data[collection], doc)
	return nil
}

// Remove deletes the record; removing an absent record is not an error.
func (m *MemoryStore) Remove(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault("Remove"); err != nil {
		return err
	}
	docs := m.data[collection]
	for i, d := range docs {
		if d.ID() == id {
			m.data[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}
