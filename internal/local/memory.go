// Package local implements the local tier of the record store: a
// session-scoped in-memory mapping by default, with an optional
// sqlite-backed variant that keeps local records across process
// restarts. Local operations are synchronous and never fail except for
// ErrNotFound on an absent id. There is no eviction; size is bounded by
// one user's record count.
package local

import (
	"context"
	"sync"

	"github.com/viniciusgf/organza/pkg/types"
)

// Compile-time interface check: Memory must implement RecordStore.
var _ types.RecordStore = (*Memory)(nil)

// Memory is the in-memory local store. Documents are deep-copied on the
// way in and out so callers can never alias the stored state.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]types.Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]types.Document)}
}

// Put creates or overwrites the document with the given id.
func (m *Memory) Put(_ context.Context, collection, id string, doc types.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]types.Document)
		m.collections[collection] = coll
	}
	coll[id] = cloneDocument(doc)
	return nil
}

// Get retrieves the document with the given id.
// Returns ErrNotFound if no document exists with that id.
func (m *Memory) Get(_ context.Context, collection, id string) (types.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// Delete removes the document with the given id.
// Returns ErrNotFound if no document exists with that id.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		return types.ErrNotFound
	}
	if _, ok := coll[id]; !ok {
		return types.ErrNotFound
	}
	delete(coll, id)
	return nil
}

// List returns every document in the collection.
func (m *Memory) List(_ context.Context, collection string) ([]types.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll := m.collections[collection]
	docs := make([]types.Document, 0, len(coll))
	for _, doc := range coll {
		docs = append(docs, cloneDocument(doc))
	}
	return docs, nil
}

// cloneDocument deep-copies a document, descending into the nested
// sequences and sub-documents the codec produces.
func cloneDocument(doc types.Document) types.Document {
	out := make(types.Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneDocument(val)
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = cloneValue(el)
		}
		return out
	default:
		return v
	}
}
