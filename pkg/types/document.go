package types

import "context"

// Document is the flat representation of an entity as persisted by a
// backing store. Field names and value shapes are defined by the codec;
// stores treat documents as opaque.
type Document = map[string]any

// Standard collection names at the persistence boundary.
const (
	CollectionTasks   = "tasks"
	CollectionPlans   = "plans"
	CollectionHistory = "history"
)

// RecordStore provides uniform document operations for a single backing
// tier. The remote (Firestore) and local (memory, sqlite) tiers all
// implement it; TieredStore composes two RecordStores and arbitrates
// between them.
type RecordStore interface {
	// Put creates or overwrites the document with the given id.
	Put(ctx context.Context, collection, id string, doc Document) error

	// Get retrieves the document with the given id.
	// Returns ErrNotFound if no document exists with that id.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Delete removes the document with the given id.
	// Returns ErrNotFound if no document exists with that id.
	Delete(ctx context.Context, collection, id string) error

	// List returns every document in the collection, in unspecified order.
	List(ctx context.Context, collection string) ([]Document, error)
}
