package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/viniciusgf/organza/pkg/types"
)

// Compile-time interface check: SQLite must implement RecordStore.
var _ types.RecordStore = (*SQLite)(nil)

const sqliteFileName = "organza.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    doc        TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
`

// SQLite is the durable local store variant. Documents are stored as
// JSON text keyed by (collection, id). It answers the same contract as
// Memory, so TieredStore cannot tell the two apart.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) the database under dataDir.
func NewSQLite(dataDir string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, sqliteFileName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Put creates or overwrites the document with the given id.
func (s *SQLite) Put(_ context.Context, collection, id string, doc types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO records (collection, id, doc) VALUES (?, ?, ?)",
		collection, id, string(data),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get retrieves the document with the given id.
// Returns ErrNotFound if no document exists with that id.
func (s *SQLite) Get(_ context.Context, collection, id string) (types.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	err := s.db.QueryRow(
		"SELECT doc FROM records WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return unmarshalDocument(id, data)
}

// Delete removes the document with the given id.
// Returns ErrNotFound if no document exists with that id.
func (s *SQLite) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"DELETE FROM records WHERE collection = ? AND id = ?",
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List returns every document in the collection.
func (s *SQLite) List(_ context.Context, collection string) ([]types.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, doc FROM records WHERE collection = ?",
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		doc, err := unmarshalDocument(id, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func unmarshalDocument(id, data string) (types.Document, error) {
	var doc types.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: stored document %s: %v", types.ErrMalformedRecord, id, err)
	}
	return doc, nil
}
