// Package remote implements the remote tier of the record store on top
// of Cloud Firestore. The connection is established lazily on first use
// and cached for the process lifetime; when an operation observes an
// unavailable error the cached client is dropped so the next call
// re-attempts the connection, at most once per operation. The store
// never retries internally; fallback policy belongs to the tiered store.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/viniciusgf/organza/pkg/types"
)

// Compile-time interface check: Store must implement RecordStore.
var _ types.RecordStore = (*Store)(nil)

// Store is a thin client over Firestore. Documents are keyed by string
// id within named collections; the store treats them as opaque.
type Store struct {
	projectID string
	credFile  string
	logger    *slog.Logger

	mu     sync.Mutex
	client *firestore.Client
}

// New creates an unconnected Store. An empty projectID makes every
// operation fail with ErrUnavailable, which forces local-only sessions
// without special-casing anywhere else.
func New(projectID, credFile string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{projectID: projectID, credFile: credFile, logger: logger}
}

// Ping attempts to establish the connection. Used by the session probe
// to pick the initial tier.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.connect(ctx)
	return err
}

// Close releases the cached client, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// connect returns the cached client, dialing on first use. Credentials
// that are absent or unreadable map to ErrUnavailable: local-only
// operation, never a fatal error.
func (s *Store) connect(ctx context.Context) (*firestore.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	if s.projectID == "" {
		return nil, fmt.Errorf("%w: no project configured", types.ErrUnavailable)
	}
	if s.credFile != "" {
		if _, err := os.Stat(s.credFile); err != nil {
			return nil, fmt.Errorf("%w: credentials file %s: %v", types.ErrUnavailable, s.credFile, err)
		}
	}

	var opts []option.ClientOption
	if s.credFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.credFile))
	}
	client, err := firestore.NewClient(ctx, s.projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", types.ErrUnavailable, err)
	}
	s.logger.Debug("firestore client connected", "project", s.projectID)
	s.client = client
	return client, nil
}

// disconnect drops the cached client after an unavailable error so the
// next operation re-attempts the connection.
func (s *Store) disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}

// Put creates or overwrites the document with the given id.
func (s *Store) Put(ctx context.Context, collection, id string, doc types.Document) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Collection(collection).Doc(id).Set(ctx, doc); err != nil {
		return s.mapError(fmt.Sprintf("put %s/%s", collection, id), err)
	}
	return nil
}

// Get retrieves the document with the given id.
// Returns ErrNotFound if no document exists with that id.
func (s *Store) Get(ctx context.Context, collection, id string) (types.Document, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, s.mapError(fmt.Sprintf("get %s/%s", collection, id), err)
	}
	return snap.Data(), nil
}

// Delete removes the document with the given id. Firestore deletes are
// idempotent, so absence is detected with a read first to honor the
// ErrNotFound contract.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	ref := client.Collection(collection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return s.mapError(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return s.mapError(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	return nil
}

// List returns every document in the collection.
func (s *Store) List(ctx context.Context, collection string) ([]types.Document, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	it := client.Collection(collection).Documents(ctx)
	defer it.Stop()

	var docs []types.Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, s.mapError(fmt.Sprintf("list %s", collection), err)
		}
		docs = append(docs, snap.Data())
	}
}

// mapError translates a Firestore RPC error into the store taxonomy.
// Reachability and credential failures become ErrUnavailable (and drop
// the cached client); an absent document becomes ErrNotFound; anything
// else is a service-side rejection, ErrRemote.
func (s *Store) mapError(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return types.ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.Unauthenticated, codes.PermissionDenied:
		s.logger.Warn("remote store unavailable", "op", op, "err", err)
		s.disconnect()
		return fmt.Errorf("%w: %s: %v", types.ErrUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", types.ErrRemote, op, err)
	}
}
