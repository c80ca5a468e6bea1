// Package tiered implements the core store: a two-tier composition of a
// remote RecordStore and a local one, with automatic fallback when the
// remote tier is unreachable.
//
// A session is in one of two states. In remote-active, operations go to
// the remote tier and successful writes are mirrored into the local one.
// Observing an unavailable error transitions the session to local-only;
// there is no background re-probe loop. Writes and listings re-attempt
// the remote tier on use (at most one attempt per operation, the remote
// store's own lazy reconnect), which is the only path back to
// remote-active — reads stay on the local tier for the rest of a
// local-only window so previously written local records remain visible.
package tiered

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/viniciusgf/organza/pkg/types"
)

// Tier identifies which backing store currently answers reads.
type Tier string

const (
	TierRemote Tier = "remote"
	TierLocal  Tier = "local"
)

// pinger is the optional probe capability of a backing store. The
// remote store implements it; the session probe uses it to pick the
// initial tier.
type pinger interface {
	Ping(ctx context.Context) error
}

// Store composes the remote and local tiers and arbitrates between
// them. The remote tier is authoritative whenever it is reachable.
type Store struct {
	remote types.RecordStore
	local  types.RecordStore
	logger *slog.Logger

	mu   sync.Mutex
	tier Tier
}

// New creates a tiered store in the remote-active state. Call Probe to
// determine the real initial tier before first use.
func New(remote, local types.RecordStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{remote: remote, local: local, logger: logger, tier: TierRemote}
}

// Probe attempts one remote connection and sets the initial tier.
// Unavailability is absorbed: the session simply starts local-only.
func (s *Store) Probe(ctx context.Context) Tier {
	p, ok := s.remote.(pinger)
	if !ok {
		return s.Tier()
	}
	if err := p.Ping(ctx); err != nil {
		s.toLocal("probe", err)
	} else {
		s.toRemote()
	}
	return s.Tier()
}

// Tier returns the tier currently answering reads.
func (s *Store) Tier() Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

// Put writes the document through to both tiers when the remote one is
// reachable, and to the local tier alone otherwise. The degraded flag
// reports that the write did not reach the remote tier; callers surface
// it as an informational notice, never a blocking error. A put in the
// local-only state re-attempts the remote tier first: a write's own
// attempt is the only re-probe this store performs.
func (s *Store) Put(ctx context.Context, collection, id string, doc types.Document) (degraded bool, err error) {
	err = s.remote.Put(ctx, collection, id, doc)
	switch {
	case err == nil:
		s.toRemote()
		// Write-through mirror; local puts do not fail.
		if lerr := s.local.Put(ctx, collection, id, doc); lerr != nil {
			s.logger.Warn("local mirror write failed", "collection", collection, "id", id, "err", lerr)
		}
		return false, nil
	case errors.Is(err, types.ErrUnavailable):
		s.toLocal("put", err)
		return true, s.local.Put(ctx, collection, id, doc)
	default:
		return false, err
	}
}

// Get reads from the tier currently active. A remote unavailable error
// transitions to local-only and falls back to the local tier for this
// and all subsequent reads. A remote miss also checks the local tier
// before reporting ErrNotFound: a record written during a local-only
// window stays visible even after the remote tier recovers without it.
func (s *Store) Get(ctx context.Context, collection, id string) (types.Document, error) {
	if s.Tier() == TierLocal {
		return s.local.Get(ctx, collection, id)
	}

	doc, err := s.remote.Get(ctx, collection, id)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, types.ErrUnavailable):
		s.toLocal("get", err)
		return s.local.Get(ctx, collection, id)
	case errors.Is(err, types.ErrNotFound):
		return s.local.Get(ctx, collection, id)
	default:
		return nil, err
	}
}

// Delete removes the record from whichever tiers currently hold it.
// Absence in either tier is a no-op, not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if s.Tier() == TierRemote {
		err := s.remote.Delete(ctx, collection, id)
		switch {
		case err == nil, errors.Is(err, types.ErrNotFound):
		case errors.Is(err, types.ErrUnavailable):
			s.toLocal("delete", err)
		default:
			return err
		}
	}
	if err := s.local.Delete(ctx, collection, id); err != nil && !errors.Is(err, types.ErrNotFound) {
		return err
	}
	return nil
}

// List merges both tiers when the remote one is reachable,
// de-duplicated by id with the remote copy taking precedence: the
// remote tier is authoritative when available. Like Put, a listing
// re-attempts the remote tier even in the local-only state, so a
// recovered remote becomes visible again on the next listing.
func (s *Store) List(ctx context.Context, collection string) ([]types.Document, error) {
	remoteDocs, err := s.remote.List(ctx, collection)
	switch {
	case err == nil:
		s.toRemote()
	case errors.Is(err, types.ErrUnavailable):
		s.toLocal("list", err)
		return s.local.List(ctx, collection)
	default:
		return nil, err
	}

	localDocs, err := s.local.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(remoteDocs))
	merged := make([]types.Document, 0, len(remoteDocs)+len(localDocs))
	for _, doc := range remoteDocs {
		if id, ok := doc["id"].(string); ok {
			seen[id] = true
		}
		merged = append(merged, doc)
	}
	for _, doc := range localDocs {
		id, ok := doc["id"].(string)
		if ok && seen[id] {
			continue
		}
		merged = append(merged, doc)
	}
	return merged, nil
}

func (s *Store) toLocal(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tier != TierLocal {
		s.logger.Warn("remote tier unavailable, entering degraded mode", "op", op, "err", err)
		s.tier = TierLocal
	}
}

func (s *Store) toRemote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tier != TierRemote {
		s.logger.Info("remote tier reachable again")
		s.tier = TierRemote
	}
}
