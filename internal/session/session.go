// Package session wires the storage core together for one user
// session. Every module receives one Session instance at startup and
// reaches the local cache, the tiered store, the history recorder, and
// the bulletin board exclusively through it; there is no ambient global
// state.
package session

import (
	"context"
	"io"
	"log/slog"

	"github.com/viniciusgf/organza/internal/history"
	"github.com/viniciusgf/organza/internal/local"
	"github.com/viniciusgf/organza/internal/plans"
	"github.com/viniciusgf/organza/internal/propagate"
	"github.com/viniciusgf/organza/internal/remote"
	"github.com/viniciusgf/organza/internal/tasks"
	"github.com/viniciusgf/organza/internal/tiered"
	"github.com/viniciusgf/organza/pkg/types"
)

// Session owns the per-session state: the local cache, the tier flag
// inside the tiered store, and the bulletin board. One instance per
// module process.
type Session struct {
	Store   *tiered.Store
	Tasks   *tasks.Service
	Plans   *plans.Service
	History *history.Recorder
	Board   *propagate.Board
	Logger  *slog.Logger

	remoteStore *remote.Store
	localStore  types.RecordStore
}

// New builds a session from the given config and probes the remote
// tier once to pick the initial tier. Missing or invalid credentials
// produce a working local-only session, never an error.
func New(ctx context.Context, cfg types.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	localStore, err := local.New(cfg)
	if err != nil {
		return nil, err
	}
	remoteStore := remote.New(cfg.ProjectID, cfg.CredentialsFile, logger)
	store := tiered.New(remoteStore, localStore, logger)
	tier := store.Probe(ctx)
	logger.Info("session started", "tier", string(tier), "local_backend", cfg.LocalBackend)

	recorder := history.NewRecorder(store, logger)
	board := propagate.NewBoard()

	return &Session{
		Store:       store,
		Tasks:       tasks.NewService(store, recorder, board, logger),
		Plans:       plans.NewService(store, recorder, board, logger),
		History:     recorder,
		Board:       board,
		Logger:      logger,
		remoteStore: remoteStore,
		localStore:  localStore,
	}, nil
}

// Counts returns the number of records per standard collection, as
// seen through the tiered store. Used by the status view.
func (s *Session) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 3)
	for _, coll := range []string{types.CollectionTasks, types.CollectionPlans, types.CollectionHistory} {
		docs, err := s.Store.List(ctx, coll)
		if err != nil {
			return nil, err
		}
		counts[coll] = len(docs)
	}
	return counts, nil
}

// Close releases backend resources held by the session.
func (s *Session) Close() error {
	var firstErr error
	if closer, ok := s.localStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.remoteStore.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
