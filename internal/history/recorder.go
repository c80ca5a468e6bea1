// Package history implements the append-only event log for task and
// plan lifecycle transitions. Events are records like any other: they
// go through the tiered store and are subject to the same fallback.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/viniciusgf/organza/internal/codec"
	"github.com/viniciusgf/organza/internal/tiered"
	"github.com/viniciusgf/organza/pkg/types"
)

// Sink is the capability consumed by mutation paths that must record
// lifecycle events. Selected at startup: the full Recorder in normal
// operation, NopSink where history is switched off.
type Sink interface {
	RecordEvent(ctx context.Context, subjectID, subjectTitle, eventType, details string) error
}

// Compile-time interface checks.
var (
	_ Sink = (*Recorder)(nil)
	_ Sink = NopSink{}
)

// NopSink discards every event.
type NopSink struct{}

// RecordEvent does nothing.
func (NopSink) RecordEvent(context.Context, string, string, string, string) error { return nil }

// Recorder appends and queries history events.
type Recorder struct {
	store  *tiered.Store
	logger *slog.Logger

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// NewRecorder creates a Recorder on top of the given tiered store.
func NewRecorder(store *tiered.Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  types.NewID,
	}
}

// RecordEvent appends one immutable event. SubjectTitle is stored as a
// denormalized snapshot so the event survives deletion of its subject.
// A degraded (local-only) append is still a successful append.
func (r *Recorder) RecordEvent(ctx context.Context, subjectID, subjectTitle, eventType, details string) error {
	if !types.ValidEventType(eventType) {
		return fmt.Errorf("%w: %q", types.ErrInvalidEvent, eventType)
	}
	event := types.HistoryEvent{
		ID:           r.newID(),
		SubjectID:    subjectID,
		SubjectTitle: subjectTitle,
		EventType:    eventType,
		Details:      details,
		Timestamp:    r.now().UTC(),
	}
	_, err := r.store.Put(ctx, types.CollectionHistory, event.ID, codec.EncodeEvent(event))
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	r.logger.Debug("history event recorded",
		"event", eventType, "subject", subjectID, "title", subjectTitle)
	return nil
}

// GetHistory returns events ordered by timestamp ascending, optionally
// filtered to one subject (empty subjectID means all). A malformed
// stored event is skipped and logged rather than failing the listing.
func (r *Recorder) GetHistory(ctx context.Context, subjectID string) ([]types.HistoryEvent, error) {
	docs, err := r.store.List(ctx, types.CollectionHistory)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	events := make([]types.HistoryEvent, 0, len(docs))
	for _, doc := range docs {
		event, err := codec.DecodeEvent(doc)
		if err != nil {
			r.logger.Warn("skipping malformed history event", "err", err)
			continue
		}
		if subjectID != "" && event.SubjectID != subjectID {
			continue
		}
		events = append(events, event)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

// ClearHistory deletes every event record. Destructive, explicit,
// non-recoverable. Returns the number of events removed.
func (r *Recorder) ClearHistory(ctx context.Context) (int, error) {
	docs, err := r.store.List(ctx, types.CollectionHistory)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}

	cleared := 0
	for _, doc := range docs {
		id, ok := doc["id"].(string)
		if !ok {
			r.logger.Warn("skipping history record without id")
			continue
		}
		if err := r.store.Delete(ctx, types.CollectionHistory, id); err != nil {
			return cleared, fmt.Errorf("clear history: %w", err)
		}
		cleared++
	}
	r.logger.Info("history cleared", "events", cleared)
	return cleared, nil
}
