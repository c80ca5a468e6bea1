// Package tasks implements the task lifecycle operations shared by the
// UI modules: create, list, update, complete, delete. Every successful
// mutation records exactly one history event and publishes one change
// notice, so analytics views and sibling modules stay consistent.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/viniciusgf/organza/internal/codec"
	"github.com/viniciusgf/organza/internal/history"
	"github.com/viniciusgf/organza/internal/propagate"
	"github.com/viniciusgf/organza/internal/tiered"
	"github.com/viniciusgf/organza/pkg/types"
)

// TopicChanged is the propagation topic for task mutations. Modules
// agree on it out-of-band.
const TopicChanged = "tasks_changed"

// ChangeNotice is the payload published on TopicChanged.
type ChangeNotice struct {
	TaskID string `json:"task_id"`
	Action string `json:"action"` // one of the types.Event constants
}

// Service provides the task operations. One instance per session.
type Service struct {
	store  *tiered.Store
	sink   history.Sink
	board  *propagate.Board
	logger *slog.Logger

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// NewService creates a task service. sink may be history.NopSink{};
// board may be nil for modules that do not propagate changes.
func NewService(store *tiered.Store, sink history.Sink, board *propagate.Board, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		sink:   sink,
		board:  board,
		logger: logger,
		now:    time.Now,
		newID:  types.NewID,
	}
}

// Create builds and persists a new task. Priority defaults to medium.
// The degraded flag reports a local-only write; the task is created
// either way.
func (s *Service) Create(ctx context.Context, title, description, priority string, subtaskTitles []string) (types.Task, bool, error) {
	if priority == "" {
		priority = types.PriorityMedium
	}
	task := types.Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
	}
	for _, st := range subtaskTitles {
		task.Subtasks = append(task.Subtasks, types.Subtask{ID: s.newID(), Title: st})
	}
	if err := task.Validate(); err != nil {
		return types.Task{}, false, err
	}

	degraded, err := s.store.Put(ctx, types.CollectionTasks, task.ID, codec.EncodeTask(task))
	if err != nil {
		return types.Task{}, false, fmt.Errorf("create task: %w", err)
	}
	s.afterMutation(ctx, task, types.EventCreated, fmt.Sprintf("%d subtasks", len(task.Subtasks)))
	return task, degraded, nil
}

// Get retrieves one task by id.
func (s *Service) Get(ctx context.Context, id string) (types.Task, error) {
	doc, err := s.store.Get(ctx, types.CollectionTasks, id)
	if err != nil {
		return types.Task{}, err
	}
	return codec.DecodeTask(doc)
}

// List returns every task ordered by creation time ascending. Malformed
// records are skipped and logged, never fatal to the listing.
func (s *Service) List(ctx context.Context) ([]types.Task, error) {
	docs, err := s.store.List(ctx, types.CollectionTasks)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	result := make([]types.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := codec.DecodeTask(doc)
		if err != nil {
			s.logger.Warn("skipping malformed task record", "err", err)
			continue
		}
		result = append(result, task)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Update overwrites an existing task. The task must already exist;
// CreatedAt is preserved from the stored copy since it is immutable.
func (s *Service) Update(ctx context.Context, task types.Task) (bool, error) {
	if err := task.Validate(); err != nil {
		return false, err
	}
	existing, err := s.Get(ctx, task.ID)
	if err != nil {
		return false, err
	}
	task.CreatedAt = existing.CreatedAt

	degraded, err := s.store.Put(ctx, types.CollectionTasks, task.ID, codec.EncodeTask(task))
	if err != nil {
		return false, fmt.Errorf("update task %s: %w", task.ID, err)
	}
	s.afterMutation(ctx, task, types.EventUpdated, "")
	return degraded, nil
}

// Complete marks a task and all of its subtasks as finished.
func (s *Service) Complete(ctx context.Context, id string) (types.Task, bool, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return types.Task{}, false, err
	}
	task.Complete()

	degraded, err := s.store.Put(ctx, types.CollectionTasks, task.ID, codec.EncodeTask(task))
	if err != nil {
		return types.Task{}, false, fmt.Errorf("complete task %s: %w", id, err)
	}
	s.afterMutation(ctx, task, types.EventCompleted, "")
	return task, degraded, nil
}

// Delete removes a task together with its subtasks. Returns
// ErrNotFound if no tier holds the task.
func (s *Service) Delete(ctx context.Context, id string) error {
	// Read first: the history event needs the title snapshot, and a
	// fully absent task should be reported rather than silently no-opped.
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, types.CollectionTasks, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	s.afterMutation(ctx, task, types.EventDeleted, "")
	return nil
}

// afterMutation records exactly one history event and one change
// notice for a mutation that already succeeded. Failures here are
// logged, not propagated: the record mutation is the operation the
// caller asked for.
func (s *Service) afterMutation(ctx context.Context, task types.Task, action, details string) {
	if err := s.sink.RecordEvent(ctx, task.ID, task.Title, action, details); err != nil {
		s.logger.Warn("recording history event failed", "task", task.ID, "action", action, "err", err)
	}
	if s.board != nil {
		s.board.Publish(TopicChanged, ChangeNotice{TaskID: task.ID, Action: action})
	}
}
