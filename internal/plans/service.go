// Package plans implements plan persistence: ordered collections of
// task snapshots produced by manual entry, image analysis, or AI
// generation. Mutations mirror the task service: one history event and
// one change notice per successful mutation.
package plans

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

// TopicChanged is the propagation topic for plan mutations.
const TopicChanged = "plans_changed"

// ChangeNotice is the payload published on TopicChanged.
type ChangeNotice struct {
	PlanID string `json:"plan_id"`
	Action string `json:"action"`
}

// Service provides the plan operations. One instance per session.
type Service struct {
	store  *tiered.Store
	sink   history.Sink
	board  *propagate.Board
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a plan service.
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

// Save persists a plan, assigning its id and creation time when absent.
// Task snapshot order is preserved as given.
func (s *Service) Save(ctx context.Context, plan types.Plan) (types.Plan, bool, error) {
	if plan.Source == "" {
		plan.Source = types.SourceManual
	}
	if err := plan.Validate(); err != nil {
		return types.Plan{}, false, err
	}
	if plan.ID == "" {
		plan.ID = s.newID()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC()
	}
	for i := range plan.Tasks {
		if plan.Tasks[i].ID == "" {
			plan.Tasks[i].ID = s.newID()
		}
		if plan.Tasks[i].CreatedAt.IsZero() {
			plan.Tasks[i].CreatedAt = plan.CreatedAt
		}
		for j := range plan.Tasks[i].Subtasks {
			if plan.Tasks[i].Subtasks[j].ID == "" {
				plan.Tasks[i].Subtasks[j].ID = s.newID()
			}
		}
	}

	degraded, err := s.store.Put(ctx, types.CollectionPlans, plan.ID, codec.EncodePlan(plan))
	if err != nil {
		return types.Plan{}, false, fmt.Errorf("save plan: %w", err)
	}
	s.afterMutation(ctx, plan, types.EventCreated, plan.Source)
	return plan, degraded, nil
}

// Get retrieves one plan by id.
func (s *Service) Get(ctx context.Context, id string) (types.Plan, error) {
	doc, err := s.store.Get(ctx, types.CollectionPlans, id)
	if err != nil {
		return types.Plan{}, err
	}
	return codec.DecodePlan(doc)
}

// List returns every plan, newest first. Malformed records are skipped
// and logged.
func (s *Service) List(ctx context.Context) ([]types.Plan, error) {
	docs, err := s.store.List(ctx, types.CollectionPlans)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	result := make([]types.Plan, 0, len(docs))
	for _, doc := range docs {
		plan, err := codec.DecodePlan(doc)
		if err != nil {
			s.logger.Warn("skipping malformed plan record", "err", err)
			continue
		}
		result = append(result, plan)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a plan. Returns ErrNotFound if no tier holds it.
func (s *Service) Delete(ctx context.Context, id string) error {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, types.CollectionPlans, id); err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	s.afterMutation(ctx, plan, types.EventDeleted, "")
	return nil
}

func (s *Service) afterMutation(ctx context.Context, plan types.Plan, action, details string) {
	if err := s.sink.RecordEvent(ctx, plan.ID, plan.Title, action, details); err != nil {
		s.logger.Warn("recording history event failed", "plan", plan.ID, "action", action, "err", err)
	}
	if s.board != nil {
		s.board.Publish(TopicChanged, ChangeNotice{PlanID: plan.ID, Action: action})
	}
}
