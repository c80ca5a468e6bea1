package plans

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusgf/organza/internal/history"
	"github.com/viniciusgf/organza/internal/local"
	"github.com/viniciusgf/organza/internal/propagate"
	"github.com/viniciusgf/organza/internal/tiered"
	"github.com/viniciusgf/organza/pkg/types"
)

type capturingSink struct {
	events []string // "eventType subjectTitle"
}

func (c *capturingSink) RecordEvent(_ context.Context, _, subjectTitle, eventType, _ string) error {
	c.events = append(c.events, eventType+" "+subjectTitle)
	return nil
}

var _ history.Sink = (*capturingSink)(nil)

func newTestService(t *testing.T) (*Service, *capturingSink, *propagate.Board) {
	t.Helper()
	store := tiered.New(local.NewMemory(), local.NewMemory(), nil)
	sink := &capturingSink{}
	board := propagate.NewBoard()
	service := NewService(store, sink, board, nil)

	seq := 0
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time {
		seq++
		return base.Add(time.Duration(seq) * time.Hour)
	}
	service.newID = func() string {
		seq++
		return fmt.Sprintf("plan-id-%03d", seq)
	}
	return service, sink, board
}

func TestSaveAssignsIdentifiers(t *testing.T) {
	ctx := context.Background()
	service, sink, board := newTestService(t)

	plan, degraded, err := service.Save(ctx, types.Plan{
		Title: "Kitchen renovation",
		Tasks: []types.Task{
			{Title: "Demolition", Priority: types.PriorityHigh, Subtasks: []types.Subtask{{Title: "rent dumpster"}}},
			{Title: "Painting", Priority: types.PriorityLow},
		},
	})
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, types.SourceManual, plan.Source)
	assert.False(t, plan.CreatedAt.IsZero())
	require.Len(t, plan.Tasks, 2)
	assert.NotEmpty(t, plan.Tasks[0].ID)
	assert.NotEmpty(t, plan.Tasks[0].Subtasks[0].ID)
	assert.Equal(t, plan.CreatedAt, plan.Tasks[1].CreatedAt)

	require.Len(t, sink.events, 1)
	assert.Equal(t, types.EventCreated+" Kitchen renovation", sink.events[0])

	var notice ChangeNotice
	require.True(t, board.SubscribeInto(TopicChanged, &notice))
	assert.Equal(t, ChangeNotice{PlanID: plan.ID, Action: types.EventCreated}, notice)
}

func TestSaveRejectsInvalidPlan(t *testing.T) {
	service, sink, _ := newTestService(t)
	tests := []struct {
		name    string
		plan    types.Plan
		wantErr error
	}{
		{name: "empty title", plan: types.Plan{Title: ""}, wantErr: types.ErrEmptyTitle},
		{name: "unknown source", plan: types.Plan{Title: "Plan", Source: "telepathy"}, wantErr: types.ErrInvalidSource},
		{
			name:    "invalid nested task",
			plan:    types.Plan{Title: "Plan", Tasks: []types.Task{{Title: "Task", Priority: "urgent"}}},
			wantErr: types.ErrInvalidPriority,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Save(context.Background(), tt.plan)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, sink.events)
}

func TestSaveRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	plan, _, err := service.Save(ctx, types.Plan{
		Title:  "Morning routine",
		Source: types.SourceAI,
		Tasks: []types.Task{
			{Title: "Wake up", Priority: types.PriorityHigh},
			{Title: "Coffee", Priority: types.PriorityHigh},
			{Title: "Stretch", Priority: types.PriorityLow},
		},
	})
	require.NoError(t, err)

	stored, err := service.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, stored)
	titles := make([]string, 0, len(stored.Tasks))
	for _, task := range stored.Tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"Wake up", "Coffee", "Stretch"}, titles)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	older, _, err := service.Save(ctx, types.Plan{Title: "Older"})
	require.NoError(t, err)
	newer, _, err := service.Save(ctx, types.Plan{Title: "Newer"})
	require.NoError(t, err)

	plans, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, newer.ID, plans[0].ID)
	assert.Equal(t, older.ID, plans[1].ID)
}

func TestGetMissingPlan(t *testing.T) {
	service, _, _ := newTestService(t)
	_, err := service.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	service, sink, _ := newTestService(t)

	plan, _, err := service.Save(ctx, types.Plan{Title: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, plan.ID))
	_, err = service.Get(ctx, plan.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, types.EventDeleted+" Doomed", sink.events[len(sink.events)-1])

	assert.ErrorIs(t, service.Delete(ctx, plan.ID), types.ErrNotFound)
}
