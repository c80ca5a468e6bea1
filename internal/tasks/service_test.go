package tasks

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

// capturingSink records every event it receives so tests can assert on
// the mutation/event pairing.
type capturingSink struct {
	events []recordedEvent
}

type recordedEvent struct {
	subjectID    string
	subjectTitle string
	eventType    string
	details      string
}

func (c *capturingSink) RecordEvent(_ context.Context, subjectID, subjectTitle, eventType, details string) error {
	c.events = append(c.events, recordedEvent{subjectID, subjectTitle, eventType, details})
	return nil
}

var _ history.Sink = (*capturingSink)(nil)

type fixture struct {
	service *Service
	store   *tiered.Store
	sink    *capturingSink
	board   *propagate.Board
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := tiered.New(local.NewMemory(), local.NewMemory(), nil)
	sink := &capturingSink{}
	board := propagate.NewBoard()
	service := NewService(store, sink, board, nil)

	seq := 0
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time {
		seq++
		return base.Add(time.Duration(seq) * time.Minute)
	}
	service.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return &fixture{service: service, store: store, sink: sink, board: board}
}

// lastNotice consumes the board's pending task notice.
func (f *fixture) lastNotice(t *testing.T) ChangeNotice {
	t.Helper()
	var notice ChangeNotice
	require.True(t, f.board.SubscribeInto(TopicChanged, &notice))
	return notice
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, degraded, err := f.service.Create(ctx, "Buy milk", "whole, 2 liters", types.PriorityHigh, []string{"check fridge", "go to store"})
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, types.PriorityHigh, task.Priority)
	assert.False(t, task.CreatedAt.IsZero())
	require.Len(t, task.Subtasks, 2)
	assert.NotEmpty(t, task.Subtasks[0].ID)

	stored, err := f.service.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, stored)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, recordedEvent{task.ID, "Buy milk", types.EventCreated, "2 subtasks"}, f.sink.events[0])
	assert.Equal(t, ChangeNotice{TaskID: task.ID, Action: types.EventCreated}, f.lastNotice(t))
}

func TestCreateDefaultsPriority(t *testing.T) {
	f := newFixture(t)
	task, _, err := f.service.Create(context.Background(), "Buy milk", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, types.PriorityMedium, task.Priority)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name     string
		title    string
		priority string
		wantErr  error
	}{
		{name: "empty title", title: "", priority: types.PriorityLow, wantErr: types.ErrEmptyTitle},
		{name: "unknown priority", title: "Buy milk", priority: "urgent", wantErr: types.ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.service.Create(context.Background(), tt.title, "", tt.priority, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	// Rejected mutations record nothing.
	assert.Empty(t, f.sink.events)
	_, ok := f.board.Subscribe(TopicChanged)
	assert.False(t, ok)
}

func TestListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, _, err := f.service.Create(ctx, "First", "", "", nil)
	require.NoError(t, err)
	second, _, err := f.service.Create(ctx, "Second", "", "", nil)
	require.NoError(t, err)

	tasks, err := f.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
}

func TestListSkipsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, _, err := f.service.Create(ctx, "Good", "", "", nil)
	require.NoError(t, err)
	_, err = f.store.Put(ctx, types.CollectionTasks, "junk", types.Document{"id": "junk", "title": 42})
	require.NoError(t, err)

	tasks, err := f.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, _, err := f.service.Create(ctx, "Buy milk", "", "", nil)
	require.NoError(t, err)

	changed := task
	changed.Title = "Buy oat milk"
	changed.CreatedAt = time.Now() // callers cannot move the creation time
	_, err = f.service.Update(ctx, changed)
	require.NoError(t, err)

	stored, err := f.service.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", stored.Title)
	assert.Equal(t, task.CreatedAt, stored.CreatedAt)

	assert.Equal(t, types.EventUpdated, f.sink.events[len(f.sink.events)-1].eventType)
}

func TestUpdateMissingTask(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Update(context.Background(), types.Task{ID: "ghost", Title: "Ghost", Priority: types.PriorityLow})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCompleteCascadesToSubtasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, _, err := f.service.Create(ctx, "Buy milk", "", "", []string{"check fridge", "go to store"})
	require.NoError(t, err)

	completed, _, err := f.service.Complete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	for _, st := range completed.Subtasks {
		assert.True(t, st.Completed)
	}

	stored, err := f.service.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Equal(t, types.EventCompleted, f.sink.events[len(f.sink.events)-1].eventType)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, _, err := f.service.Create(ctx, "Doomed", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, task.ID))
	_, err = f.service.Get(ctx, task.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// The deletion event keeps the title snapshot.
	last := f.sink.events[len(f.sink.events)-1]
	assert.Equal(t, recordedEvent{task.ID, "Doomed", types.EventDeleted, ""}, last)
}

func TestDeleteMissingTask(t *testing.T) {
	f := newFixture(t)
	err := f.service.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, f.sink.events)
}

func TestEveryMutationRecordsExactlyOneEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, _, err := f.service.Create(ctx, "Buy milk", "", "", nil)
	require.NoError(t, err)
	_, _, err = f.service.Complete(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, task.ID))

	require.Len(t, f.sink.events, 3)
	assert.Equal(t, types.EventCreated, f.sink.events[0].eventType)
	assert.Equal(t, types.EventCompleted, f.sink.events[1].eventType)
	assert.Equal(t, types.EventDeleted, f.sink.events[2].eventType)
}
