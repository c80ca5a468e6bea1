package propagate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeConsumesPayload(t *testing.T) {
	board := NewBoard()
	board.Publish("tasks_changed", "hello")

	payload, ok := board.Subscribe("tasks_changed")
	require.True(t, ok)
	assert.Equal(t, "hello", payload)

	// Consumed: a second read without a publish reports no update.
	_, ok = board.Subscribe("tasks_changed")
	assert.False(t, ok)
}

func TestSubscribeEmptyTopic(t *testing.T) {
	board := NewBoard()
	payload, ok := board.Subscribe("nothing_here")
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestPublishLastWriteWins(t *testing.T) {
	board := NewBoard()
	board.Publish("tasks_changed", "first")
	board.Publish("tasks_changed", "second")

	payload, ok := board.Subscribe("tasks_changed")
	require.True(t, ok)
	assert.Equal(t, "second", payload)
}

func TestTopicsAreIndependent(t *testing.T) {
	board := NewBoard()
	board.Publish("tasks_changed", "task payload")
	board.Publish("plans_changed", "plan payload")

	payload, ok := board.Subscribe("plans_changed")
	require.True(t, ok)
	assert.Equal(t, "plan payload", payload)

	payload, ok = board.Subscribe("tasks_changed")
	require.True(t, ok)
	assert.Equal(t, "task payload", payload)
}

func TestSubscribeInto(t *testing.T) {
	type notice struct {
		TaskID string `json:"task_id"`
		Action string `json:"action"`
	}

	board := NewBoard()
	board.Publish("tasks_changed", notice{TaskID: "t1", Action: "created"})

	var got notice
	require.True(t, board.SubscribeInto("tasks_changed", &got))
	assert.Equal(t, notice{TaskID: "t1", Action: "created"}, got)

	// Consumed by the decode path too.
	assert.False(t, board.SubscribeInto("tasks_changed", &got))
}

func TestSubscribeIntoMalformedPayload(t *testing.T) {
	board := NewBoard()
	board.Publish("tasks_changed", "just a string")

	var got struct {
		TaskID string `json:"task_id"`
	}
	assert.False(t, board.SubscribeInto("tasks_changed", &got))
}
