package planner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusgf/organza/pkg/types"
)

func TestParsePlanPayload(t *testing.T) {
	payload := `{"title": "Clean the garage", "subtasks": ["sort boxes", "sweep floor"]}`

	tests := []struct {
		name string
		raw  string
	}{
		{name: "bare json", raw: payload},
		{name: "json fence", raw: "```json\n" + payload + "\n```"},
		{name: "untagged fence", raw: "```\n" + payload + "\n```"},
		{name: "fence with chatter", raw: "Here is your plan:\n```json\n" + payload + "\n```\nLet me know!"},
		{name: "surrounding whitespace", raw: "\n\n  " + payload + "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParsePlanPayload(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "Clean the garage", plan.Title)
			assert.Equal(t, []string{"sort boxes", "sweep floor"}, plan.Subtasks)
		})
	}
}

func TestParsePlanPayloadRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty reply", raw: ""},
		{name: "whitespace only", raw: "   \n  "},
		{name: "empty fence", raw: "```json\n```"},
		{name: "not json", raw: "I could not produce a plan, sorry."},
		{name: "missing title", raw: `{"subtasks": ["a"]}`},
		{name: "missing subtasks", raw: `{"title": "Plan"}`},
		{name: "empty subtasks", raw: `{"title": "Plan", "subtasks": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlanPayload(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestParsePlanPayloadCapsSubtasks(t *testing.T) {
	subtasks := make([]string, 0, MaxSubtasks+5)
	for i := 0; i < MaxSubtasks+5; i++ {
		subtasks = append(subtasks, fmt.Sprintf("\"step %d\"", i))
	}
	raw := fmt.Sprintf(`{"title": "Big plan", "subtasks": [%s]}`, strings.Join(subtasks, ","))

	plan, err := ParsePlanPayload(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Subtasks, MaxSubtasks)
	assert.Equal(t, "step 0", plan.Subtasks[0])
	assert.Equal(t, fmt.Sprintf("step %d", MaxSubtasks-1), plan.Subtasks[MaxSubtasks-1])
}

func TestAsPlan(t *testing.T) {
	generated := &GeneratedPlan{
		Title:    "Clean the garage",
		Subtasks: []string{"sort boxes", "sweep floor", "donate tools"},
	}

	plan := generated.AsPlan(types.SourceAI)
	assert.Equal(t, "Clean the garage", plan.Title)
	assert.Equal(t, types.SourceAI, plan.Source)
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, types.PriorityMedium, plan.Tasks[0].Priority)

	titles := make([]string, 0, len(plan.Tasks[0].Subtasks))
	for _, st := range plan.Tasks[0].Subtasks {
		titles = append(titles, st.Title)
	}
	assert.Equal(t, generated.Subtasks, titles)

	require.NoError(t, plan.Validate())
}
