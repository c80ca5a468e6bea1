// Package planner is the plan-generation collaborator: it turns a free
// text prompt (optionally with an image) into a raw task/plan payload
// for the storage core to persist. The model is asked for strict JSON;
// ParsePlanPayload tolerates the code fences models wrap replies in.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/viniciusgf/organza/pkg/types"
)

// MaxSubtasks caps how many subtasks a generated plan may carry.
const MaxSubtasks = 10

// ErrEmptyPayload means the model reply contained no usable JSON.
var ErrEmptyPayload = errors.New("empty generation payload")

// GeneratedPlan is the raw payload produced by a Generator.
type GeneratedPlan struct {
	Title    string   `json:"title"`
	Subtasks []string `json:"subtasks"`
}

// Generator produces a task breakdown from a prompt. imageJPEG may be
// nil for text-only generation.
type Generator interface {
	GeneratePlan(ctx context.Context, prompt string, imageJPEG []byte) (*GeneratedPlan, error)
}

// AsPlan converts the generated payload into a persistable Plan: one
// task carrying the subtasks, in the order the model produced them.
// IDs and timestamps are assigned on save.
func (g *GeneratedPlan) AsPlan(source string) types.Plan {
	task := types.Task{
		Title:    g.Title,
		Priority: types.PriorityMedium,
	}
	for _, st := range g.Subtasks {
		task.Subtasks = append(task.Subtasks, types.Subtask{Title: st})
	}
	return types.Plan{
		Title:  g.Title,
		Tasks:  []types.Task{task},
		Source: source,
	}
}

// ParsePlanPayload decodes a model reply into a GeneratedPlan. Replies
// wrapped in markdown code fences are unwrapped first; the subtask list
// is capped at MaxSubtasks; a reply missing title or subtasks fails.
func ParsePlanPayload(raw string) (*GeneratedPlan, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, ErrEmptyPayload
	}

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("decode generation payload: %w", err)
	}
	if plan.Title == "" || len(plan.Subtasks) == 0 {
		return nil, fmt.Errorf("generation payload missing title or subtasks")
	}
	if len(plan.Subtasks) > MaxSubtasks {
		plan.Subtasks = plan.Subtasks[:MaxSubtasks]
	}
	return &plan, nil
}

// stripFences removes a surrounding markdown code fence, with or
// without a json language tag.
func stripFences(text string) string {
	if strings.Contains(text, "```json") {
		text = strings.SplitN(text, "```json", 2)[1]
		text = strings.SplitN(text, "```", 2)[0]
	} else if strings.Contains(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
	}
	return strings.TrimSpace(text)
}
