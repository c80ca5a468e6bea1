package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used for plan generation.
const DefaultModel = "gemini-2.0-flash"

// promptTemplate instructs the model to answer with bare JSON only.
const promptTemplate = `Help me plan a task with subtasks based on the following context: %s

IMPORTANT: Respond ONLY with a JSON object in the following format, with no additional text:
{
    "title": "Main task title (at most 7 words)",
    "subtasks": [
        "Subtask 1",
        "Subtask 2",
        "Subtask 3"
    ]
}

Do not include explanations, just the clean JSON.`

// Compile-time interface check: Gemini must implement Generator.
var _ Generator = (*Gemini)(nil)

// Gemini generates plans through the Gemini API.
type Gemini struct {
	apiKey string
	model  string
	logger *slog.Logger
}

// NewGemini creates a Gemini generator. An empty model selects
// DefaultModel.
func NewGemini(apiKey, model string, logger *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{apiKey: apiKey, model: model, logger: logger}
}

// GeneratePlan asks the model for a task breakdown and parses the
// reply. imageJPEG, when non-nil, is sent alongside the prompt for
// multimodal generation.
func (g *Gemini) GeneratePlan(ctx context.Context, prompt string, imageJPEG []byte) (*GeneratedPlan, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	parts := []genai.Part{genai.Text(fmt.Sprintf(promptTemplate, prompt))}
	if imageJPEG != nil {
		parts = append(parts, genai.ImageData("jpeg", imageJPEG))
	}

	resp, err := client.GenerativeModel(g.model).GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	var reply strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				reply.WriteString(string(text))
			}
		}
	}
	g.logger.Debug("generation reply received", "model", g.model, "bytes", reply.Len())
	return ParsePlanPayload(reply.String())
}
