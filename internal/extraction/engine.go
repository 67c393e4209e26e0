// Package extraction turns free-text interaction notes into validated
// InteractionRecords via a text-generation model.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"crm-assistant/internal/llm"
	"crm-assistant/internal/schema"
)

const systemPrompt = `You are a pharmaceutical CRM extraction engine.

Return STRICT VALID JSON only.

Rules:
- No markdown
- No explanations
- Always return valid JSON
- Arrays must always be arrays
- Sentiment must be: positive, neutral, or negative
- If unknown, use null`

// schemaTemplate is the exact skeleton the model is told to fill in.
const schemaTemplate = `{"hcp_name": null, "interaction_type": null, "date": null, "time": null, "attendees": [], "topics_discussed": [], "materials_shared": [], "samples_distributed": [], "sentiment": null, "outcomes": null, "follow_up": null}`

type Engine struct {
	client llm.Client
}

func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client}
}

// Extract runs one deterministic generation call over text and returns either
// a validated record or a classified failure. It never touches storage.
func (e *Engine) Extract(ctx context.Context, text string) (schema.InteractionRecord, *Error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{
			Role:    "user",
			Content: fmt.Sprintf("Extract CRM interaction data from this:\n\n%s\n\nReturn this exact JSON schema:\n%s", text, schemaTemplate),
		},
	}

	resp, err := e.client.GenerateStructured(ctx, messages)
	if err != nil {
		return schema.InteractionRecord{}, &Error{Kind: KindInternal, Detail: err.Error()}
	}

	raw := stripCodeFences(strings.TrimSpace(resp.Content))

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return schema.InteractionRecord{}, &Error{Kind: KindParseFailure, Detail: err.Error()}
	}

	normalized := schema.Normalize(parsed)

	rec, err := schema.RecordFromMap(normalized)
	if err != nil {
		return schema.InteractionRecord{}, &Error{Kind: KindSchemaInvalid, Detail: err.Error()}
	}
	if err := rec.Validate(); err != nil {
		return schema.InteractionRecord{}, &Error{Kind: KindSchemaInvalid, Detail: err.Error()}
	}

	return rec, nil
}

// stripCodeFences removes a surrounding markdown code fence. Models are told
// not to emit markdown but smaller ones do it anyway.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
