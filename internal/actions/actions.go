// Package actions implements the five CRM operations the router dispatches
// to. Each action is state-free, performs at most one storage transaction,
// and returns a JSON-shaped payload; failures come back as ErrorResult, never
// as a raised error.
package actions

import (
	"context"
	"errors"
	"log"
	"strings"

	"crm-assistant/internal/extraction"
	"crm-assistant/internal/schema"
	"crm-assistant/internal/store"
)

type ErrorResult struct {
	Error string `json:"error"`
}

type LogResult struct {
	Status        string                   `json:"status"`
	InteractionID string                   `json:"interaction_id"`
	Data          schema.InteractionRecord `json:"data"`
}

type EditResult struct {
	Status        string `json:"status"`
	InteractionID string `json:"interaction_id"`
}

type InsightResult struct {
	HCPName           string   `json:"hcp_name"`
	TotalInteractions int      `json:"total_interactions"`
	SentimentHistory  []string `json:"sentiment_history"`
}

type ComplianceResult struct {
	ComplianceFlag bool   `json:"compliance_flag"`
	Reason         string `json:"reason,omitempty"`
}

type RecommendResult struct {
	Suggestion string `json:"suggestion"`
}

type Actions struct {
	store  store.Store
	engine *extraction.Engine
}

func New(st store.Store, engine *extraction.Engine) *Actions {
	return &Actions{store: st, engine: engine}
}

// Log extracts a structured record from free text and persists it together
// with its material and sample children in one transaction.
func (a *Actions) Log(ctx context.Context, text string) any {
	rec, exErr := a.engine.Extract(ctx, text)
	if exErr != nil {
		log.Printf("extraction failed: %v", exErr)
		return ErrorResult{Error: exErr.UserMessage()}
	}

	id, err := a.store.LogInteraction(ctx, rec)
	if err != nil {
		log.Printf("database error: %v", err)
		return ErrorResult{Error: "Database error"}
	}

	return LogResult{Status: "logged", InteractionID: id, Data: rec}
}

// Edit mutates a single editable field of an existing interaction.
func (a *Actions) Edit(ctx context.Context, interactionID, field, value string) any {
	err := a.store.UpdateField(ctx, interactionID, field, value)
	switch {
	case err == nil:
		return EditResult{Status: "updated", InteractionID: interactionID}
	case errors.Is(err, store.ErrNotFound):
		return ErrorResult{Error: "Interaction not found"}
	case errors.Is(err, store.ErrInvalidField):
		return ErrorResult{Error: "Invalid field name"}
	default:
		log.Printf("edit failed: %v", err)
		return ErrorResult{Error: err.Error()}
	}
}

// Insight summarizes all interactions logged for an HCP.
func (a *Actions) Insight(ctx context.Context, hcpName string) any {
	records, err := a.store.ByHCP(ctx, hcpName)
	if err != nil {
		log.Printf("insight lookup failed: %v", err)
		return ErrorResult{Error: err.Error()}
	}

	sentiments := []string{}
	for _, r := range records {
		if r.Sentiment != nil && *r.Sentiment != "" {
			sentiments = append(sentiments, *r.Sentiment)
		}
	}

	return InsightResult{
		HCPName:           hcpName,
		TotalInteractions: len(records),
		SentimentHistory:  sentiments,
	}
}

// Compliance flags off-label mentions. Pure function, no storage.
func Compliance(text string) ComplianceResult {
	if strings.Contains(strings.ToLower(text), "off-label") {
		return ComplianceResult{
			ComplianceFlag: true,
			Reason:         "Off-label discussion detected",
		}
	}
	return ComplianceResult{ComplianceFlag: false}
}

// Recommend maps a sentiment to the next best action. Anything outside the
// known values, including negative, falls through to re-engagement.
func Recommend(sentiment string) RecommendResult {
	switch strings.ToLower(sentiment) {
	case schema.SentimentPositive:
		return RecommendResult{Suggestion: "Schedule follow-up meeting in 2 weeks"}
	case schema.SentimentNeutral:
		return RecommendResult{Suggestion: "Share updated clinical data"}
	default:
		return RecommendResult{Suggestion: "Re-engage with value-based discussion"}
	}
}
