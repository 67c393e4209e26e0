package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Material is a piece of promotional or clinical content shared during an interaction.
type Material struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Sample is a product sample batch handed over during an interaction.
type Sample struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// InteractionRecord is the canonical extraction output for a single HCP interaction.
// Optional scalar fields are pointers so that "unknown" survives a JSON round trip
// as null instead of collapsing to the empty string. List fields are never nil
// after normalization.
type InteractionRecord struct {
	HCPName         *string `json:"hcp_name"`
	InteractionType *string `json:"interaction_type"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`

	Attendees          []string   `json:"attendees"`
	TopicsDiscussed    []string   `json:"topics_discussed"`
	MaterialsShared    []Material `json:"materials_shared"`
	SamplesDistributed []Sample   `json:"samples_distributed"`

	Sentiment *string `json:"sentiment"`
	Outcomes  *string `json:"outcomes"`
	FollowUp  *string `json:"follow_up"`
}

// Sentiment values accepted by Validate.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Validate enforces the strict parts of the schema. Only sentiment is
// strictly checked; everything else is loosely typed on purpose.
func (r *InteractionRecord) Validate() error {
	if r.Sentiment == nil {
		return nil
	}
	switch *r.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return nil
	default:
		return fmt.Errorf("invalid sentiment value: %q", *r.Sentiment)
	}
}

// RecordFromMap decodes a normalized payload into an InteractionRecord.
// The payload is expected to have passed through Normalize first; a type
// mismatch that survived normalization (e.g. a string quantity) surfaces
// here as a decode error.
func RecordFromMap(m map[string]any) (InteractionRecord, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return InteractionRecord{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var rec InteractionRecord
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&rec); err != nil {
		return InteractionRecord{}, fmt.Errorf("payload does not match schema: %w", err)
	}

	// Keep the post-normalization invariant: list fields are lists, never nil.
	if rec.Attendees == nil {
		rec.Attendees = []string{}
	}
	if rec.TopicsDiscussed == nil {
		rec.TopicsDiscussed = []string{}
	}
	if rec.MaterialsShared == nil {
		rec.MaterialsShared = []Material{}
	}
	if rec.SamplesDistributed == nil {
		rec.SamplesDistributed = []Sample{}
	}

	return rec, nil
}
