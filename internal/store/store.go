// Package store persists interactions and their child materials and samples.
package store

import (
	"context"
	"errors"
	"time"

	"crm-assistant/internal/schema"
)

var (
	ErrNotFound     = errors.New("interaction not found")
	ErrInvalidField = errors.New("invalid field name")
)

// Interaction is a persisted interaction row. Nullable columns map to
// pointers so missing values survive round trips as NULL.
type Interaction struct {
	ID              string
	HCPName         *string
	InteractionType *string
	Date            *string
	Time            *string
	Sentiment       *string
	Outcomes        *string
	FollowUp        *string
	CreatedAt       time.Time
}

// Store abstracts persistence of interactions. Implementations must scope
// every mutation to a single transaction; materials and samples are only ever
// created as children of LogInteraction and are immutable afterwards.
type Store interface {
	// LogInteraction writes the record and its children atomically and
	// returns the new interaction id.
	LogInteraction(ctx context.Context, rec schema.InteractionRecord) (string, error)
	// UpdateField mutates one editable field of an existing interaction.
	// Returns ErrNotFound for an unknown id, ErrInvalidField for a field
	// outside the editable set.
	UpdateField(ctx context.Context, id, field, value string) error
	// ByHCP returns all interactions for an HCP name (exact match) in
	// insertion order.
	ByHCP(ctx context.Context, hcpName string) ([]Interaction, error)
	// PendingFollowUps returns interactions that have a non-empty follow_up.
	PendingFollowUps(ctx context.Context) ([]Interaction, error)
	Close() error
}
