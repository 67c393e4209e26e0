package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"crm-assistant/internal/schema"
)

// SQLiteStore implements Store over a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *SQLiteStore) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		hcp_name TEXT,
		interaction_type TEXT,
		date TEXT,
		time TEXT,
		sentiment TEXT,
		outcomes TEXT,
		follow_up TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS materials (
		id TEXT PRIMARY KEY,
		interaction_id TEXT NOT NULL REFERENCES interactions(id),
		name TEXT,
		type TEXT
	);

	CREATE TABLE IF NOT EXISTS samples (
		id TEXT PRIMARY KEY,
		interaction_id TEXT NOT NULL REFERENCES interactions(id),
		product_name TEXT,
		quantity INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_hcp_name ON interactions(hcp_name);
	CREATE INDEX IF NOT EXISTS idx_materials_interaction_id ON materials(interaction_id);
	CREATE INDEX IF NOT EXISTS idx_samples_interaction_id ON samples(interaction_id);
	`

	_, err := s.db.Exec(schemaSQL)
	return err
}

// editableFields is the closed set of columns UpdateField may touch.
// Identifiers and child rows are never editable.
var editableFields = map[string]string{
	"hcp_name":         "hcp_name",
	"interaction_type": "interaction_type",
	"date":             "date",
	"time":             "time",
	"sentiment":        "sentiment",
	"outcomes":         "outcomes",
	"follow_up":        "follow_up",
}

func (s *SQLiteStore) LogInteraction(ctx context.Context, rec schema.InteractionRecord) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO interactions (id, hcp_name, interaction_type, date, time, sentiment, outcomes, follow_up, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.HCPName, rec.InteractionType, rec.Date, rec.Time, rec.Sentiment, rec.Outcomes, rec.FollowUp, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert interaction: %w", err)
	}

	for _, m := range rec.MaterialsShared {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO materials (id, interaction_id, name, type) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), id, m.Name, m.Type,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert material: %w", err)
		}
	}

	for _, smp := range rec.SamplesDistributed {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO samples (id, interaction_id, product_name, quantity) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), id, smp.ProductName, smp.Quantity,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit interaction: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpdateField(ctx context.Context, id, field, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Existence is checked before the field name so a bad field on a missing
	// row still reports the missing row.
	var found string
	err = tx.QueryRowContext(ctx, `SELECT id FROM interactions WHERE id = ?`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up interaction: %w", err)
	}

	column, ok := editableFields[field]
	if !ok {
		return ErrInvalidField
	}

	_, err = tx.ExecContext(ctx, `UPDATE interactions SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update interaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ByHCP(ctx context.Context, hcpName string) ([]Interaction, error) {
	return s.queryInteractions(ctx,
		`SELECT id, hcp_name, interaction_type, date, time, sentiment, outcomes, follow_up, created_at
		 FROM interactions WHERE hcp_name = ? ORDER BY rowid`, hcpName)
}

func (s *SQLiteStore) PendingFollowUps(ctx context.Context) ([]Interaction, error) {
	return s.queryInteractions(ctx,
		`SELECT id, hcp_name, interaction_type, date, time, sentiment, outcomes, follow_up, created_at
		 FROM interactions WHERE follow_up IS NOT NULL AND follow_up != '' ORDER BY rowid`)
}

func (s *SQLiteStore) queryInteractions(ctx context.Context, query string, args ...any) ([]Interaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var it Interaction
		err := rows.Scan(&it.ID, &it.HCPName, &it.InteractionType, &it.Date, &it.Time,
			&it.Sentiment, &it.Outcomes, &it.FollowUp, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
