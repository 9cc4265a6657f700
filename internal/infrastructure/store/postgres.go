package store

import (
	"context"
	"fmt"

	"fraudshield-lab/internal/domain/models"
	"fraudshield-lab/internal/infrastructure/database"
	"fraudshield-lab/pkg/logger"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS interaction_records (
	id BIGSERIAL PRIMARY KEY,
	recorded_at TIMESTAMPTZ NOT NULL,
	session_id TEXT NOT NULL,
	scammer_message TEXT NOT NULL,
	victim_reply TEXT NOT NULL,
	detected_keywords TEXT[] NOT NULL DEFAULT '{}',
	confidence_level INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interaction_records_session ON interaction_records (session_id);
`

// PostgresStore is the append-only interaction log backed by PostgreSQL.
// Rows are only ever inserted; append order is preserved by the serial
// primary key.
type PostgresStore struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewPostgresStore creates the store and ensures its schema exists.
func NewPostgresStore(ctx context.Context, db *database.PostgresDB, log *logger.Logger) (*PostgresStore, error) {
	s := &PostgresStore{
		db:     db,
		logger: log.WithComponent("postgres-store"),
	}
	if err := db.Exec(ctx, createRecordsTable); err != nil {
		return nil, fmt.Errorf("failed to ensure records schema: %w", err)
	}
	return s, nil
}

// Append inserts one interaction record.
func (s *PostgresStore) Append(ctx context.Context, record models.InteractionRecord) error {
	query := `
		INSERT INTO interaction_records
			(recorded_at, session_id, scammer_message, victim_reply, detected_keywords, confidence_level)
		VALUES ($1, $2, $3, $4, $5, $6)`

	err := s.db.Exec(ctx, query,
		record.Timestamp,
		record.SessionID,
		record.ScammerMessage,
		record.VictimReply,
		record.DetectedKeywords,
		record.ConfidenceLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction record: %w", err)
	}
	return nil
}

// LoadAll returns every record in append order.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]models.InteractionRecord, error) {
	query := `
		SELECT recorded_at, session_id, scammer_message, victim_reply, detected_keywords, confidence_level
		FROM interaction_records
		ORDER BY id ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction records: %w", err)
	}
	defer rows.Close()

	records := []models.InteractionRecord{}
	for rows.Next() {
		var rec models.InteractionRecord
		if err := rows.Scan(
			&rec.Timestamp,
			&rec.SessionID,
			&rec.ScammerMessage,
			&rec.VictimReply,
			&rec.DetectedKeywords,
			&rec.ConfidenceLevel,
		); err != nil {
			return nil, fmt.Errorf("failed to scan interaction record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interaction records: %w", err)
	}

	return records, nil
}
