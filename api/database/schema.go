package database

import (
	"context"
	"database/sql"
	"fmt"
)

const webhookEventSchema = `
CREATE TABLE IF NOT EXISTS webhook_event (
	delivery_id TEXT PRIMARY KEY,
	provider    TEXT NOT NULL,
	event_type  TEXT NOT NULL DEFAULT '',
	payload     JSONB NOT NULL,
	received_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the tables used by the webhook journal if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, webhookEventSchema); err != nil {
		return fmt.Errorf("failed to create webhook_event table: %w", err)
	}
	return nil
}
