package db

import (
	"context"
	"database/sql"
	"fmt"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

// Journal records verified webhook deliveries. Redeliveries of the same id are ignored.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal { return &Journal{db: db} }

// Record inserts the delivery. A duplicate delivery id is not an error.
func (j *Journal) Record(ctx context.Context, provider string, event gw.Event) error {
	if event.ID == "" {
		return fmt.Errorf("event has no delivery id")
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO webhook_event (delivery_id, provider, event_type, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (delivery_id) DO NOTHING`,
		event.ID, provider, event.Type, string(event.Payload))
	if err != nil {
		return fmt.Errorf("error inserting webhook_event: %w", err)
	}
	return nil
}

// Count returns how many deliveries were journaled for a provider.
func (j *Journal) Count(ctx context.Context, provider string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM webhook_event WHERE provider = $1`, provider).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting webhook_event: %w", err)
	}
	return n, nil
}
