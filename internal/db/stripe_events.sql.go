package db

import (
	"context"
	"database/sql"

	"github.com/sqlc-dev/pqtype"
)

const insertStripeEvent = `
INSERT INTO stripe_events (id, type, payload)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
RETURNING id, type, payload, processed, error_message, received_at`

type InsertStripeEventParams struct {
	ID      string
	Type    string
	Payload pqtype.NullRawMessage
}

// InsertStripeEvent records a received webhook event. A redelivered event
// hits the conflict clause, returns no row, and surfaces sql.ErrNoRows —
// the webhook handler treats that as "already seen".
func (q *Queries) InsertStripeEvent(ctx context.Context, arg InsertStripeEventParams) (StripeEvent, error) {
	var e StripeEvent
	err := q.db.QueryRowContext(ctx, insertStripeEvent, arg.ID, arg.Type, arg.Payload).Scan(
		&e.ID,
		&e.Type,
		&e.Payload,
		&e.Processed,
		&e.ErrorMessage,
		&e.ReceivedAt,
	)
	return e, err
}

const markStripeEventProcessed = `
UPDATE stripe_events
SET processed = TRUE
WHERE id = $1`

func (q *Queries) MarkStripeEventProcessed(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markStripeEventProcessed, id)
	return err
}

const markStripeEventFailed = `
UPDATE stripe_events
SET error_message = $2
WHERE id = $1`

type MarkStripeEventFailedParams struct {
	ID           string
	ErrorMessage sql.NullString
}

func (q *Queries) MarkStripeEventFailed(ctx context.Context, arg MarkStripeEventFailedParams) error {
	_, err := q.db.ExecContext(ctx, markStripeEventFailed, arg.ID, arg.ErrorMessage)
	return err
}
