package kafka

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leaveflow/internal/events"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// Retry cadence for failed publishes: linear backoff per attempt, capped so
// a poisoned row retries at most every backoffStep*maxBackoffSteps.
const (
	backoffStep     = 30 * time.Second
	maxBackoffSteps = 8
)

// OutboxEvent is one decision notice awaiting relay to Kafka. Rows are
// written in the same transaction as the leave status change, so a decision
// and its event cannot diverge.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

// Create stages the event inside the caller's transaction. Malformed events
// are refused here rather than poisoning the relay worker.
func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	const query = `
INSERT INTO outbox_events (
	id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending returns rows due for publishing, oldest first, so decisions
// reach the notification consumer in the order they were made.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	const query = `
SELECT
	id::text,
	aggregate_type,
	aggregate_id::text,
	event_type,
	topic,
	payload,
	status,
	retry_count,
	COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2)
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at ASC
LIMIT $3
`

	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Topic,
			&e.Payload,
			&e.Status,
			&e.RetryCount,
			&e.NextRetryAt,
		); err != nil {
			return nil, err
		}
		pending = append(pending, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pending, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	const query = `
UPDATE outbox_events
SET
	status = $2,
	processed_at = NOW(),
	error_message = NULL,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusSent)
	return err
}

// MarkFailed records the publish error and schedules the next attempt with
// linear backoff, capped at maxBackoffSteps.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	const query = `
UPDATE outbox_events
SET
	status = $2,
	retry_count = retry_count + 1,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + (LEAST(retry_count + 1, $4) * $5::interval),
	updated_at = NOW()
WHERE id = $1
`
	step := fmt.Sprintf("%d seconds", int(backoffStep.Seconds()))
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusFailed, reason, maxBackoffSteps, step)
	return err
}

func (r *outboxRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ValidateOutboxEvent checks that the event belongs to the leave decision
// stream before it is staged. Only known event types on the decided topic are
// accepted; anything else indicates a programming error upstream.
func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return fmt.Errorf("outbox id is required")
	}
	if event.Topic != events.LeaveDecidedTopic {
		return fmt.Errorf("unknown outbox topic: %s", event.Topic)
	}
	switch event.EventType {
	case events.EventTypeLeaveApproved, events.EventTypeLeaveRejected:
	default:
		return fmt.Errorf("unknown outbox event type: %s", event.EventType)
	}
	if len(event.Payload) == 0 {
		return fmt.Errorf("outbox payload is required")
	}
	if event.Status != OutboxStatusPending {
		return fmt.Errorf("outbox events are staged as %s, got: %s", OutboxStatusPending, event.Status)
	}
	return nil
}
