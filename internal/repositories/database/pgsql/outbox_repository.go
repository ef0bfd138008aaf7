package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const outboxColumns = `event_id, tenant_id, document_id, event_key, event_version, payload, status, attempts,
	last_error, next_attempt_at, processed_at, created_at, created_by, last_updated_at, last_updated_by,
	deleted_at, deleted_by`

type PgxOutboxRepository struct {
	pool *pgxpool.Pool
}

func newPgxOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepository {
	return &PgxOutboxRepository{pool: pool}
}

var _ portsrepo.OutboxRepository = (*PgxOutboxRepository)(nil)

func (r *PgxOutboxRepository) FindEvent(ctx context.Context, tenantID, eventID string) (*domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+outboxColumns+` FROM outbox_events
		WHERE tenant_id = $1 AND event_id = $2 AND deleted_at IS NULL;`, tenantID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox event %s: %w", eventID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.OutboxEvent])
	if err != nil {
		return nil, translateReadError(err, "outbox event "+eventID)
	}
	d := mapping.ToDomainOutboxEvent(m)
	return &d, nil
}

// ListPending returns PENDING events and FAILED events due at or before now, oldest first.
func (r *PgxOutboxRepository) ListPending(ctx context.Context, tenantID string, now time.Time, limit int) ([]domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+outboxColumns+` FROM outbox_events
		WHERE tenant_id = $1 AND deleted_at IS NULL
		AND (status = 'PENDING' OR (status = 'FAILED' AND (next_attempt_at IS NULL OR next_attempt_at <= $2)))
		ORDER BY created_at, event_id
		LIMIT $3;`, tenantID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending outbox events: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.OutboxEvent])
	if err != nil {
		return nil, fmt.Errorf("failed to scan outbox events: %w", err)
	}
	out := make([]domain.OutboxEvent, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainOutboxEvent(m))
	}
	return out, nil
}

// UpdateEvent stores the delivery fields of an event.
func (r *PgxOutboxRepository) UpdateEvent(ctx context.Context, event domain.OutboxEvent) error {
	m := mapping.ToModelOutboxEvent(event)
	tag, err := r.pool.Exec(ctx, `UPDATE outbox_events
		SET status = $3, attempts = $4, last_error = $5, next_attempt_at = $6, processed_at = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE tenant_id = $1 AND event_id = $2 AND deleted_at IS NULL;`,
		m.TenantID, m.EventID, m.Status, m.Attempts, m.LastError, m.NextAttemptAt, m.ProcessedAt,
		m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update outbox event %s: %w", m.EventID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
