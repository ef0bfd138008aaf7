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

const attachmentColumns = `attachment_id, tenant_id, document_id, file_name, mime_type, size_bytes, storage_key,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

type PgxAttachmentRepository struct {
	pool *pgxpool.Pool
}

func newPgxAttachmentRepository(pool *pgxpool.Pool) portsrepo.AttachmentRepository {
	return &PgxAttachmentRepository{pool: pool}
}

var _ portsrepo.AttachmentRepository = (*PgxAttachmentRepository)(nil)

func (r *PgxAttachmentRepository) SaveAttachment(ctx context.Context, a domain.Attachment) error {
	m := mapping.ToModelAttachment(a)
	_, err := r.pool.Exec(ctx, `INSERT INTO document_attachments (`+attachmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
		m.AttachmentID, m.TenantID, m.DocumentID, m.FileName, m.MimeType, m.SizeBytes, m.StorageKey,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.DeletedAt, m.DeletedBy)
	if err != nil {
		return translateWriteError(err, "attachment "+m.FileName)
	}
	return nil
}

func (r *PgxAttachmentRepository) FindAttachment(ctx context.Context, tenantID, attachmentID string) (*domain.Attachment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+attachmentColumns+` FROM document_attachments
		WHERE tenant_id = $1 AND attachment_id = $2 AND deleted_at IS NULL;`, tenantID, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment %s: %w", attachmentID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Attachment])
	if err != nil {
		return nil, translateReadError(err, "attachment "+attachmentID)
	}
	d := mapping.ToDomainAttachment(m)
	return &d, nil
}

func (r *PgxAttachmentRepository) ListAttachments(ctx context.Context, tenantID, documentID string) ([]domain.Attachment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+attachmentColumns+` FROM document_attachments
		WHERE tenant_id = $1 AND document_id = $2 AND deleted_at IS NULL
		ORDER BY created_at;`, tenantID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Attachment])
	if err != nil {
		return nil, fmt.Errorf("failed to scan attachments: %w", err)
	}
	out := make([]domain.Attachment, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainAttachment(m))
	}
	return out, nil
}

// SoftDeleteAttachment marks the attachment deleted.
func (r *PgxAttachmentRepository) SoftDeleteAttachment(ctx context.Context, tenantID, attachmentID, userID string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE document_attachments
		SET deleted_at = $3, deleted_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND attachment_id = $2 AND deleted_at IS NULL;`,
		tenantID, attachmentID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", attachmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
