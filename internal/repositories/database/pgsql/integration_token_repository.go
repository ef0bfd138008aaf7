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

const tokenColumns = `token_id, tenant_id, name, token_hash, last_used_at, expires_at,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

// PgxIntegrationTokenRepository implements the IntegrationTokenRepository interface using pgx
type PgxIntegrationTokenRepository struct {
	pool *pgxpool.Pool
}

// newPgxIntegrationTokenRepository creates a new PgxIntegrationTokenRepository
func newPgxIntegrationTokenRepository(pool *pgxpool.Pool) portsrepo.IntegrationTokenRepository {
	return &PgxIntegrationTokenRepository{pool: pool}
}

var _ portsrepo.IntegrationTokenRepository = (*PgxIntegrationTokenRepository)(nil)

// Create persists a new token
func (r *PgxIntegrationTokenRepository) Create(ctx context.Context, token domain.IntegrationToken) error {
	m := mapping.ToModelIntegrationToken(token)
	_, err := r.pool.Exec(ctx, `INSERT INTO integration_tokens (token_id, tenant_id, name, token_hash, expires_at,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.TokenID, m.TenantID, m.Name, m.TokenHash, m.ExpiresAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return translateWriteError(err, "integration token "+m.Name)
	}
	return nil
}

// FindByID retrieves a live token by its ID regardless of tenant
func (r *PgxIntegrationTokenRepository) FindByID(ctx context.Context, tokenID string) (*domain.IntegrationToken, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tokenColumns+` FROM integration_tokens
		WHERE token_id = $1 AND deleted_at IS NULL;`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query integration token: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.IntegrationToken])
	if err != nil {
		return nil, translateReadError(err, "integration token")
	}
	d := mapping.ToDomainIntegrationToken(m)
	return &d, nil
}

// ListByTenant retrieves all live tokens of a tenant
func (r *PgxIntegrationTokenRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.IntegrationToken, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tokenColumns+` FROM integration_tokens
		WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC;`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integration tokens: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.IntegrationToken])
	if err != nil {
		return nil, fmt.Errorf("failed to scan integration tokens: %w", err)
	}
	out := make([]domain.IntegrationToken, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainIntegrationToken(m))
	}
	return out, nil
}

// TouchLastUsed updates last_used_at
func (r *PgxIntegrationTokenRepository) TouchLastUsed(ctx context.Context, tokenID string, at time.Time) error {
	if _, err := r.pool.Exec(ctx, `UPDATE integration_tokens SET last_used_at = $2 WHERE token_id = $1;`, tokenID, at); err != nil {
		return fmt.Errorf("failed to touch integration token: %w", err)
	}
	return nil
}

// Revoke soft-deletes a token
func (r *PgxIntegrationTokenRepository) Revoke(ctx context.Context, tenantID, tokenID, userID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE integration_tokens
		SET deleted_at = $3, deleted_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND token_id = $2 AND deleted_at IS NULL;`, tenantID, tokenID, at, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke integration token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
