package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const costCenterColumns = `cost_center_id, tenant_id, code, name, is_active,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

type PgxCostCenterRepository struct {
	pool *pgxpool.Pool
}

func newPgxCostCenterRepository(pool *pgxpool.Pool) portsrepo.CostCenterRepositoryFacade {
	return &PgxCostCenterRepository{pool: pool}
}

var _ portsrepo.CostCenterRepositoryFacade = (*PgxCostCenterRepository)(nil)

func (r *PgxCostCenterRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) error {
	m := mapping.ToModelCostCenter(cc)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cost_centers (cost_center_id, tenant_id, code, name, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.CostCenterID, m.TenantID, m.Code, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("cost center with code %s", m.Code))
	}
	return nil
}

func (r *PgxCostCenterRepository) UpdateCostCenter(ctx context.Context, cc domain.CostCenter) error {
	m := mapping.ToModelCostCenter(cc)
	tag, err := r.pool.Exec(ctx, `
		UPDATE cost_centers
		SET code = $3, name = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND cost_center_id = $2 AND deleted_at IS NULL;`,
		m.TenantID, m.CostCenterID, m.Code, m.Name, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("cost center with code %s", m.Code))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCostCenterRepository) FindCostCenterByID(ctx context.Context, tenantID, costCenterID string) (*domain.CostCenter, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+costCenterColumns+` FROM cost_centers
		WHERE tenant_id = $1 AND cost_center_id = $2 AND deleted_at IS NULL;`, tenantID, costCenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost center %s: %w", costCenterID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CostCenter])
	if err != nil {
		return nil, translateReadError(err, "cost center "+costCenterID)
	}
	d := mapping.ToDomainCostCenter(m)
	return &d, nil
}

func (r *PgxCostCenterRepository) FindCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error) {
	if len(ids) == 0 {
		return map[string]domain.CostCenter{}, nil
	}
	ccs, err := r.queryCostCenters(ctx, `
		SELECT `+costCenterColumns+` FROM cost_centers
		WHERE tenant_id = $1 AND cost_center_id = ANY($2) AND deleted_at IS NULL;`, tenantID, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.CostCenter, len(ccs))
	for _, cc := range ccs {
		out[cc.CostCenterID] = cc
	}
	return out, nil
}

func (r *PgxCostCenterRepository) ListCostCenters(ctx context.Context, tenantID string, includeInactive bool) ([]domain.CostCenter, error) {
	return r.queryCostCenters(ctx, `
		SELECT `+costCenterColumns+` FROM cost_centers
		WHERE tenant_id = $1 AND deleted_at IS NULL AND (is_active OR $2)
		ORDER BY code;`, tenantID, includeInactive)
}

func (r *PgxCostCenterRepository) CountCostCenterUsage(ctx context.Context, tenantID, costCenterID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM document_account_lines
		WHERE tenant_id = $1 AND cost_center_id = $2;`, tenantID, costCenterID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage of cost center %s: %w", costCenterID, err)
	}
	return n, nil
}

func (r *PgxCostCenterRepository) queryCostCenters(ctx context.Context, query string, args ...any) ([]domain.CostCenter, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost centers: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CostCenter])
	if err != nil {
		return nil, fmt.Errorf("failed to scan cost centers: %w", err)
	}
	return mapping.ToDomainCostCenterSlice(ms), nil
}
