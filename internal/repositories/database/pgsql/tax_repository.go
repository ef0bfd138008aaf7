package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taxColumns = `t.tax_id, t.tenant_id, t.name, t.tax_type, t.rate, t.amount, t.is_active,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.deleted_at, t.deleted_by`

// PgxTaxRepository reads tax definitions for the tax provider.
type PgxTaxRepository struct {
	pool *pgxpool.Pool
}

func newPgxTaxRepository(pool *pgxpool.Pool) portsrepo.TaxDefinitionReader {
	return &PgxTaxRepository{pool: pool}
}

var _ portsrepo.TaxDefinitionReader = (*PgxTaxRepository)(nil)

// FindTaxesForItem returns the active taxes configured for a catalog item.
func (r *PgxTaxRepository) FindTaxesForItem(ctx context.Context, tenantID, itemID string) ([]domain.TaxDefinition, error) {
	ms, err := r.queryTaxes(ctx, `
		SELECT `+taxColumns+`
		FROM taxes t
		JOIN item_taxes it ON it.tax_id = t.tax_id AND it.tenant_id = t.tenant_id
		WHERE t.tenant_id = $1 AND it.item_id = $2 AND t.is_active AND t.deleted_at IS NULL
		ORDER BY t.name, t.tax_id;`, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TaxDefinition, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainTaxDefinition(m))
	}
	return out, nil
}

// FindTaxesByIDs returns the active taxes with the given ids in the order requested.
func (r *PgxTaxRepository) FindTaxesByIDs(ctx context.Context, tenantID string, taxIDs []string) ([]domain.TaxDefinition, error) {
	if len(taxIDs) == 0 {
		return nil, nil
	}
	ms, err := r.queryTaxes(ctx, `
		SELECT `+taxColumns+`
		FROM taxes t
		WHERE t.tenant_id = $1 AND t.tax_id = ANY($2) AND t.is_active AND t.deleted_at IS NULL;`, tenantID, taxIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Tax, len(ms))
	for _, m := range ms {
		byID[m.TaxID] = m
	}
	out := make([]domain.TaxDefinition, 0, len(ms))
	for _, id := range taxIDs {
		if m, ok := byID[id]; ok {
			out = append(out, mapping.ToDomainTaxDefinition(m))
		}
	}
	return out, nil
}

func (r *PgxTaxRepository) queryTaxes(ctx context.Context, query string, args ...any) ([]models.Tax, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxes: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Tax])
	if err != nil {
		return nil, fmt.Errorf("failed to scan taxes: %w", err)
	}
	return ms, nil
}
