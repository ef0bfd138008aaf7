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

const accountColumns = `account_id, tenant_id, code, name, account_type, parent_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for chart of accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chart_of_accounts (account_id, tenant_id, code, name, account_type, parent_id, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		m.AccountID, m.TenantID, m.Code, m.Name, m.AccountType, m.ParentID, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("account with code %s", m.Code))
	}
	return nil
}

// UpdateAccount updates the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	tag, err := r.pool.Exec(ctx, `
		UPDATE chart_of_accounts
		SET code = $3, name = $4, account_type = $5, parent_id = $6, is_active = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE tenant_id = $1 AND account_id = $2 AND deleted_at IS NULL;`,
		m.TenantID, m.AccountID, m.Code, m.Name, m.AccountType, m.ParentID, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("account with code %s", m.Code))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountByID retrieves an account of the tenant.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+` FROM chart_of_accounts
		WHERE tenant_id = $1 AND account_id = $2 AND deleted_at IS NULL;`, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account %s: %w", accountID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateReadError(err, "account "+accountID)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountsByIDs retrieves multiple accounts of the tenant keyed by id.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.ChartOfAccount{}, nil
	}
	accounts, err := r.queryAccounts(ctx, `
		SELECT `+accountColumns+` FROM chart_of_accounts
		WHERE tenant_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL;`, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ChartOfAccount, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

// FindAccountsByCodes retrieves accounts of the tenant keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error) {
	if len(codes) == 0 {
		return map[string]domain.ChartOfAccount{}, nil
	}
	accounts, err := r.queryAccounts(ctx, `
		SELECT `+accountColumns+` FROM chart_of_accounts
		WHERE tenant_id = $1 AND code = ANY($2) AND deleted_at IS NULL;`, tenantID, codes)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ChartOfAccount, len(accounts))
	for _, a := range accounts {
		out[a.Code] = a
	}
	return out, nil
}

// ListAccounts retrieves the chart of accounts of a tenant ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.ChartOfAccount, error) {
	return r.queryAccounts(ctx, `
		SELECT `+accountColumns+` FROM chart_of_accounts
		WHERE tenant_id = $1 AND deleted_at IS NULL AND (is_active OR $2)
		ORDER BY code;`, tenantID, includeInactive)
}

// CountAccountUsage returns the number of account lines referencing the account.
func (r *PgxAccountRepository) CountAccountUsage(ctx context.Context, tenantID, accountID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM document_account_lines
		WHERE tenant_id = $1 AND account_id = $2;`, tenantID, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage of account %s: %w", accountID, err)
	}
	return n, nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.ChartOfAccount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}
