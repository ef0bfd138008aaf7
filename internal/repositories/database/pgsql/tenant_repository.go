package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tenantColumns = `t.tenant_id, t.name, t.description, t.is_active,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.deleted_at, t.deleted_by`

const memberColumns = `tenant_id, user_id, role, access_role_ids, joined_at`

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenants and their members.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

// SaveTenant inserts a tenant and its owner in one transaction.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant, owner domain.TenantMember) error {
	m := mapping.ToModelTenant(tenant)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO tenants (tenant_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
			m.TenantID, m.Name, m.Description, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return translateWriteError(err, fmt.Sprintf("tenant %s", m.TenantID))
		}
		return upsertMember(ctx, tx, mapping.ToModelTenantMember(owner))
	})
}

// FindTenantByID retrieves a live tenant.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.tenant_id = $1 AND t.deleted_at IS NULL;`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant %s: %w", tenantID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Tenant])
	if err != nil {
		return nil, translateReadError(err, "tenant "+tenantID)
	}
	d := mapping.ToDomainTenant(m)
	return &d, nil
}

// ListTenantsByUserID returns the tenants the user is an active member of, ordered by name.
func (r *PgxTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN tenant_members m ON m.tenant_id = t.tenant_id
		WHERE m.user_id = $1 AND m.role <> $2 AND t.deleted_at IS NULL
		ORDER BY t.name;`, userID, string(domain.RoleRemoved))
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants for user %s: %w", userID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Tenant])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tenants: %w", err)
	}
	tenants := make([]domain.Tenant, 0, len(ms))
	for _, m := range ms {
		tenants = append(tenants, mapping.ToDomainTenant(m))
	}
	return tenants, nil
}

// SaveMember inserts or replaces a membership.
func (r *PgxTenantRepository) SaveMember(ctx context.Context, member domain.TenantMember) error {
	return upsertMember(ctx, r.Pool, mapping.ToModelTenantMember(member))
}

// FindMember retrieves the membership of a user in a tenant.
func (r *PgxTenantRepository) FindMember(ctx context.Context, tenantID, userID string) (*domain.TenantMember, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+memberColumns+` FROM tenant_members WHERE tenant_id = $1 AND user_id = $2;`, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TenantMember])
	if err != nil {
		return nil, translateReadError(err, "member "+userID)
	}
	d := mapping.ToDomainTenantMember(m)
	return &d, nil
}

// ListMembers retrieves all memberships of a tenant.
func (r *PgxTenantRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMember, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+memberColumns+` FROM tenant_members WHERE tenant_id = $1 ORDER BY joined_at;`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of tenant %s: %w", tenantID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TenantMember])
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	members := make([]domain.TenantMember, 0, len(ms))
	for _, m := range ms {
		members = append(members, mapping.ToDomainTenantMember(m))
	}
	return members, nil
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func upsertMember(ctx context.Context, db execer, m models.TenantMember) error {
	_, err := db.Exec(ctx, `
		INSERT INTO tenant_members (tenant_id, user_id, role, access_role_ids, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, user_id) DO UPDATE SET role = EXCLUDED.role, access_role_ids = EXCLUDED.access_role_ids;`,
		m.TenantID, m.UserID, m.Role, m.AccessRoleIDs, m.JoinedAt,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("member %s of tenant %s", m.UserID, m.TenantID))
	}
	return nil
}
