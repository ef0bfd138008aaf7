package gormstore

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantRepository stores tenants and memberships.
type TenantRepository struct{ baseRepository }

var _ portsrepo.TenantRepositoryFacade = (*TenantRepository)(nil)

func (r *TenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant, owner domain.TenantMember) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		m := mapping.ToModelTenant(tenant)
		if err := tx.Create(&m).Error; err != nil {
			return translateWriteError(err, "tenant "+m.TenantID)
		}
		return upsertMember(tx, mapping.ToModelTenantMember(owner))
	})
}

func (r *TenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	var m models.Tenant
	err := r.conn(ctx).Where("tenant_id = ? AND deleted_at IS NULL", tenantID).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "tenant "+tenantID)
	}
	d := mapping.ToDomainTenant(m)
	return &d, nil
}

func (r *TenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	var ms []models.Tenant
	err := r.conn(ctx).
		Joins("JOIN tenant_members m ON m.tenant_id = tenants.tenant_id").
		Where("m.user_id = ? AND m.role <> ? AND tenants.deleted_at IS NULL", userID, string(domain.RoleRemoved)).
		Order("tenants.name").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants for user %s: %w", userID, err)
	}
	out := make([]domain.Tenant, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainTenant(m))
	}
	return out, nil
}

func (r *TenantRepository) SaveMember(ctx context.Context, member domain.TenantMember) error {
	return upsertMember(r.conn(ctx), mapping.ToModelTenantMember(member))
}

func (r *TenantRepository) FindMember(ctx context.Context, tenantID, userID string) (*domain.TenantMember, error) {
	var m models.TenantMember
	err := r.conn(ctx).Where("tenant_id = ? AND user_id = ?", tenantID, userID).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "member "+userID)
	}
	d := mapping.ToDomainTenantMember(m)
	return &d, nil
}

func (r *TenantRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMember, error) {
	var ms []models.TenantMember
	if err := r.conn(ctx).Where("tenant_id = ?", tenantID).Order("joined_at").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list members of tenant %s: %w", tenantID, err)
	}
	out := make([]domain.TenantMember, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainTenantMember(m))
	}
	return out, nil
}

func upsertMember(tx *gorm.DB, m models.TenantMember) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "access_role_ids"}),
	}).Create(&m).Error
	return translateWriteError(err, fmt.Sprintf("member %s of tenant %s", m.UserID, m.TenantID))
}
