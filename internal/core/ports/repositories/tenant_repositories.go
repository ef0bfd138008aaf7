package repositories

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// TenantReader defines read operations for tenant data
type TenantReader interface {
	// FindTenantByID retrieves a specific tenant by its ID.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// ListTenantsByUserID retrieves all tenants a user is an active member of.
	ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error)
}

// TenantWriter defines write operations for tenant data
type TenantWriter interface {
	// SaveTenant persists a new tenant together with its first (admin) member.
	SaveTenant(ctx context.Context, tenant domain.Tenant, owner domain.TenantMember) error
}

// TenantMembershipManager defines operations for managing tenant memberships
type TenantMembershipManager interface {
	// SaveMember inserts or replaces a membership.
	SaveMember(ctx context.Context, member domain.TenantMember) error

	// FindMember retrieves the membership of a user in a tenant.
	FindMember(ctx context.Context, tenantID, userID string) (*domain.TenantMember, error)

	// ListMembers retrieves all memberships of a tenant.
	ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMember, error)
}

// TenantRepositoryFacade combines all tenant-related repository interfaces
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
	TenantMembershipManager
}
