package services

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/dto"
)

// TenantReaderSvc defines read operations for tenant data
type TenantReaderSvc interface {
	// ListUserTenants retrieves the tenants a user is an active member of.
	ListUserTenants(ctx context.Context, userID string) ([]domain.Tenant, error)

	// ListMembers retrieves all members of a tenant. Only members may call it.
	ListMembers(ctx context.Context, tenantID, requestingUserID string) ([]domain.TenantMember, error)
}

// TenantWriterSvc defines write operations for tenant data
type TenantWriterSvc interface {
	// CreateTenant creates a tenant with the creator as its first admin.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// AddMember adds a user to a tenant. Only admins may call it.
	AddMember(ctx context.Context, tenantID, requestingUserID string, req dto.AddMemberRequest) (*domain.TenantMember, error)

	// UpdateMember changes a member's role or business roles. Only admins may call it.
	UpdateMember(ctx context.Context, tenantID, requestingUserID, targetUserID string, req dto.UpdateMemberRequest) (*domain.TenantMember, error)
}

// TenantAuthorizerSvc resolves a caller's membership and checks the required role.
type TenantAuthorizerSvc interface {
	// AuthorizeUserAction returns the membership when the user holds at least requiredRole.
	// Non-members get ErrNotFound so tenant existence is never confirmed; insufficient roles get ErrForbidden.
	AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) (*domain.TenantMember, error)
}

// PermissionChecker is the opaque allow/deny collaborator consulted by the lifecycle controller.
type PermissionChecker interface {
	CanApprove(ctx context.Context, tenantID, userID string) (bool, error)
	CanPost(ctx context.Context, tenantID, userID string) (bool, error)
}

// TenantSvcFacade combines all tenant-related service interfaces
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
	TenantAuthorizerSvc
	PermissionChecker
}
