package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/google/uuid"
)

// tenantService implements the TenantSvcFacade interface
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
}

// NewTenantService creates a new tenant service with the provided dependencies
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo}
}

// Ensure tenantService implements the TenantSvcFacade interface
var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant creates a tenant and makes the creator its admin in one write.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("name", "tenant name is required")
	}

	now := s.CurrentTime()
	tenant := domain.Tenant{
		TenantID:    uuid.NewString(),
		Name:        name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	owner := domain.TenantMember{
		TenantID:      tenant.TenantID,
		UserID:        creatorUserID,
		Role:          domain.RoleAdmin,
		AccessRoleIDs: []string{},
		JoinedAt:      now,
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant, owner); err != nil {
		s.LogError(ctx, err, "Failed to save tenant", slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.LogInfo(ctx, "Tenant created successfully",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("creator_id", creatorUserID))
	return &tenant, nil
}

// ListUserTenants retrieves all tenants a user belongs to
func (s *tenantService) ListUserTenants(ctx context.Context, userID string) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenantsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for user", slog.String("user_id", userID))
		return nil, err
	}
	if tenants == nil {
		return []domain.Tenant{}, nil
	}
	return tenants, nil
}

// ListMembers retrieves the members of a tenant
func (s *tenantService) ListMembers(ctx context.Context, tenantID, requestingUserID string) ([]domain.TenantMember, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	members, err := s.tenantRepo.ListMembers(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenant members", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return members, nil
}

// AddMember adds a user to a tenant with a specific role
func (s *tenantService) AddMember(ctx context.Context, tenantID, requestingUserID string, req dto.AddMemberRequest) (*domain.TenantMember, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		s.LogDebug(ctx, "User not authorized to add members to tenant",
			slog.String("adding_user_id", requestingUserID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if !req.Role.IsValid() || req.Role == domain.RoleRemoved {
		return nil, apperrors.NewValidationFailedError("role", fmt.Sprintf("invalid role '%s'", req.Role))
	}

	existing, err := s.tenantRepo.FindMember(ctx, tenantID, req.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Role != domain.RoleRemoved {
		return nil, apperrors.NewDuplicateError("userID", req.UserID)
	}

	roles := req.AccessRoleIDs
	if roles == nil {
		roles = []string{}
	}
	member := domain.TenantMember{
		TenantID:      tenantID,
		UserID:        req.UserID,
		Role:          req.Role,
		AccessRoleIDs: roles,
		JoinedAt:      s.CurrentTime(),
	}
	if err := s.tenantRepo.SaveMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to add user to tenant",
			slog.String("target_user_id", req.UserID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "User added to tenant successfully",
		slog.String("target_user_id", req.UserID),
		slog.String("tenant_id", tenantID),
		slog.String("role", string(req.Role)))
	return &member, nil
}

// UpdateMember changes the role or business roles of a member.
func (s *tenantService) UpdateMember(ctx context.Context, tenantID, requestingUserID, targetUserID string, req dto.UpdateMemberRequest) (*domain.TenantMember, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	member, err := s.tenantRepo.FindMember(ctx, tenantID, targetUserID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, apperrors.NewValidationFailedError("role", fmt.Sprintf("invalid role '%s'", *req.Role))
		}
		if requestingUserID == targetUserID && *req.Role != domain.RoleAdmin {
			return nil, apperrors.NewValidationFailedError("role", "admins cannot demote themselves")
		}
		member.Role = *req.Role
	}
	if req.AccessRoleIDs != nil {
		member.AccessRoleIDs = *req.AccessRoleIDs
	}

	if err := s.tenantRepo.SaveMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update tenant member",
			slog.String("target_user_id", targetUserID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	return member, nil
}

// AuthorizeUserAction checks if a user has required permissions for a tenant
func (s *tenantService) AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) (*domain.TenantMember, error) {
	member, err := s.tenantRepo.FindMember(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of tenant",
				slog.String("user_id", userID),
				slog.String("tenant_id", tenantID))
			return nil, apperrors.NewNotFoundError("tenant", tenantID)
		}
		s.LogError(ctx, err, "Failed to find tenant membership",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if member.Role == domain.RoleRemoved {
		return nil, apperrors.NewNotFoundError("tenant", tenantID)
	}

	if !member.Role.Satisfies(requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID),
			slog.String("user_role", string(member.Role)),
			slog.String("required_role", string(requiredRole)))
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("role %s or higher required", requiredRole))
	}

	return member, nil
}

// CanApprove reports whether the user may decide approval steps in the tenant.
func (s *tenantService) CanApprove(ctx context.Context, tenantID, userID string) (bool, error) {
	member, err := s.AuthorizeUserAction(ctx, userID, tenantID, domain.RoleReadOnly)
	if err != nil {
		return false, err
	}
	return member.CanApprove(), nil
}

// CanPost reports whether the user may post documents in the tenant.
func (s *tenantService) CanPost(ctx context.Context, tenantID, userID string) (bool, error) {
	member, err := s.AuthorizeUserAction(ctx, userID, tenantID, domain.RoleReadOnly)
	if err != nil {
		return false, err
	}
	return member.CanPost(), nil
}
