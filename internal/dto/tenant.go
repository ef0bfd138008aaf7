package dto

import (
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// CreateTenantRequest defines the data needed to create a new tenant.
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID    string    `json:"tenantID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// AddMemberRequest adds a user to a tenant.
type AddMemberRequest struct {
	UserID        string            `json:"userID" binding:"required"`
	Role          domain.TenantRole `json:"role" binding:"required,oneof=ADMIN ACCOUNTANT MEMBER READONLY"`
	AccessRoleIDs []string          `json:"accessRoleIDs"`
}

// UpdateMemberRequest changes a member's role or business roles.
type UpdateMemberRequest struct {
	Role          *domain.TenantRole `json:"role" binding:"omitempty,oneof=ADMIN ACCOUNTANT MEMBER READONLY REMOVED"`
	AccessRoleIDs *[]string          `json:"accessRoleIDs"`
}

// MemberResponse defines the data returned for a tenant member.
type MemberResponse struct {
	TenantID      string            `json:"tenantID"`
	UserID        string            `json:"userID"`
	Role          domain.TenantRole `json:"role"`
	AccessRoleIDs []string          `json:"accessRoleIDs"`
	JoinedAt      time.Time         `json:"joinedAt"`
}

// ToTenantResponse converts a domain.Tenant to TenantResponse DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:    t.TenantID,
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

// ToListTenantResponse converts a slice of tenants.
func ToListTenantResponse(tenants []domain.Tenant) []TenantResponse {
	res := make([]TenantResponse, len(tenants))
	for i := range tenants {
		res[i] = ToTenantResponse(&tenants[i])
	}
	return res
}

// ToMemberResponse converts a domain.TenantMember to MemberResponse DTO.
func ToMemberResponse(m *domain.TenantMember) MemberResponse {
	return MemberResponse{
		TenantID:      m.TenantID,
		UserID:        m.UserID,
		Role:          m.Role,
		AccessRoleIDs: m.AccessRoleIDs,
		JoinedAt:      m.JoinedAt,
	}
}

// ToListMemberResponse converts a slice of members.
func ToListMemberResponse(members []domain.TenantMember) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i := range members {
		res[i] = ToMemberResponse(&members[i])
	}
	return res
}
