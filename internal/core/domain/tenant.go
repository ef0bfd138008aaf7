package domain

import "time"

// Tenant represents an isolated business (a gym or studio) owning all engine data.
type Tenant struct {
	TenantID    string `json:"tenantID"`    // Primary Key (e.g., UUID)
	Name        string `json:"name"`        // Display name of the business
	Description string `json:"description"` // Optional description
	IsActive    bool   `json:"isActive"`    // Indicates whether the tenant is active or disabled
	AuditFields
}

// TenantRole defines the possible roles a user can have within a tenant.
type TenantRole string

const (
	RoleAdmin      TenantRole = "ADMIN"
	RoleAccountant TenantRole = "ACCOUNTANT"
	RoleMember     TenantRole = "MEMBER"
	RoleReadOnly   TenantRole = "READONLY" // Read access to documents only
	RoleRemoved    TenantRole = "REMOVED"  // Former members keep their history but lose access
)

// IsValid reports whether the role is one of the closed set.
func (r TenantRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleMember, RoleReadOnly, RoleRemoved:
		return true
	}
	return false
}

var roleRank = map[TenantRole]int{
	RoleRemoved:    0,
	RoleReadOnly:   1,
	RoleMember:     2,
	RoleAccountant: 3,
	RoleAdmin:      4,
}

// Satisfies reports whether the role meets or exceeds the required role.
func (r TenantRole) Satisfies(required TenantRole) bool {
	if r == RoleRemoved {
		return false
	}
	return roleRank[r] >= roleRank[required]
}

// TenantMember represents the membership of a user in a tenant.
type TenantMember struct {
	TenantID      string     `json:"tenantID"`      // FK -> tenants.tenant_id
	UserID        string     `json:"userID"`        // Subject of the verified token
	Role          TenantRole `json:"role"`          // Role of the user in this tenant
	AccessRoleIDs []string   `json:"accessRoleIDs"` // Business roles used by ROLE-scoped documents
	JoinedAt      time.Time  `json:"joinedAt"`
}

// CanApprove reports whether the member may decide approval steps.
func (m *TenantMember) CanApprove() bool {
	return m.Role == RoleAdmin || m.Role == RoleAccountant
}

// CanPost reports whether the member may post documents to the ledger.
func (m *TenantMember) CanPost() bool {
	return m.Role == RoleAdmin || m.Role == RoleAccountant
}
