package models

import "time"

// Tenant is a row of the tenants table.
type Tenant struct {
	TenantID    string `db:"tenant_id" gorm:"primaryKey"`
	Name        string `db:"name" gorm:"not null"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (Tenant) TableName() string { return "tenants" }

// TenantMember is a row of the tenant_members table.
type TenantMember struct {
	TenantID      string     `db:"tenant_id" gorm:"primaryKey"`
	UserID        string     `db:"user_id" gorm:"primaryKey"`
	Role          string     `db:"role" gorm:"not null"`
	AccessRoleIDs StringList `db:"access_role_ids" gorm:"column:access_role_ids;type:jsonb;not null"`
	JoinedAt      time.Time  `db:"joined_at" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TenantMember) TableName() string { return "tenant_members" }
