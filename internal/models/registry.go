package models

// Account is a row of the chart_of_accounts table.
type Account struct {
	AccountID   string  `db:"account_id" gorm:"primaryKey"`
	TenantID    string  `db:"tenant_id" gorm:"not null;uniqueIndex:ux_coa_tenant_code"`
	Code        string  `db:"code" gorm:"not null;uniqueIndex:ux_coa_tenant_code"`
	Name        string  `db:"name" gorm:"not null"`
	AccountType string  `db:"account_type" gorm:"not null"`
	ParentID    *string `db:"parent_id" gorm:"index"`
	IsActive    bool    `db:"is_active" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (Account) TableName() string { return "chart_of_accounts" }

// CostCenter is a row of the cost_centers table.
type CostCenter struct {
	CostCenterID string `db:"cost_center_id" gorm:"primaryKey"`
	TenantID     string `db:"tenant_id" gorm:"not null;uniqueIndex:ux_cc_tenant_code"`
	Code         string `db:"code" gorm:"not null;uniqueIndex:ux_cc_tenant_code"`
	Name         string `db:"name" gorm:"not null"`
	IsActive     bool   `db:"is_active" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (CostCenter) TableName() string { return "cost_centers" }
