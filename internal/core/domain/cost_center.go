package domain

// CostCenter is a flat, tenant-scoped analytic dimension referenced by account lines.
type CostCenter struct {
	CostCenterID string `json:"costCenterID"`
	TenantID     string `json:"tenantID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
