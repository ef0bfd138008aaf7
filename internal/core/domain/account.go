package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether the account type is one of the closed set.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// ChartOfAccount is a tenant-scoped ledger account. Accounts form a tree through ParentID
// and are deactivated rather than deleted.
type ChartOfAccount struct {
	AccountID   string      `json:"accountID"`          // Primary Key (UUID)
	TenantID    string      `json:"tenantID"`           // FK -> tenants.tenant_id
	Code        string      `json:"code"`               // Unique per tenant
	Name        string      `json:"name"`               // Display name
	AccountType AccountType `json:"accountType"`        // ASSET, LIABILITY, etc.
	ParentID    *string     `json:"parentID,omitempty"` // Self-referencing FK, same tenant
	IsActive    bool        `json:"isActive"`
	AuditFields
}
