package repositories

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// AccountReader defines read operations for chart of accounts data
type AccountReader interface {
	// FindAccountByID retrieves an account of the tenant.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error)

	// FindAccountsByIDs retrieves accounts of the tenant keyed by id. Missing ids are simply absent.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error)

	// FindAccountsByCodes retrieves accounts of the tenant keyed by code.
	FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error)

	// ListAccounts retrieves the chart of accounts of a tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.ChartOfAccount, error)

	// CountAccountUsage returns the number of account lines referencing the account.
	CountAccountUsage(ctx context.Context, tenantID, accountID string) (int64, error)
}

// AccountWriter defines write operations for chart of accounts data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.ChartOfAccount) error

	// UpdateAccount updates an existing account's details, including IsActive.
	UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// CostCenterReader defines read operations for cost center data
type CostCenterReader interface {
	FindCostCenterByID(ctx context.Context, tenantID, costCenterID string) (*domain.CostCenter, error)
	FindCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error)
	ListCostCenters(ctx context.Context, tenantID string, includeInactive bool) ([]domain.CostCenter, error)
	CountCostCenterUsage(ctx context.Context, tenantID, costCenterID string) (int64, error)
}

// CostCenterWriter defines write operations for cost center data
type CostCenterWriter interface {
	SaveCostCenter(ctx context.Context, cc domain.CostCenter) error
	UpdateCostCenter(ctx context.Context, cc domain.CostCenter) error
}

// CostCenterRepositoryFacade combines all cost-center-related repository interfaces
type CostCenterRepositoryFacade interface {
	CostCenterReader
	CostCenterWriter
}

// TaxDefinitionReader is the storage side of the tax-definition provider.
type TaxDefinitionReader interface {
	// FindTaxesForItem returns the active taxes configured for a catalog item.
	FindTaxesForItem(ctx context.Context, tenantID, itemID string) ([]domain.TaxDefinition, error)

	// FindTaxesByIDs returns the active taxes with the given ids, in the order requested.
	FindTaxesByIDs(ctx context.Context, tenantID string, taxIDs []string) ([]domain.TaxDefinition, error)
}
