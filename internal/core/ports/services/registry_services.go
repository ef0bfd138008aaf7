package services

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/dto"
)

// AccountResolver looks up accounts for posting rules. It does not authorize a caller.
type AccountResolver interface {
	// ResolveByCodes returns the accounts of the tenant keyed by code.
	ResolveByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error)
	// ResolveByIDs returns the accounts of the tenant keyed by id.
	ResolveByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error)
}

// CostCenterResolver looks up cost centers referenced by account lines.
type CostCenterResolver interface {
	ResolveCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error)
}

// ChartOfAccountsSvc manages the tenant's ledger accounts.
type ChartOfAccountsSvc interface {
	AccountResolver
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.ChartOfAccount, error)
	UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.ChartOfAccount, error)
	DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error
	GetAccount(ctx context.Context, tenantID, accountID, userID string) (*domain.ChartOfAccount, error)
	ListAccounts(ctx context.Context, tenantID, userID string, includeInactive bool) ([]domain.ChartOfAccount, error)
}

// CostCenterSvc manages the tenant's cost centers.
type CostCenterSvc interface {
	CostCenterResolver
	CreateCostCenter(ctx context.Context, tenantID string, req dto.CreateCostCenterRequest, userID string) (*domain.CostCenter, error)
	UpdateCostCenter(ctx context.Context, tenantID, costCenterID string, req dto.UpdateCostCenterRequest, userID string) (*domain.CostCenter, error)
	DeactivateCostCenter(ctx context.Context, tenantID, costCenterID, userID string) error
	GetCostCenter(ctx context.Context, tenantID, costCenterID, userID string) (*domain.CostCenter, error)
	ListCostCenters(ctx context.Context, tenantID, userID string, includeInactive bool) ([]domain.CostCenter, error)
}

// TaxDefinitionProvider resolves the taxes applicable at computation time.
type TaxDefinitionProvider interface {
	ResolveTaxesFor(ctx context.Context, itemID, tenantID string) ([]domain.TaxDefinition, error)
	ResolveTaxesByIDs(ctx context.Context, taxIDs []string, tenantID string) ([]domain.TaxDefinition, error)
}
