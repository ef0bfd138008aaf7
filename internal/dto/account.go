package dto

import (
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new ledger account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required,max=32"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentID    *string            `json:"parentID"` // Optional, use pointer for nullability
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Code        *string `json:"code" binding:"omitempty,max=32"`
	Name        *string `json:"name"`
	ParentID    *string `json:"parentID"`
	ClearParent bool    `json:"clearParent"` // Detach from the current parent
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	ParentID      *string            `json:"parentID,omitempty"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// ToAccountResponse converts a domain.ChartOfAccount to AccountResponse DTO
func ToAccountResponse(acc *domain.ChartOfAccount) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		ParentID:      acc.ParentID,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of accounts to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.ChartOfAccount) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// CreateCostCenterRequest defines the data needed to create a cost center.
type CreateCostCenterRequest struct {
	Code string `json:"code" binding:"required,max=32"`
	Name string `json:"name" binding:"required"`
}

// UpdateCostCenterRequest defines the data allowed for updating a cost center.
type UpdateCostCenterRequest struct {
	Code *string `json:"code" binding:"omitempty,max=32"`
	Name *string `json:"name"`
}

// CostCenterResponse defines the data returned for a cost center.
type CostCenterResponse struct {
	CostCenterID string    `json:"costCenterID"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToCostCenterResponse converts a domain.CostCenter to CostCenterResponse DTO
func ToCostCenterResponse(cc *domain.CostCenter) CostCenterResponse {
	return CostCenterResponse{
		CostCenterID: cc.CostCenterID,
		Code:         cc.Code,
		Name:         cc.Name,
		IsActive:     cc.IsActive,
		CreatedAt:    cc.CreatedAt,
		CreatedBy:    cc.CreatedBy,
	}
}

// ToListCostCenterResponse converts a slice of cost centers
func ToListCostCenterResponse(ccs []domain.CostCenter) []CostCenterResponse {
	res := make([]CostCenterResponse, len(ccs))
	for i := range ccs {
		res[i] = ToCostCenterResponse(&ccs[i])
	}
	return res
}
