package gormstore

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
)

// AccountRepository stores the chart of accounts.
type AccountRepository struct{ baseRepository }

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	return translateWriteError(r.conn(ctx).Create(&m).Error, "account with code "+m.Code)
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	res := r.conn(ctx).Model(&models.Account{}).
		Where("tenant_id = ? AND account_id = ? AND deleted_at IS NULL", m.TenantID, m.AccountID).
		Updates(map[string]any{
			"code":            m.Code,
			"name":            m.Name,
			"account_type":    m.AccountType,
			"parent_id":       m.ParentID,
			"is_active":       m.IsActive,
			"last_updated_at": m.LastUpdatedAt,
			"last_updated_by": m.LastUpdatedBy,
		})
	if res.Error != nil {
		return translateWriteError(res.Error, "account with code "+m.Code)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error) {
	var m models.Account
	err := r.conn(ctx).Where("tenant_id = ? AND account_id = ? AND deleted_at IS NULL", tenantID, accountID).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "account "+accountID)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *AccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	out := map[string]domain.ChartOfAccount{}
	if len(accountIDs) == 0 {
		return out, nil
	}
	var ms []models.Account
	if err := r.conn(ctx).Where("tenant_id = ? AND account_id IN ? AND deleted_at IS NULL", tenantID, accountIDs).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	for _, a := range mapping.ToDomainAccountSlice(ms) {
		out[a.AccountID] = a
	}
	return out, nil
}

func (r *AccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error) {
	out := map[string]domain.ChartOfAccount{}
	if len(codes) == 0 {
		return out, nil
	}
	var ms []models.Account
	if err := r.conn(ctx).Where("tenant_id = ? AND code IN ? AND deleted_at IS NULL", tenantID, codes).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	for _, a := range mapping.ToDomainAccountSlice(ms) {
		out[a.Code] = a
	}
	return out, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.ChartOfAccount, error) {
	q := r.conn(ctx).Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var ms []models.Account
	if err := q.Order("code").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *AccountRepository) CountAccountUsage(ctx context.Context, tenantID, accountID string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.DocumentAccountLine{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count usage of account %s: %w", accountID, err)
	}
	return n, nil
}

// CostCenterRepository stores cost centers.
type CostCenterRepository struct{ baseRepository }

var _ portsrepo.CostCenterRepositoryFacade = (*CostCenterRepository)(nil)

func (r *CostCenterRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) error {
	m := mapping.ToModelCostCenter(cc)
	return translateWriteError(r.conn(ctx).Create(&m).Error, "cost center with code "+m.Code)
}

func (r *CostCenterRepository) UpdateCostCenter(ctx context.Context, cc domain.CostCenter) error {
	m := mapping.ToModelCostCenter(cc)
	res := r.conn(ctx).Model(&models.CostCenter{}).
		Where("tenant_id = ? AND cost_center_id = ? AND deleted_at IS NULL", m.TenantID, m.CostCenterID).
		Updates(map[string]any{
			"code":            m.Code,
			"name":            m.Name,
			"is_active":       m.IsActive,
			"last_updated_at": m.LastUpdatedAt,
			"last_updated_by": m.LastUpdatedBy,
		})
	if res.Error != nil {
		return translateWriteError(res.Error, "cost center with code "+m.Code)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CostCenterRepository) FindCostCenterByID(ctx context.Context, tenantID, costCenterID string) (*domain.CostCenter, error) {
	var m models.CostCenter
	err := r.conn(ctx).Where("tenant_id = ? AND cost_center_id = ? AND deleted_at IS NULL", tenantID, costCenterID).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "cost center "+costCenterID)
	}
	d := mapping.ToDomainCostCenter(m)
	return &d, nil
}

func (r *CostCenterRepository) FindCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error) {
	out := map[string]domain.CostCenter{}
	if len(ids) == 0 {
		return out, nil
	}
	var ms []models.CostCenter
	if err := r.conn(ctx).Where("tenant_id = ? AND cost_center_id IN ? AND deleted_at IS NULL", tenantID, ids).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query cost centers: %w", err)
	}
	for _, cc := range mapping.ToDomainCostCenterSlice(ms) {
		out[cc.CostCenterID] = cc
	}
	return out, nil
}

func (r *CostCenterRepository) ListCostCenters(ctx context.Context, tenantID string, includeInactive bool) ([]domain.CostCenter, error) {
	q := r.conn(ctx).Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var ms []models.CostCenter
	if err := q.Order("code").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list cost centers: %w", err)
	}
	return mapping.ToDomainCostCenterSlice(ms), nil
}

func (r *CostCenterRepository) CountCostCenterUsage(ctx context.Context, tenantID, costCenterID string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.DocumentAccountLine{}).
		Where("tenant_id = ? AND cost_center_id = ?", tenantID, costCenterID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count usage of cost center %s: %w", costCenterID, err)
	}
	return n, nil
}

// TaxRepository reads tax definitions.
type TaxRepository struct{ baseRepository }

var _ portsrepo.TaxDefinitionReader = (*TaxRepository)(nil)

func (r *TaxRepository) FindTaxesForItem(ctx context.Context, tenantID, itemID string) ([]domain.TaxDefinition, error) {
	var ms []models.Tax
	err := r.conn(ctx).
		Joins("JOIN item_taxes it ON it.tax_id = taxes.tax_id AND it.tenant_id = taxes.tenant_id").
		Where("taxes.tenant_id = ? AND it.item_id = ? AND taxes.is_active = ? AND taxes.deleted_at IS NULL", tenantID, itemID, true).
		Order("taxes.name, taxes.tax_id").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query taxes for item %s: %w", itemID, err)
	}
	out := make([]domain.TaxDefinition, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainTaxDefinition(m))
	}
	return out, nil
}

func (r *TaxRepository) FindTaxesByIDs(ctx context.Context, tenantID string, taxIDs []string) ([]domain.TaxDefinition, error) {
	if len(taxIDs) == 0 {
		return nil, nil
	}
	var ms []models.Tax
	err := r.conn(ctx).
		Where("tenant_id = ? AND tax_id IN ? AND is_active = ? AND deleted_at IS NULL", tenantID, taxIDs, true).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query taxes: %w", err)
	}
	byID := make(map[string]models.Tax, len(ms))
	for _, m := range ms {
		byID[m.TaxID] = m
	}
	out := make([]domain.TaxDefinition, 0, len(ms))
	for _, id := range taxIDs {
		if m, ok := byID[id]; ok {
			out = append(out, mapping.ToDomainTaxDefinition(m))
		}
	}
	return out, nil
}
