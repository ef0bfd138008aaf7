package mapping

import (
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/models"
)

// ToModelAccount converts a domain ChartOfAccount to a model Account
func ToModelAccount(d domain.ChartOfAccount) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		TenantID:    d.TenantID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: string(d.AccountType),
		ParentID:    d.ParentID,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain ChartOfAccount
func ToDomainAccount(m models.Account) domain.ChartOfAccount {
	return domain.ChartOfAccount{
		AccountID:   m.AccountID,
		TenantID:    m.TenantID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		ParentID:    m.ParentID,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain accounts
func ToDomainAccountSlice(ms []models.Account) []domain.ChartOfAccount {
	ds := make([]domain.ChartOfAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelCostCenter converts a domain CostCenter to a model CostCenter
func ToModelCostCenter(d domain.CostCenter) models.CostCenter {
	return models.CostCenter{
		CostCenterID: d.CostCenterID,
		TenantID:     d.TenantID,
		Code:         d.Code,
		Name:         d.Name,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCostCenter converts a model CostCenter to a domain CostCenter
func ToDomainCostCenter(m models.CostCenter) domain.CostCenter {
	return domain.CostCenter{
		CostCenterID: m.CostCenterID,
		TenantID:     m.TenantID,
		Code:         m.Code,
		Name:         m.Name,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCostCenterSlice converts a slice of model cost centers
func ToDomainCostCenterSlice(ms []models.CostCenter) []domain.CostCenter {
	ds := make([]domain.CostCenter, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCostCenter(m)
	}
	return ds
}

// ToModelTenant converts a domain Tenant to a model Tenant
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:    d.TenantID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to a domain Tenant
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:    m.TenantID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTenantMember converts a domain TenantMember to a model TenantMember
func ToModelTenantMember(d domain.TenantMember) models.TenantMember {
	roles := models.StringList(d.AccessRoleIDs)
	if roles == nil {
		roles = models.StringList{}
	}
	return models.TenantMember{
		TenantID:      d.TenantID,
		UserID:        d.UserID,
		Role:          string(d.Role),
		AccessRoleIDs: roles,
		JoinedAt:      d.JoinedAt,
	}
}

// ToDomainTenantMember converts a model TenantMember to a domain TenantMember
func ToDomainTenantMember(m models.TenantMember) domain.TenantMember {
	roles := []string(m.AccessRoleIDs)
	if roles == nil {
		roles = []string{}
	}
	return domain.TenantMember{
		TenantID:      m.TenantID,
		UserID:        m.UserID,
		Role:          domain.TenantRole(m.Role),
		AccessRoleIDs: roles,
		JoinedAt:      m.JoinedAt,
	}
}
