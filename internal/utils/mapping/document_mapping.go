package mapping

import (
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/models"
)

// ToModelDocument converts a domain Document header to a model Document.
// Items and lines are mapped separately.
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:          d.DocumentID,
		TenantID:            d.TenantID,
		Module:              string(d.Module),
		DocumentKey:         d.DocumentKey,
		Number:              d.Number,
		Status:              string(d.Status),
		AccessScope:         string(d.AccessScope),
		AccessRoleID:        d.AccessRoleID,
		AccessUserID:        d.AccessUserID,
		DocumentDate:        d.DocumentDate,
		DueDate:             d.DueDate,
		PostingDate:         d.PostingDate,
		CurrencyCode:        d.CurrencyCode,
		ExchangeRate:        d.ExchangeRate,
		PersonID:            d.PersonID,
		PersonName:          d.PersonName,
		Subtotal:            d.Subtotal,
		DiscountTotal:       d.DiscountTotal,
		TaxTotal:            d.TaxTotal,
		Total:               d.Total,
		Metadata:            models.JSONMap(d.Metadata),
		Notes:               d.Notes,
		SubmittedAt:         d.SubmittedAt,
		ApprovedAt:          d.ApprovedAt,
		PostedAt:            d.PostedAt,
		CancelledAt:         d.CancelledAt,
		RejectedAt:          d.RejectedAt,
		RevisionRequestedAt: d.RevisionRequestedAt,
		Version:             d.Version,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document header.
func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:          m.DocumentID,
		TenantID:            m.TenantID,
		Module:              domain.Module(m.Module),
		DocumentKey:         m.DocumentKey,
		Number:              m.Number,
		Status:              domain.DocumentStatus(m.Status),
		AccessScope:         domain.AccessScope(m.AccessScope),
		AccessRoleID:        m.AccessRoleID,
		AccessUserID:        m.AccessUserID,
		DocumentDate:        m.DocumentDate,
		DueDate:             m.DueDate,
		PostingDate:         m.PostingDate,
		CurrencyCode:        m.CurrencyCode,
		ExchangeRate:        m.ExchangeRate,
		PersonID:            m.PersonID,
		PersonName:          m.PersonName,
		Subtotal:            m.Subtotal,
		DiscountTotal:       m.DiscountTotal,
		TaxTotal:            m.TaxTotal,
		Total:               m.Total,
		Metadata:            map[string]any(m.Metadata),
		Notes:               m.Notes,
		SubmittedAt:         m.SubmittedAt,
		ApprovedAt:          m.ApprovedAt,
		PostedAt:            m.PostedAt,
		CancelledAt:         m.CancelledAt,
		RejectedAt:          m.RejectedAt,
		RevisionRequestedAt: m.RevisionRequestedAt,
		Version:             m.Version,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentItem converts a domain DocumentItem to a model DocumentItem
func ToModelDocumentItem(d domain.DocumentItem) models.DocumentItem {
	return models.DocumentItem{
		DocumentItemID: d.DocumentItemID,
		DocumentID:     d.DocumentID,
		ItemID:         d.ItemID,
		ItemName:       d.ItemName,
		ItemType:       d.ItemType,
		Description:    d.Description,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
		DiscountAmount: d.DiscountAmount,
		TaxAmount:      d.TaxAmount,
		LineTotal:      d.LineTotal,
		Dimensions:     models.JSONMap(d.Dimensions),
		Metadata:       models.JSONMap(d.Metadata),
		SortOrder:      d.SortOrder,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocumentItem converts a model DocumentItem to a domain DocumentItem
func ToDomainDocumentItem(m models.DocumentItem) domain.DocumentItem {
	return domain.DocumentItem{
		DocumentItemID: m.DocumentItemID,
		DocumentID:     m.DocumentID,
		ItemID:         m.ItemID,
		ItemName:       m.ItemName,
		ItemType:       m.ItemType,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		LineTotal:      m.LineTotal,
		Dimensions:     map[string]any(m.Dimensions),
		Metadata:       map[string]any(m.Metadata),
		SortOrder:      m.SortOrder,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentTaxLine converts a domain DocumentTaxLine to a model DocumentTaxLine
func ToModelDocumentTaxLine(d domain.DocumentTaxLine) models.DocumentTaxLine {
	return models.DocumentTaxLine{
		TaxLineID:      d.TaxLineID,
		TenantID:       d.TenantID,
		DocumentID:     d.DocumentID,
		DocumentItemID: d.DocumentItemID,
		TaxID:          d.TaxID,
		TaxName:        d.TaxName,
		TaxType:        string(d.TaxType),
		TaxRate:        d.TaxRate,
		TaxAmount:      d.TaxAmount,
		TaxableBase:    d.TaxableBase,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocumentTaxLine converts a model DocumentTaxLine to a domain DocumentTaxLine
func ToDomainDocumentTaxLine(m models.DocumentTaxLine) domain.DocumentTaxLine {
	return domain.DocumentTaxLine{
		TaxLineID:      m.TaxLineID,
		TenantID:       m.TenantID,
		DocumentID:     m.DocumentID,
		DocumentItemID: m.DocumentItemID,
		TaxID:          m.TaxID,
		TaxName:        m.TaxName,
		TaxType:        domain.TaxType(m.TaxType),
		TaxRate:        m.TaxRate,
		TaxAmount:      m.TaxAmount,
		TaxableBase:    m.TaxableBase,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentAccountLine converts a domain DocumentAccountLine to a model DocumentAccountLine
func ToModelDocumentAccountLine(d domain.DocumentAccountLine) models.DocumentAccountLine {
	return models.DocumentAccountLine{
		AccountLineID: d.AccountLineID,
		TenantID:      d.TenantID,
		DocumentID:    d.DocumentID,
		AccountID:     d.AccountID,
		Description:   d.Description,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		CostCenterID:  d.CostCenterID,
		Metadata:      models.JSONMap(d.Metadata),
		SortOrder:     d.SortOrder,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocumentAccountLine converts a model DocumentAccountLine to a domain DocumentAccountLine
func ToDomainDocumentAccountLine(m models.DocumentAccountLine) domain.DocumentAccountLine {
	return domain.DocumentAccountLine{
		AccountLineID: m.AccountLineID,
		TenantID:      m.TenantID,
		DocumentID:    m.DocumentID,
		AccountID:     m.AccountID,
		Description:   m.Description,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		CostCenterID:  m.CostCenterID,
		Metadata:      map[string]any(m.Metadata),
		SortOrder:     m.SortOrder,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStatusHistory converts a domain StatusHistory to a model row
func ToModelStatusHistory(d domain.StatusHistory) models.DocumentStatusHistory {
	return models.DocumentStatusHistory{
		HistoryID:  d.HistoryID,
		DocumentID: d.DocumentID,
		FromStatus: string(d.FromStatus),
		ToStatus:   string(d.ToStatus),
		ChangedBy:  d.ChangedBy,
		Reason:     d.Reason,
		ChangedAt:  d.ChangedAt,
	}
}

// ToDomainStatusHistory converts a model row to a domain StatusHistory
func ToDomainStatusHistory(m models.DocumentStatusHistory) domain.StatusHistory {
	return domain.StatusHistory{
		HistoryID:  m.HistoryID,
		DocumentID: m.DocumentID,
		FromStatus: domain.DocumentStatus(m.FromStatus),
		ToStatus:   domain.DocumentStatus(m.ToStatus),
		ChangedBy:  m.ChangedBy,
		Reason:     m.Reason,
		ChangedAt:  m.ChangedAt,
	}
}

// ToModelApproval converts a domain DocumentApproval to a model row
func ToModelApproval(d domain.DocumentApproval) models.DocumentApproval {
	return models.DocumentApproval{
		ApprovalID:  d.ApprovalID,
		DocumentID:  d.DocumentID,
		StepIndex:   d.StepIndex,
		Status:      string(d.Status),
		RequestedBy: d.RequestedBy,
		DecidedBy:   d.DecidedBy,
		DecidedAt:   d.DecidedAt,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainApproval converts a model row to a domain DocumentApproval
func ToDomainApproval(m models.DocumentApproval) domain.DocumentApproval {
	return domain.DocumentApproval{
		ApprovalID:  m.ApprovalID,
		DocumentID:  m.DocumentID,
		StepIndex:   m.StepIndex,
		Status:      domain.ApprovalStatus(m.Status),
		RequestedBy: m.RequestedBy,
		DecidedBy:   m.DecidedBy,
		DecidedAt:   m.DecidedAt,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}
