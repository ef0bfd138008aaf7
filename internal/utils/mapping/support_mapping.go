package mapping

import (
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/models"
)

// ToDomainTaxDefinition converts a tax row to the provider view
func ToDomainTaxDefinition(m models.Tax) domain.TaxDefinition {
	return domain.TaxDefinition{
		TaxID:  m.TaxID,
		Name:   m.Name,
		Type:   domain.TaxType(m.TaxType),
		Rate:   m.Rate,
		Amount: m.Amount,
	}
}

// ToModelNumberSetting converts a domain NumberSetting to a model row
func ToModelNumberSetting(d domain.NumberSetting) models.NumberSetting {
	return models.NumberSetting{
		TenantID:       d.TenantID,
		DocumentKey:    d.DocumentKey,
		Prefix:         d.Prefix,
		PaddingLength:  d.PaddingLength,
		IncludePeriod:  d.IncludePeriod,
		PeriodFormat:   d.PeriodFormat,
		CurrentCounter: d.CurrentCounter,
		LastPeriod:     d.LastPeriod,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainNumberSetting converts a model row to a domain NumberSetting
func ToDomainNumberSetting(m models.NumberSetting) domain.NumberSetting {
	return domain.NumberSetting{
		TenantID:       m.TenantID,
		DocumentKey:    m.DocumentKey,
		Prefix:         m.Prefix,
		PaddingLength:  m.PaddingLength,
		IncludePeriod:  m.IncludePeriod,
		PeriodFormat:   m.PeriodFormat,
		CurrentCounter: m.CurrentCounter,
		LastPeriod:     m.LastPeriod,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelOutboxEvent converts a domain OutboxEvent to a model row
func ToModelOutboxEvent(d domain.OutboxEvent) models.OutboxEvent {
	return models.OutboxEvent{
		EventID:       d.EventID,
		TenantID:      d.TenantID,
		DocumentID:    d.DocumentID,
		EventKey:      d.EventKey,
		EventVersion:  d.EventVersion,
		Payload:       models.JSONMap(d.Payload),
		Status:        string(d.Status),
		Attempts:      d.Attempts,
		LastError:     d.LastError,
		NextAttemptAt: d.NextAttemptAt,
		ProcessedAt:   d.ProcessedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOutboxEvent converts a model row to a domain OutboxEvent
func ToDomainOutboxEvent(m models.OutboxEvent) domain.OutboxEvent {
	return domain.OutboxEvent{
		EventID:       m.EventID,
		TenantID:      m.TenantID,
		DocumentID:    m.DocumentID,
		EventKey:      m.EventKey,
		EventVersion:  m.EventVersion,
		Payload:       map[string]any(m.Payload),
		Status:        domain.OutboxStatus(m.Status),
		Attempts:      m.Attempts,
		LastError:     m.LastError,
		NextAttemptAt: m.NextAttemptAt,
		ProcessedAt:   m.ProcessedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTag converts a domain Tag to a model row
func ToModelTag(d domain.Tag) models.Tag {
	return models.Tag{
		TagID:          d.TagID,
		TenantID:       d.TenantID,
		Name:           d.Name,
		NameNormalized: d.NameNormalized,
		UsageCount:     d.UsageCount,
		LastUsedAt:     d.LastUsedAt,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTag converts a model row to a domain Tag
func ToDomainTag(m models.Tag) domain.Tag {
	return domain.Tag{
		TagID:          m.TagID,
		TenantID:       m.TenantID,
		Name:           m.Name,
		NameNormalized: m.NameNormalized,
		UsageCount:     m.UsageCount,
		LastUsedAt:     m.LastUsedAt,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTagSlice converts a slice of tag rows
func ToDomainTagSlice(ms []models.Tag) []domain.Tag {
	ds := make([]domain.Tag, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTag(m)
	}
	return ds
}

// ToModelAttachment converts a domain Attachment to a model row
func ToModelAttachment(d domain.Attachment) models.Attachment {
	return models.Attachment{
		AttachmentID: d.AttachmentID,
		TenantID:     d.TenantID,
		DocumentID:   d.DocumentID,
		FileName:     d.FileName,
		MimeType:     d.MimeType,
		SizeBytes:    d.SizeBytes,
		StorageKey:   d.StorageKey,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAttachment converts a model row to a domain Attachment
func ToDomainAttachment(m models.Attachment) domain.Attachment {
	return domain.Attachment{
		AttachmentID: m.AttachmentID,
		TenantID:     m.TenantID,
		DocumentID:   m.DocumentID,
		FileName:     m.FileName,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		StorageKey:   m.StorageKey,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelIntegrationToken converts a domain IntegrationToken to a model row
func ToModelIntegrationToken(d domain.IntegrationToken) models.IntegrationToken {
	return models.IntegrationToken{
		TokenID:     d.TokenID,
		TenantID:    d.TenantID,
		Name:        d.Name,
		TokenHash:   d.TokenHash,
		LastUsedAt:  d.LastUsedAt,
		ExpiresAt:   d.ExpiresAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainIntegrationToken converts a model row to a domain IntegrationToken
func ToDomainIntegrationToken(m models.IntegrationToken) domain.IntegrationToken {
	return domain.IntegrationToken{
		TokenID:     m.TokenID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		TokenHash:   m.TokenHash,
		LastUsedAt:  m.LastUsedAt,
		ExpiresAt:   m.ExpiresAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
