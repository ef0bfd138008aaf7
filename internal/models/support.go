package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax is a row of the taxes table consumed by the tax-definition provider.
type Tax struct {
	TaxID    string           `db:"tax_id" gorm:"primaryKey"`
	TenantID string           `db:"tenant_id" gorm:"not null;index"`
	Name     string           `db:"name" gorm:"not null"`
	TaxType  string           `db:"tax_type" gorm:"not null"`
	Rate     *decimal.Decimal `db:"rate" gorm:"type:numeric(10,4)"`
	Amount   *decimal.Decimal `db:"amount" gorm:"type:numeric(12,2)"`
	IsActive bool             `db:"is_active" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (Tax) TableName() string { return "taxes" }

// ItemTax links a catalog item to the taxes applied to it.
type ItemTax struct {
	TenantID string `db:"tenant_id" gorm:"primaryKey"`
	ItemID   string `db:"item_id" gorm:"primaryKey"`
	TaxID    string `db:"tax_id" gorm:"primaryKey"`
}

// TableName specifies the table name for GORM
func (ItemTax) TableName() string { return "item_taxes" }

// NumberSetting is a row of the document_number_settings table.
type NumberSetting struct {
	TenantID       string  `db:"tenant_id" gorm:"primaryKey"`
	DocumentKey    string  `db:"document_key" gorm:"primaryKey"`
	Prefix         string  `db:"prefix" gorm:"not null"`
	PaddingLength  int     `db:"padding_length" gorm:"not null"`
	IncludePeriod  bool    `db:"include_period" gorm:"not null"`
	PeriodFormat   string  `db:"period_format" gorm:"not null"`
	CurrentCounter int64   `db:"current_counter" gorm:"not null"`
	LastPeriod     *string `db:"last_period"`
	AuditFields
}

// TableName specifies the table name for GORM
func (NumberSetting) TableName() string { return "document_number_settings" }

// OutboxEvent is a row of the outbox_events table.
type OutboxEvent struct {
	EventID       string     `db:"event_id" gorm:"primaryKey"`
	TenantID      string     `db:"tenant_id" gorm:"not null;index"`
	DocumentID    string     `db:"document_id" gorm:"not null;uniqueIndex:ux_outbox_version"`
	EventKey      string     `db:"event_key" gorm:"not null;uniqueIndex:ux_outbox_version"`
	EventVersion  int        `db:"event_version" gorm:"not null;uniqueIndex:ux_outbox_version"`
	Payload       JSONMap    `db:"payload" gorm:"type:jsonb"`
	Status        string     `db:"status" gorm:"not null;index"`
	Attempts      int        `db:"attempts" gorm:"not null"`
	LastError     *string    `db:"last_error"`
	NextAttemptAt *time.Time `db:"next_attempt_at"`
	ProcessedAt   *time.Time `db:"processed_at"`
	AuditFields
}

// TableName specifies the table name for GORM
func (OutboxEvent) TableName() string { return "outbox_events" }

// Tag is a row of the tags table.
type Tag struct {
	TagID          string     `db:"tag_id" gorm:"primaryKey"`
	TenantID       string     `db:"tenant_id" gorm:"not null;uniqueIndex:ux_tags_name"`
	Name           string     `db:"name" gorm:"not null"`
	NameNormalized string     `db:"name_normalized" gorm:"not null;uniqueIndex:ux_tags_name"`
	UsageCount     int        `db:"usage_count" gorm:"not null"`
	LastUsedAt     *time.Time `db:"last_used_at"`
	IsActive       bool       `db:"is_active" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (Tag) TableName() string { return "tags" }

// TagLink is a row of the tag_links table.
type TagLink struct {
	TagID        string    `db:"tag_id" gorm:"primaryKey"`
	TenantID     string    `db:"tenant_id" gorm:"not null;index"`
	ResourceType string    `db:"resource_type" gorm:"primaryKey"`
	ResourceID   string    `db:"resource_id" gorm:"primaryKey"`
	CreatedAt    time.Time `db:"created_at" gorm:"not null"`
	CreatedBy    string    `db:"created_by" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TagLink) TableName() string { return "tag_links" }

// Attachment is a row of the document_attachments table.
type Attachment struct {
	AttachmentID string `db:"attachment_id" gorm:"primaryKey"`
	TenantID     string `db:"tenant_id" gorm:"not null"`
	DocumentID   string `db:"document_id" gorm:"not null;index"`
	FileName     string `db:"file_name" gorm:"not null"`
	MimeType     string `db:"mime_type" gorm:"not null"`
	SizeBytes    int64  `db:"size_bytes" gorm:"not null"`
	StorageKey   string `db:"storage_key" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (Attachment) TableName() string { return "document_attachments" }

// IntegrationToken is a row of the integration_tokens table.
type IntegrationToken struct {
	TokenID    string     `db:"token_id" gorm:"primaryKey"`
	TenantID   string     `db:"tenant_id" gorm:"not null;index"`
	Name       string     `db:"name" gorm:"not null"`
	TokenHash  string     `db:"token_hash" gorm:"not null"`
	LastUsedAt *time.Time `db:"last_used_at"`
	ExpiresAt  *time.Time `db:"expires_at"`
	AuditFields
}

// TableName specifies the table name for GORM
func (IntegrationToken) TableName() string { return "integration_tokens" }

// All lists every persisted model, in dependency order, for schema creation.
func All() []any {
	return []any{
		&Tenant{}, &TenantMember{},
		&Account{}, &CostCenter{},
		&Tax{}, &ItemTax{},
		&Document{}, &DocumentItem{}, &DocumentTaxLine{}, &DocumentAccountLine{},
		&DocumentStatusHistory{}, &DocumentApproval{},
		&NumberSetting{}, &OutboxEvent{},
		&Tag{}, &TagLink{}, &Attachment{}, &IntegrationToken{},
	}
}
