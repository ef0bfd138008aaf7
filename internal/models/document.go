package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is a row of the documents table.
type Document struct {
	DocumentID          string          `db:"document_id" gorm:"primaryKey"`
	TenantID            string          `db:"tenant_id" gorm:"not null;uniqueIndex:ux_documents_number;index:ix_documents_list"`
	Module              string          `db:"module" gorm:"not null"`
	DocumentKey         string          `db:"document_key" gorm:"not null;uniqueIndex:ux_documents_number"`
	Number              string          `db:"number" gorm:"not null;uniqueIndex:ux_documents_number"`
	Status              string          `db:"status" gorm:"not null"`
	AccessScope         string          `db:"access_scope" gorm:"not null"`
	AccessRoleID        *string         `db:"access_role_id"`
	AccessUserID        *string         `db:"access_user_id"`
	DocumentDate        time.Time       `db:"document_date" gorm:"not null;index:ix_documents_list"`
	DueDate             *time.Time      `db:"due_date"`
	PostingDate         *time.Time      `db:"posting_date"`
	CurrencyCode        string          `db:"currency_code" gorm:"not null"`
	ExchangeRate        decimal.Decimal `db:"exchange_rate" gorm:"type:numeric(12,6);not null"`
	PersonID            *string         `db:"person_id"`
	PersonName          *string         `db:"person_name"`
	Subtotal            decimal.Decimal `db:"subtotal" gorm:"type:numeric(12,2);not null"`
	DiscountTotal       decimal.Decimal `db:"discount_total" gorm:"type:numeric(12,2);not null"`
	TaxTotal            decimal.Decimal `db:"tax_total" gorm:"type:numeric(12,2);not null"`
	Total               decimal.Decimal `db:"total" gorm:"type:numeric(12,2);not null"`
	Metadata            JSONMap         `db:"metadata" gorm:"type:jsonb"`
	Notes               string          `db:"notes"`
	SubmittedAt         *time.Time      `db:"submitted_at"`
	ApprovedAt          *time.Time      `db:"approved_at"`
	PostedAt            *time.Time      `db:"posted_at"`
	CancelledAt         *time.Time      `db:"cancelled_at"`
	RejectedAt          *time.Time      `db:"rejected_at"`
	RevisionRequestedAt *time.Time      `db:"revision_requested_at"`
	Version             int64           `db:"version" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (Document) TableName() string { return "documents" }

// DocumentItem is a row of the document_items table.
type DocumentItem struct {
	DocumentItemID string          `db:"document_item_id" gorm:"primaryKey"`
	DocumentID     string          `db:"document_id" gorm:"not null;index"`
	ItemID         string          `db:"item_id" gorm:"not null"`
	ItemName       string          `db:"item_name" gorm:"not null"`
	ItemType       string          `db:"item_type" gorm:"not null"`
	Description    *string         `db:"description"`
	Quantity       decimal.Decimal `db:"quantity" gorm:"type:numeric(12,4);not null"`
	UnitPrice      decimal.Decimal `db:"unit_price" gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `db:"discount_amount" gorm:"type:numeric(12,2);not null"`
	TaxAmount      decimal.Decimal `db:"tax_amount" gorm:"type:numeric(12,2);not null"`
	LineTotal      decimal.Decimal `db:"line_total" gorm:"type:numeric(12,2);not null"`
	Dimensions     JSONMap         `db:"dimensions" gorm:"type:jsonb"`
	Metadata       JSONMap         `db:"metadata" gorm:"type:jsonb"`
	SortOrder      int             `db:"sort_order" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (DocumentItem) TableName() string { return "document_items" }

// DocumentTaxLine is a row of the document_tax_lines table.
type DocumentTaxLine struct {
	TaxLineID      string           `db:"tax_line_id" gorm:"primaryKey"`
	TenantID       string           `db:"tenant_id" gorm:"not null"`
	DocumentID     string           `db:"document_id" gorm:"not null;index"`
	DocumentItemID *string          `db:"document_item_id"`
	TaxID          *string          `db:"tax_id"`
	TaxName        string           `db:"tax_name" gorm:"not null"`
	TaxType        string           `db:"tax_type" gorm:"not null"`
	TaxRate        *decimal.Decimal `db:"tax_rate" gorm:"type:numeric(10,4)"`
	TaxAmount      decimal.Decimal  `db:"tax_amount" gorm:"type:numeric(12,2);not null"`
	TaxableBase    decimal.Decimal  `db:"taxable_base" gorm:"type:numeric(12,2);not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (DocumentTaxLine) TableName() string { return "document_tax_lines" }

// DocumentAccountLine is a row of the document_account_lines table.
type DocumentAccountLine struct {
	AccountLineID string          `db:"account_line_id" gorm:"primaryKey"`
	TenantID      string          `db:"tenant_id" gorm:"not null"`
	DocumentID    string          `db:"document_id" gorm:"not null;index"`
	AccountID     string          `db:"account_id" gorm:"not null;index"`
	Description   *string         `db:"description"`
	DebitAmount   decimal.Decimal `db:"debit_amount" gorm:"type:numeric(12,2);not null"`
	CreditAmount  decimal.Decimal `db:"credit_amount" gorm:"type:numeric(12,2);not null"`
	CostCenterID  *string         `db:"cost_center_id" gorm:"index"`
	Metadata      JSONMap         `db:"metadata" gorm:"type:jsonb"`
	SortOrder     int             `db:"sort_order" gorm:"not null"`
	AuditFields
}

// TableName specifies the table name for GORM
func (DocumentAccountLine) TableName() string { return "document_account_lines" }

// DocumentStatusHistory is a row of the document_status_history table.
type DocumentStatusHistory struct {
	HistoryID  string    `db:"history_id" gorm:"primaryKey"`
	DocumentID string    `db:"document_id" gorm:"not null;index"`
	FromStatus string    `db:"from_status" gorm:"not null"`
	ToStatus   string    `db:"to_status" gorm:"not null"`
	ChangedBy  string    `db:"changed_by" gorm:"not null"`
	Reason     *string   `db:"reason"`
	ChangedAt  time.Time `db:"changed_at" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (DocumentStatusHistory) TableName() string { return "document_status_history" }

// DocumentApproval is a row of the document_approvals table.
type DocumentApproval struct {
	ApprovalID  string     `db:"approval_id" gorm:"primaryKey"`
	DocumentID  string     `db:"document_id" gorm:"not null;index"`
	StepIndex   int        `db:"step_index" gorm:"not null"`
	Status      string     `db:"status" gorm:"not null"`
	RequestedBy string     `db:"requested_by" gorm:"not null"`
	DecidedBy   *string    `db:"decided_by"`
	DecidedAt   *time.Time `db:"decided_at"`
	Notes       *string    `db:"notes"`
	CreatedAt   time.Time  `db:"created_at" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (DocumentApproval) TableName() string { return "document_approvals" }
