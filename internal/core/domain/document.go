package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Module identifies the business module owning a document.
type Module string

const (
	ModuleSales      Module = "SALES"
	ModulePurchase   Module = "PURCHASE"
	ModuleAccounting Module = "ACCOUNTING"
	ModuleInventory  Module = "INVENTORY"
)

// IsValid reports whether the module is one of the closed set.
func (m Module) IsValid() bool {
	switch m {
	case ModuleSales, ModulePurchase, ModuleAccounting, ModuleInventory:
		return true
	}
	return false
}

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	StatusDraft             DocumentStatus = "DRAFT"
	StatusSubmitted         DocumentStatus = "SUBMITTED"
	StatusRevisionRequested DocumentStatus = "REVISION_REQUESTED"
	StatusRejected          DocumentStatus = "REJECTED"
	StatusApproved          DocumentStatus = "APPROVED"
	StatusPosted            DocumentStatus = "POSTED"
	StatusCancelled         DocumentStatus = "CANCELLED"
)

// IsValid reports whether the status is one of the closed set.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusRevisionRequested, StatusRejected,
		StatusApproved, StatusPosted, StatusCancelled:
		return true
	}
	return false
}

// AccessScope restricts which tenant members can see a document.
type AccessScope string

const (
	ScopeTenant  AccessScope = "TENANT"
	ScopeCreator AccessScope = "CREATOR"
	ScopeRole    AccessScope = "ROLE"
	ScopeUser    AccessScope = "USER"
)

// IsValid reports whether the scope is one of the closed set.
func (s AccessScope) IsValid() bool {
	switch s {
	case ScopeTenant, ScopeCreator, ScopeRole, ScopeUser:
		return true
	}
	return false
}

// Document is the aggregate root of the engine. It owns its items, tax lines and account lines.
type Document struct {
	DocumentID   string          `json:"documentID"`
	TenantID     string          `json:"tenantID"`
	Module       Module          `json:"module"`
	DocumentKey  string          `json:"documentKey"` // e.g. sales.invoice
	Number       string          `json:"number"`      // Unique per (tenant, documentKey)
	Status       DocumentStatus  `json:"status"`
	AccessScope  AccessScope     `json:"accessScope"`
	AccessRoleID *string         `json:"accessRoleID,omitempty"` // Set iff AccessScope == ROLE
	AccessUserID *string         `json:"accessUserID,omitempty"` // Set iff AccessScope == USER
	DocumentDate time.Time       `json:"documentDate"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	PostingDate  *time.Time      `json:"postingDate,omitempty"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	PersonID     *string         `json:"personID,omitempty"`
	PersonName   *string         `json:"personName,omitempty"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Total         decimal.Decimal `json:"total"`

	Metadata map[string]any `json:"metadata,omitempty"`
	Notes    string         `json:"notes"`

	SubmittedAt         *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt          *time.Time `json:"approvedAt,omitempty"`
	PostedAt            *time.Time `json:"postedAt,omitempty"`
	CancelledAt         *time.Time `json:"cancelledAt,omitempty"`
	RejectedAt          *time.Time `json:"rejectedAt,omitempty"`
	RevisionRequestedAt *time.Time `json:"revisionRequestedAt,omitempty"`

	Version int64 `json:"version"` // Optimistic concurrency token

	Items        []DocumentItem        `json:"items,omitempty"`
	TaxLines     []DocumentTaxLine     `json:"taxLines,omitempty"`
	AccountLines []DocumentAccountLine `json:"accountLines,omitempty"`

	AuditFields
}

// IsLocked reports whether resources tied to a document in this status must reject mutation.
func IsLocked(status DocumentStatus) bool {
	return status == StatusApproved || status == StatusPosted
}

// IsTerminal reports whether no ordinary transition leaves the status.
// POSTED only leaves through cancellation with reversal.
func IsTerminal(status DocumentStatus) bool {
	switch status {
	case StatusPosted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsLocked reports whether the document is frozen for tags, attachments and items.
func (d *Document) IsLocked() bool {
	return IsLocked(d.Status)
}

// IsEditable reports whether items and tax lines may still be replaced.
func (d *Document) IsEditable() bool {
	return d.Status == StatusDraft || d.Status == StatusRevisionRequested
}

// AccessFilter carries the caller identity that every document query is restricted by.
type AccessFilter struct {
	UserID  string
	RoleIDs []string
}

// TotalsIdentityHolds reports whether total == subtotal - discountTotal + taxTotal.
func (d *Document) TotalsIdentityHolds() bool {
	return d.Total.Equal(d.Subtotal.Sub(d.DiscountTotal).Add(d.TaxTotal))
}
