package dto

import (
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentItemInput is one line of a create or replace-items request.
type DocumentItemInput struct {
	ItemID         string           `json:"itemID" binding:"required"`
	ItemName       string           `json:"itemName" binding:"required"`
	ItemType       string           `json:"itemType" binding:"required"`
	Description    *string          `json:"description"`
	Quantity       decimal.Decimal  `json:"quantity" binding:"decimal_gt0"`
	UnitPrice      decimal.Decimal  `json:"unitPrice" binding:"decimal_gte0"`
	DiscountAmount *decimal.Decimal `json:"discountAmount"`
	TaxIDs         []string         `json:"taxIDs"` // Overrides the item's configured taxes when set
	Dimensions     map[string]any   `json:"dimensions"`
	Metadata       map[string]any   `json:"metadata"`
}

// CreateDocumentRequest defines the data needed to create a draft document.
type CreateDocumentRequest struct {
	Module           domain.Module       `json:"module" binding:"required,oneof=SALES PURCHASE ACCOUNTING INVENTORY"`
	DocumentKey      string              `json:"documentKey" binding:"required"`
	Number           string              `json:"number"` // Generated when empty
	AccessScope      domain.AccessScope  `json:"accessScope" binding:"omitempty,oneof=TENANT CREATOR ROLE USER"`
	AccessRoleID     *string             `json:"accessRoleID"`
	AccessUserID     *string             `json:"accessUserID"`
	DocumentDate     time.Time           `json:"documentDate" binding:"required"`
	DueDate          *time.Time          `json:"dueDate"`
	PostingDate      *time.Time          `json:"postingDate"`
	CurrencyCode     string              `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate     *decimal.Decimal    `json:"exchangeRate"`
	PersonID         *string             `json:"personID"`
	PersonName       *string             `json:"personName"`
	Notes            string              `json:"notes"`
	Metadata         map[string]any      `json:"metadata"`
	Items            []DocumentItemInput `json:"items" binding:"dive"`
	DocumentDiscount *decimal.Decimal    `json:"documentDiscount"`
	DocumentTaxIDs   []string            `json:"documentTaxIDs"`
}

// ReplaceItemsRequest replaces every item and tax line of an editable document.
type ReplaceItemsRequest struct {
	ExpectedVersion  *int64              `json:"expectedVersion"`
	Items            []DocumentItemInput `json:"items" binding:"dive"`
	DocumentDiscount *decimal.Decimal    `json:"documentDiscount"`
	DocumentTaxIDs   []string            `json:"documentTaxIDs"`
	Metadata         map[string]any      `json:"metadata"` // Replaces metadata when set
}

// TransitionRequest carries the status the caller last saw, plus an optional reason.
type TransitionRequest struct {
	FromStatus domain.DocumentStatus `json:"fromStatus" binding:"required,doc_status"`
	Reason     *string               `json:"reason"`
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	Module      string `form:"module" binding:"omitempty,oneof=SALES PURCHASE ACCOUNTING INVENTORY"`
	DocumentKey string `form:"documentKey"`
	Status      string `form:"status" binding:"omitempty,doc_status"`
	Limit       int    `form:"limit,default=50"`
	NextToken   string `form:"nextToken"`
}

// DocumentItemResponse is an item as returned by the API.
type DocumentItemResponse struct {
	DocumentItemID string          `json:"documentItemID"`
	ItemID         string          `json:"itemID"`
	ItemName       string          `json:"itemName"`
	ItemType       string          `json:"itemType"`
	Description    *string         `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
	Dimensions     map[string]any  `json:"dimensions,omitempty"`
	SortOrder      int             `json:"sortOrder"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID   string                       `json:"documentID"`
	TenantID     string                       `json:"tenantID"`
	Module       domain.Module                `json:"module"`
	DocumentKey  string                       `json:"documentKey"`
	Number       string                       `json:"number"`
	Status       domain.DocumentStatus        `json:"status"`
	AccessScope  domain.AccessScope           `json:"accessScope"`
	AccessRoleID *string                      `json:"accessRoleID,omitempty"`
	AccessUserID *string                      `json:"accessUserID,omitempty"`
	DocumentDate time.Time                    `json:"documentDate"`
	DueDate      *time.Time                   `json:"dueDate,omitempty"`
	PostingDate  *time.Time                   `json:"postingDate,omitempty"`
	CurrencyCode string                       `json:"currencyCode"`
	ExchangeRate decimal.Decimal              `json:"exchangeRate"`
	PersonID     *string                      `json:"personID,omitempty"`
	PersonName   *string                      `json:"personName,omitempty"`
	Subtotal     decimal.Decimal              `json:"subtotal"`
	Discount     decimal.Decimal              `json:"discountTotal"`
	TaxTotal     decimal.Decimal              `json:"taxTotal"`
	Total        decimal.Decimal              `json:"total"`
	Notes        string                       `json:"notes"`
	Metadata     map[string]any               `json:"metadata,omitempty"`
	Version      int64                        `json:"version"`
	SubmittedAt  *time.Time                   `json:"submittedAt,omitempty"`
	ApprovedAt   *time.Time                   `json:"approvedAt,omitempty"`
	PostedAt     *time.Time                   `json:"postedAt,omitempty"`
	CancelledAt  *time.Time                   `json:"cancelledAt,omitempty"`
	RejectedAt   *time.Time                   `json:"rejectedAt,omitempty"`
	RevisionAt   *time.Time                   `json:"revisionRequestedAt,omitempty"`
	CreatedAt    time.Time                    `json:"createdAt"`
	CreatedBy    string                       `json:"createdBy"`
	Items        []DocumentItemResponse       `json:"items,omitempty"`
	TaxLines     []domain.DocumentTaxLine     `json:"taxLines,omitempty"`
	AccountLines []domain.DocumentAccountLine `json:"accountLines,omitempty"`
}

// ListDocumentsResponse wraps a page of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// DocumentStatusResponse is the lock-check answer. Status is null when the document does not exist.
type DocumentStatusResponse struct {
	DocumentID string                 `json:"documentID"`
	Status     *domain.DocumentStatus `json:"status"`
	Locked     bool                   `json:"locked"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	items := make([]DocumentItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = DocumentItemResponse{
			DocumentItemID: it.DocumentItemID,
			ItemID:         it.ItemID,
			ItemName:       it.ItemName,
			ItemType:       it.ItemType,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			TaxAmount:      it.TaxAmount,
			LineTotal:      it.LineTotal,
			Dimensions:     it.Dimensions,
			SortOrder:      it.SortOrder,
		}
	}
	return DocumentResponse{
		DocumentID:   d.DocumentID,
		TenantID:     d.TenantID,
		Module:       d.Module,
		DocumentKey:  d.DocumentKey,
		Number:       d.Number,
		Status:       d.Status,
		AccessScope:  d.AccessScope,
		AccessRoleID: d.AccessRoleID,
		AccessUserID: d.AccessUserID,
		DocumentDate: d.DocumentDate,
		DueDate:      d.DueDate,
		PostingDate:  d.PostingDate,
		CurrencyCode: d.CurrencyCode,
		ExchangeRate: d.ExchangeRate,
		PersonID:     d.PersonID,
		PersonName:   d.PersonName,
		Subtotal:     d.Subtotal,
		Discount:     d.DiscountTotal,
		TaxTotal:     d.TaxTotal,
		Total:        d.Total,
		Notes:        d.Notes,
		Metadata:     d.Metadata,
		Version:      d.Version,
		SubmittedAt:  d.SubmittedAt,
		ApprovedAt:   d.ApprovedAt,
		PostedAt:     d.PostedAt,
		CancelledAt:  d.CancelledAt,
		RejectedAt:   d.RejectedAt,
		RevisionAt:   d.RevisionRequestedAt,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
		Items:        items,
		TaxLines:     d.TaxLines,
		AccountLines: d.AccountLines,
	}
}

// ToListDocumentResponse converts a slice of documents.
func ToListDocumentResponse(docs []domain.Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i := range docs {
		res[i] = ToDocumentResponse(&docs[i])
	}
	return res
}
