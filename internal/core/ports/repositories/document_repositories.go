package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// ListDocumentsQuery filters and pages a document list.
type ListDocumentsQuery struct {
	Module      *domain.Module
	DocumentKey *string
	Status      *domain.DocumentStatus
	Limit       int
	// Keyset cursor: rows strictly after (AfterDate, AfterCreatedAt, AfterID) in descending order.
	AfterDate      *time.Time
	AfterCreatedAt *time.Time
	AfterID        *string
}

// ContentReplacement swaps the items and tax lines of an editable document and stores new totals.
// The update applies only if the persisted status and version still match.
type ContentReplacement struct {
	Document        domain.Document // New header values, items and tax lines; Version is the new version
	ExpectedStatus  domain.DocumentStatus
	ExpectedVersion int64
	History         *domain.StatusHistory // Set when the replacement also moves the document to DRAFT
}

// ApprovalDecision updates one approval row.
type ApprovalDecision struct {
	ApprovalID string
	Status     domain.ApprovalStatus
	DecidedBy  string
	DecidedAt  time.Time
	Notes      *string
}

// TransitionCommit describes every write of one lifecycle step. All of it is applied in a
// single database transaction, or none of it is.
type TransitionCommit struct {
	TenantID        string
	DocumentID      string
	ExpectedStatus  domain.DocumentStatus
	ExpectedVersion int64
	Document        domain.Document // Carries the new status, version, timestamps and posting date

	History         *domain.StatusHistory
	CreateApprovals []domain.DocumentApproval
	DecideApproval  *ApprovalDecision
	ResolvePending  *domain.ApprovalStatus // Every still pending approval moves to this status
	ResolveNotes    *string
	AccountLines    []domain.DocumentAccountLine
	OutboxEvents    []domain.OutboxEvent
	UpdatedBy       string
	UpdatedAt       time.Time
}

// DocumentReader defines read operations for documents.
// Every method that takes an AccessFilter only returns documents visible to it.
type DocumentReader interface {
	// FindDocumentByID loads a document with its items, tax lines and account lines.
	FindDocumentByID(ctx context.Context, tenantID, documentID string, filter domain.AccessFilter) (*domain.Document, error)

	// ListDocuments returns document headers ordered by document date, newest first.
	ListDocuments(ctx context.Context, tenantID string, query ListDocumentsQuery, filter domain.AccessFilter) ([]domain.Document, error)

	// FindDocumentStatus returns the status of a document of the tenant, or ErrNotFound.
	FindDocumentStatus(ctx context.Context, tenantID, documentID string) (domain.DocumentStatus, error)

	// ListStatusHistory returns the transitions of a document in order.
	ListStatusHistory(ctx context.Context, documentID string) ([]domain.StatusHistory, error)

	// ListApprovals returns the approval steps of a document ordered by step index.
	ListApprovals(ctx context.Context, documentID string) ([]domain.DocumentApproval, error)
}

// DocumentWriter defines write operations for documents.
type DocumentWriter interface {
	// CreateDocument persists a draft header with its items and tax lines atomically.
	// A duplicate (tenant, key, number) yields ErrDuplicate.
	CreateDocument(ctx context.Context, doc domain.Document) error

	// ReplaceDraftContent swaps items and tax lines; ErrStaleState when the guard fails.
	ReplaceDraftContent(ctx context.Context, replacement ContentReplacement) error

	// CommitTransition applies a lifecycle step; ErrStaleState when the guard fails.
	CommitTransition(ctx context.Context, commit TransitionCommit) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
