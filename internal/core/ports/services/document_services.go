package services

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/dto"
)

// DocumentReaderSvc defines read operations for documents.
type DocumentReaderSvc interface {
	// GetDocument returns a document visible to the user, with items and lines.
	GetDocument(ctx context.Context, tenantID, documentID, userID string) (*domain.Document, error)

	// ListDocuments returns a page of documents visible to the user.
	ListDocuments(ctx context.Context, tenantID, userID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)

	// ListHistory returns the status history of a visible document.
	ListHistory(ctx context.Context, tenantID, documentID, userID string) ([]domain.StatusHistory, error)

	// ListApprovals returns the approval steps of a visible document.
	ListApprovals(ctx context.Context, tenantID, documentID, userID string) ([]domain.DocumentApproval, error)

	// GetVisibleDocumentStatus returns the status of a document the user may see, or nil when it
	// does not exist or lies outside the user's access scope.
	GetVisibleDocumentStatus(ctx context.Context, tenantID, documentID, userID string) (*domain.DocumentStatus, error)

	// DocumentTypes returns the registry of document keys.
	DocumentTypes() []domain.DocumentType
}

// DocumentLockChecker answers whether tied resources may still change.
type DocumentLockChecker interface {
	// GetDocumentStatus returns the status of a document of the tenant, or nil when it does not exist.
	GetDocumentStatus(ctx context.Context, tenantID, documentID string) (*domain.DocumentStatus, error)
}

// DocumentWriterSvc defines draft editing operations.
type DocumentWriterSvc interface {
	CreateDraft(ctx context.Context, tenantID, userID string, req dto.CreateDocumentRequest) (*domain.Document, error)
	ReplaceDraftItems(ctx context.Context, tenantID, documentID, userID string, req dto.ReplaceItemsRequest) (*domain.Document, error)
}

// DocumentLifecycleSvc defines the lifecycle transitions. Every call carries the status the
// caller last observed; a mismatch yields ErrStaleState.
type DocumentLifecycleSvc interface {
	Submit(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)
	Approve(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)
	Reject(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)
	RequestRevision(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)
	Post(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)
	Cancel(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentLockChecker
	DocumentWriterSvc
	DocumentLifecycleSvc
}
