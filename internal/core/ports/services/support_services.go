package services

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/dto"
)

// DocumentNumberer hands out the next document number of a (tenant, document key).
type DocumentNumberer interface {
	NextNumber(ctx context.Context, tenantID, documentKey string) (string, error)
}

// NumberingSvc exposes numbering settings alongside number generation.
type NumberingSvc interface {
	DocumentNumberer
	ListSettings(ctx context.Context, tenantID, userID string) ([]domain.NumberSetting, error)
	UpdateSetting(ctx context.Context, tenantID, documentKey, userID string, req dto.UpdateNumberSettingRequest) (*domain.NumberSetting, error)
}

// OutboxSvc lets an external dispatcher poll and acknowledge outbox events.
type OutboxSvc interface {
	ListPending(ctx context.Context, tenantID, userID string, limit int) ([]domain.OutboxEvent, error)
	MarkProcessing(ctx context.Context, tenantID, eventID, userID string) (*domain.OutboxEvent, error)
	MarkDone(ctx context.Context, tenantID, eventID, userID string) (*domain.OutboxEvent, error)
	MarkFailed(ctx context.Context, tenantID, eventID, userID, reason string) (*domain.OutboxEvent, error)
}

// TagSvc manages tenant tags and their links. Links on locked documents are frozen.
type TagSvc interface {
	Assign(ctx context.Context, tenantID, userID string, req dto.TagRequest) ([]domain.Tag, error)
	Sync(ctx context.Context, tenantID, userID string, req dto.TagRequest) ([]domain.Tag, error)
	Remove(ctx context.Context, tenantID, userID string, req dto.TagRequest) error
	List(ctx context.Context, tenantID, userID string, params dto.ListTagsParams) ([]domain.Tag, error)
	Suggest(ctx context.Context, tenantID, userID, prefix string) ([]domain.Tag, error)
	TagsForResource(ctx context.Context, tenantID, userID, resourceType, resourceID string) ([]domain.Tag, error)
}

// AttachmentSvc manages attachment metadata of documents.
type AttachmentSvc interface {
	AddAttachment(ctx context.Context, tenantID, documentID, userID string, req dto.AddAttachmentRequest) (*domain.Attachment, error)
	ListAttachments(ctx context.Context, tenantID, documentID, userID string) ([]domain.Attachment, error)
	RemoveAttachment(ctx context.Context, tenantID, documentID, attachmentID, userID string) error
}

// IntegrationTokenSvc defines operations for integration key management
type IntegrationTokenSvc interface {
	// CreateToken generates a new key. The plaintext is only returned here.
	CreateToken(ctx context.Context, tenantID, userID string, req dto.CreateTokenRequest) (string, *domain.IntegrationToken, error)

	// ListTokens returns the live tokens of a tenant
	ListTokens(ctx context.Context, tenantID, userID string) ([]domain.IntegrationToken, error)

	// RevokeToken disables a token
	RevokeToken(ctx context.Context, tenantID, tokenID, userID string) error

	// ValidateToken checks a presented key and returns the token it belongs to
	ValidateToken(ctx context.Context, rawKey string) (*domain.IntegrationToken, error)
}
