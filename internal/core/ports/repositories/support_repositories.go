package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// NumberSettingRepository persists document numbering settings.
type NumberSettingRepository interface {
	// NextNumber locks the setting of (tenant, key), creating it from defaults when missing,
	// applies advance and stores the result. The returned string is the formatted number.
	NextNumber(ctx context.Context, tenantID, documentKey string, defaults domain.NumberSetting, advance func(*domain.NumberSetting) string) (string, error)

	// ListSettings returns the settings of a tenant.
	ListSettings(ctx context.Context, tenantID string) ([]domain.NumberSetting, error)

	// FindSetting returns one setting or ErrNotFound.
	FindSetting(ctx context.Context, tenantID, documentKey string) (*domain.NumberSetting, error)

	// SaveSetting inserts or replaces a setting.
	SaveSetting(ctx context.Context, setting domain.NumberSetting) error
}

// OutboxRepository persists outbox events outside of the transition transaction.
type OutboxRepository interface {
	FindEvent(ctx context.Context, tenantID, eventID string) (*domain.OutboxEvent, error)

	// ListPending returns PENDING events and FAILED events due at or before now, oldest first.
	ListPending(ctx context.Context, tenantID string, now time.Time, limit int) ([]domain.OutboxEvent, error)

	// UpdateEvent stores the delivery fields of an event.
	UpdateEvent(ctx context.Context, event domain.OutboxEvent) error
}

// TagRepository persists tags and their links.
type TagRepository interface {
	// FindOrCreateTags returns the tags with the given normalized names, creating missing ones.
	FindOrCreateTags(ctx context.Context, tenantID string, names map[string]string, userID string, now time.Time) ([]domain.Tag, error)

	// FindTagsByNormalizedNames returns existing tags only.
	FindTagsByNormalizedNames(ctx context.Context, tenantID string, normalized []string) ([]domain.Tag, error)

	// LinkTags creates missing links and bumps usage of newly linked tags.
	LinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string, userID string, now time.Time) error

	// UnlinkTags removes links and decrements usage of unlinked tags.
	UnlinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string) error

	// ListTags returns active tags whose normalized name contains search, most used first.
	ListTags(ctx context.Context, tenantID, search string, limit int) ([]domain.Tag, error)

	// ListTagsForResource returns the tags linked to a resource.
	ListTagsForResource(ctx context.Context, tenantID, resourceType, resourceID string) ([]domain.Tag, error)
}

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	SaveAttachment(ctx context.Context, attachment domain.Attachment) error
	FindAttachment(ctx context.Context, tenantID, attachmentID string) (*domain.Attachment, error)
	ListAttachments(ctx context.Context, tenantID, documentID string) ([]domain.Attachment, error)
	// SoftDeleteAttachment marks the attachment deleted.
	SoftDeleteAttachment(ctx context.Context, tenantID, attachmentID, userID string, now time.Time) error
}

// IntegrationTokenRepository defines the interface for integration token data access operations
type IntegrationTokenRepository interface {
	// Create persists a new token
	Create(ctx context.Context, token domain.IntegrationToken) error

	// FindByID retrieves a token by its ID regardless of tenant (used for key validation)
	FindByID(ctx context.Context, tokenID string) (*domain.IntegrationToken, error)

	// ListByTenant retrieves all live tokens of a tenant
	ListByTenant(ctx context.Context, tenantID string) ([]domain.IntegrationToken, error)

	// TouchLastUsed updates last_used_at
	TouchLastUsed(ctx context.Context, tokenID string, at time.Time) error

	// Revoke soft-deletes a token
	Revoke(ctx context.Context, tenantID, tokenID, userID string, at time.Time) error
}
