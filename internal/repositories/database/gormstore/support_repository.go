package gormstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSettingRepository stores numbering settings and counters.
type NumberSettingRepository struct{ baseRepository }

var _ portsrepo.NumberSettingRepository = (*NumberSettingRepository)(nil)

func (r *NumberSettingRepository) NextNumber(ctx context.Context, tenantID, documentKey string, defaults domain.NumberSetting, advance func(*domain.NumberSetting) string) (string, error) {
	var number string
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		seed := mapping.ToModelNumberSetting(defaults)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return translateWriteError(err, "number setting "+documentKey)
		}
		var m models.NumberSetting
		err := forUpdate(tx).Where("tenant_id = ? AND document_key = ?", tenantID, documentKey).First(&m).Error
		if err != nil {
			return translateReadError(err, "number setting "+documentKey)
		}
		setting := mapping.ToDomainNumberSetting(m)
		number = advance(&setting)
		return tx.Model(&models.NumberSetting{}).
			Where("tenant_id = ? AND document_key = ?", tenantID, documentKey).
			Updates(map[string]any{"current_counter": setting.CurrentCounter, "last_period": setting.LastPeriod}).Error
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *NumberSettingRepository) ListSettings(ctx context.Context, tenantID string) ([]domain.NumberSetting, error) {
	var ms []models.NumberSetting
	if err := r.conn(ctx).Where("tenant_id = ? AND deleted_at IS NULL", tenantID).Order("document_key").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list number settings: %w", err)
	}
	out := make([]domain.NumberSetting, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainNumberSetting(m))
	}
	return out, nil
}

func (r *NumberSettingRepository) FindSetting(ctx context.Context, tenantID, documentKey string) (*domain.NumberSetting, error) {
	var m models.NumberSetting
	err := r.conn(ctx).Where("tenant_id = ? AND document_key = ? AND deleted_at IS NULL", tenantID, documentKey).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "number setting "+documentKey)
	}
	d := mapping.ToDomainNumberSetting(m)
	return &d, nil
}

func (r *NumberSettingRepository) SaveSetting(ctx context.Context, setting domain.NumberSetting) error {
	m := mapping.ToModelNumberSetting(setting)
	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "document_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"prefix", "padding_length", "include_period", "period_format",
			"current_counter", "last_period", "last_updated_at", "last_updated_by",
		}),
	}).Create(&m).Error
	return translateWriteError(err, "number setting "+m.DocumentKey)
}

// OutboxRepository stores outbox delivery state.
type OutboxRepository struct{ baseRepository }

var _ portsrepo.OutboxRepository = (*OutboxRepository)(nil)

func (r *OutboxRepository) FindEvent(ctx context.Context, tenantID, eventID string) (*domain.OutboxEvent, error) {
	var m models.OutboxEvent
	err := r.conn(ctx).Where("tenant_id = ? AND event_id = ? AND deleted_at IS NULL", tenantID, eventID).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "outbox event "+eventID)
	}
	d := mapping.ToDomainOutboxEvent(m)
	return &d, nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, tenantID string, now time.Time, limit int) ([]domain.OutboxEvent, error) {
	var ms []models.OutboxEvent
	err := r.conn(ctx).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Where("status = ? OR (status = ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?))",
			string(domain.OutboxPending), string(domain.OutboxFailed), now).
		Order("created_at, event_id").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending outbox events: %w", err)
	}
	out := make([]domain.OutboxEvent, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainOutboxEvent(m))
	}
	return out, nil
}

func (r *OutboxRepository) UpdateEvent(ctx context.Context, event domain.OutboxEvent) error {
	m := mapping.ToModelOutboxEvent(event)
	res := r.conn(ctx).Model(&models.OutboxEvent{}).
		Where("tenant_id = ? AND event_id = ? AND deleted_at IS NULL", m.TenantID, m.EventID).
		Updates(map[string]any{
			"status":          m.Status,
			"attempts":        m.Attempts,
			"last_error":      m.LastError,
			"next_attempt_at": m.NextAttemptAt,
			"processed_at":    m.ProcessedAt,
			"last_updated_at": m.LastUpdatedAt,
			"last_updated_by": m.LastUpdatedBy,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update outbox event %s: %w", m.EventID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TagRepository stores tags and their links.
type TagRepository struct{ baseRepository }

var _ portsrepo.TagRepository = (*TagRepository)(nil)

func (r *TagRepository) FindOrCreateTags(ctx context.Context, tenantID string, names map[string]string, userID string, now time.Time) ([]domain.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(names))
	for n := range names {
		normalized = append(normalized, n)
	}
	sort.Strings(normalized)

	var ms []models.Tag
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, n := range normalized {
			m := mapping.ToModelTag(domain.Tag{
				TagID:          uuid.NewString(),
				TenantID:       tenantID,
				Name:           names[n],
				NameNormalized: n,
				IsActive:       true,
				AuditFields:    domain.NewAuditFields(userID, now),
			})
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
				return translateWriteError(err, "tag "+n)
			}
		}
		return tx.Where("tenant_id = ? AND name_normalized IN ? AND deleted_at IS NULL", tenantID, normalized).
			Order("name_normalized").Find(&ms).Error
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTagSlice(ms), nil
}

func (r *TagRepository) FindTagsByNormalizedNames(ctx context.Context, tenantID string, normalized []string) ([]domain.Tag, error) {
	if len(normalized) == 0 {
		return nil, nil
	}
	var ms []models.Tag
	err := r.conn(ctx).Where("tenant_id = ? AND name_normalized IN ? AND deleted_at IS NULL", tenantID, normalized).
		Order("name_normalized").Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	return mapping.ToDomainTagSlice(ms), nil
}

func (r *TagRepository) LinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string, userID string, now time.Time) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		if err := tx.Model(&models.Tag{}).Where("tenant_id = ? AND tag_id IN ?", tenantID, tagIDs).
			Pluck("tag_id", &owned).Error; err != nil {
			return fmt.Errorf("failed to query tags: %w", err)
		}
		for _, id := range owned {
			link := models.TagLink{
				TagID:        id,
				TenantID:     tenantID,
				ResourceType: resourceType,
				ResourceID:   resourceID,
				CreatedAt:    now,
				CreatedBy:    userID,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
			if res.Error != nil {
				return translateWriteError(res.Error, "tag link")
			}
			if res.RowsAffected == 0 {
				continue
			}
			if err := tx.Model(&models.Tag{}).Where("tag_id = ?", id).Updates(map[string]any{
				"usage_count":  gorm.Expr("usage_count + 1"),
				"last_used_at": now,
			}).Error; err != nil {
				return fmt.Errorf("failed to bump tag usage: %w", err)
			}
		}
		return nil
	})
}

func (r *TagRepository) UnlinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var linked []string
		err := tx.Model(&models.TagLink{}).
			Where("tenant_id = ? AND resource_type = ? AND resource_id = ? AND tag_id IN ?", tenantID, resourceType, resourceID, tagIDs).
			Pluck("tag_id", &linked).Error
		if err != nil {
			return fmt.Errorf("failed to query tag links: %w", err)
		}
		if len(linked) == 0 {
			return nil
		}
		if err := tx.Where("tenant_id = ? AND resource_type = ? AND resource_id = ? AND tag_id IN ?", tenantID, resourceType, resourceID, linked).
			Delete(&models.TagLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete tag links: %w", err)
		}
		return tx.Model(&models.Tag{}).Where("tag_id IN ?", linked).
			Update("usage_count", gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")).Error
	})
}

func (r *TagRepository) ListTags(ctx context.Context, tenantID, search string, limit int) ([]domain.Tag, error) {
	q := r.conn(ctx).Where("tenant_id = ? AND is_active = ? AND deleted_at IS NULL", tenantID, true)
	if search != "" {
		q = q.Where(`name_normalized LIKE ? ESCAPE '\'`, likeContains(search))
	}
	var ms []models.Tag
	if err := q.Order("usage_count DESC, name_normalized").Limit(limit).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return mapping.ToDomainTagSlice(ms), nil
}

func (r *TagRepository) ListTagsForResource(ctx context.Context, tenantID, resourceType, resourceID string) ([]domain.Tag, error) {
	var ms []models.Tag
	err := r.conn(ctx).
		Joins("JOIN tag_links l ON l.tag_id = tags.tag_id").
		Where("l.tenant_id = ? AND l.resource_type = ? AND l.resource_id = ? AND tags.deleted_at IS NULL", tenantID, resourceType, resourceID).
		Order("tags.name_normalized").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tags of %s %s: %w", resourceType, resourceID, err)
	}
	return mapping.ToDomainTagSlice(ms), nil
}

// AttachmentRepository stores attachment metadata.
type AttachmentRepository struct{ baseRepository }

var _ portsrepo.AttachmentRepository = (*AttachmentRepository)(nil)

func (r *AttachmentRepository) SaveAttachment(ctx context.Context, a domain.Attachment) error {
	m := mapping.ToModelAttachment(a)
	return translateWriteError(r.conn(ctx).Create(&m).Error, "attachment "+m.FileName)
}

func (r *AttachmentRepository) FindAttachment(ctx context.Context, tenantID, attachmentID string) (*domain.Attachment, error) {
	var m models.Attachment
	err := r.conn(ctx).Where("tenant_id = ? AND attachment_id = ? AND deleted_at IS NULL", tenantID, attachmentID).First(&m).Error
	if err != nil {
		return nil, translateReadError(err, "attachment "+attachmentID)
	}
	d := mapping.ToDomainAttachment(m)
	return &d, nil
}

func (r *AttachmentRepository) ListAttachments(ctx context.Context, tenantID, documentID string) ([]domain.Attachment, error) {
	var ms []models.Attachment
	err := r.conn(ctx).Where("tenant_id = ? AND document_id = ? AND deleted_at IS NULL", tenantID, documentID).
		Order("created_at").Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	out := make([]domain.Attachment, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainAttachment(m))
	}
	return out, nil
}

func (r *AttachmentRepository) SoftDeleteAttachment(ctx context.Context, tenantID, attachmentID, userID string, now time.Time) error {
	res := r.conn(ctx).Model(&models.Attachment{}).
		Where("tenant_id = ? AND attachment_id = ? AND deleted_at IS NULL", tenantID, attachmentID).
		Updates(map[string]any{
			"deleted_at": now, "deleted_by": userID,
			"last_updated_at": now, "last_updated_by": userID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", attachmentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IntegrationTokenRepository stores hashed integration keys.
type IntegrationTokenRepository struct{ baseRepository }

var _ portsrepo.IntegrationTokenRepository = (*IntegrationTokenRepository)(nil)

func (r *IntegrationTokenRepository) Create(ctx context.Context, token domain.IntegrationToken) error {
	m := mapping.ToModelIntegrationToken(token)
	return translateWriteError(r.conn(ctx).Create(&m).Error, "integration token "+m.Name)
}

func (r *IntegrationTokenRepository) FindByID(ctx context.Context, tokenID string) (*domain.IntegrationToken, error) {
	var m models.IntegrationToken
	if err := r.conn(ctx).Where("token_id = ? AND deleted_at IS NULL", tokenID).First(&m).Error; err != nil {
		return nil, translateReadError(err, "integration token")
	}
	d := mapping.ToDomainIntegrationToken(m)
	return &d, nil
}

func (r *IntegrationTokenRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.IntegrationToken, error) {
	var ms []models.IntegrationToken
	if err := r.conn(ctx).Where("tenant_id = ? AND deleted_at IS NULL", tenantID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list integration tokens: %w", err)
	}
	out := make([]domain.IntegrationToken, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainIntegrationToken(m))
	}
	return out, nil
}

func (r *IntegrationTokenRepository) TouchLastUsed(ctx context.Context, tokenID string, at time.Time) error {
	err := r.conn(ctx).Model(&models.IntegrationToken{}).Where("token_id = ?", tokenID).Update("last_used_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to touch integration token: %w", err)
	}
	return nil
}

func (r *IntegrationTokenRepository) Revoke(ctx context.Context, tenantID, tokenID, userID string, at time.Time) error {
	res := r.conn(ctx).Model(&models.IntegrationToken{}).
		Where("tenant_id = ? AND token_id = ? AND deleted_at IS NULL", tenantID, tokenID).
		Updates(map[string]any{
			"deleted_at": at, "deleted_by": userID,
			"last_updated_at": at, "last_updated_by": userID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to revoke integration token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
