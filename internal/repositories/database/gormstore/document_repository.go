package gormstore

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"gorm.io/gorm"
)

// DocumentRepository stores documents with their content and lifecycle records.
type DocumentRepository struct{ baseRepository }

var _ portsrepo.DocumentRepositoryFacade = (*DocumentRepository)(nil)

// visibleTo restricts a documents query to rows the caller may see.
func visibleTo(q *gorm.DB, filter domain.AccessFilter) *gorm.DB {
	roles := filter.RoleIDs
	if len(roles) == 0 {
		roles = []string{""}
	}
	return q.Where(`(access_scope = ?
		OR (access_scope = ? AND created_by = ?)
		OR (access_scope = ? AND access_role_id IN ?)
		OR (access_scope = ? AND access_user_id = ?))`,
		string(domain.ScopeTenant),
		string(domain.ScopeCreator), filter.UserID,
		string(domain.ScopeRole), roles,
		string(domain.ScopeUser), filter.UserID,
	)
}

// FindDocumentByID loads a visible document with its content inside one snapshot.
func (r *DocumentRepository) FindDocumentByID(ctx context.Context, tenantID, documentID string, filter domain.AccessFilter) (*domain.Document, error) {
	var doc domain.Document
	err := r.snapshot(ctx, func(tx *gorm.DB) error {
		var m models.Document
		q := tx.Where("tenant_id = ? AND document_id = ? AND deleted_at IS NULL", tenantID, documentID)
		if err := visibleTo(q, filter).First(&m).Error; err != nil {
			return translateReadError(err, "document "+documentID)
		}
		doc = mapping.ToDomainDocument(m)

		var items []models.DocumentItem
		if err := tx.Where("document_id = ? AND deleted_at IS NULL", documentID).Order("sort_order").Find(&items).Error; err != nil {
			return fmt.Errorf("failed to query items of document %s: %w", documentID, err)
		}
		for _, im := range items {
			doc.Items = append(doc.Items, mapping.ToDomainDocumentItem(im))
		}

		var taxLines []models.DocumentTaxLine
		if err := tx.Where("document_id = ? AND deleted_at IS NULL", documentID).
			Order("document_item_id IS NULL, document_item_id, tax_name").Find(&taxLines).Error; err != nil {
			return fmt.Errorf("failed to query tax lines of document %s: %w", documentID, err)
		}
		for _, tm := range taxLines {
			doc.TaxLines = append(doc.TaxLines, mapping.ToDomainDocumentTaxLine(tm))
		}

		var lines []models.DocumentAccountLine
		if err := tx.Where("document_id = ? AND deleted_at IS NULL", documentID).Order("sort_order").Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to query account lines of document %s: %w", documentID, err)
		}
		for _, lm := range lines {
			doc.AccountLines = append(doc.AccountLines, mapping.ToDomainDocumentAccountLine(lm))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) ListDocuments(ctx context.Context, tenantID string, q portsrepo.ListDocumentsQuery, filter domain.AccessFilter) ([]domain.Document, error) {
	query := visibleTo(r.conn(ctx).Where("tenant_id = ? AND deleted_at IS NULL", tenantID), filter)
	if q.Module != nil {
		query = query.Where("module = ?", string(*q.Module))
	}
	if q.DocumentKey != nil {
		query = query.Where("document_key = ?", *q.DocumentKey)
	}
	if q.Status != nil {
		query = query.Where("status = ?", string(*q.Status))
	}
	if q.AfterDate != nil && q.AfterCreatedAt != nil && q.AfterID != nil {
		query = query.Where("(document_date, created_at, document_id) < (?, ?, ?)", *q.AfterDate, *q.AfterCreatedAt, *q.AfterID)
	}
	query = query.Order("document_date DESC, created_at DESC, document_id DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	var ms []models.Document
	if err := query.Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	out := make([]domain.Document, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainDocument(m))
	}
	return out, nil
}

func (r *DocumentRepository) FindDocumentStatus(ctx context.Context, tenantID, documentID string) (domain.DocumentStatus, error) {
	var m models.Document
	err := r.conn(ctx).Select("status").
		Where("tenant_id = ? AND document_id = ? AND deleted_at IS NULL", tenantID, documentID).
		First(&m).Error
	if err != nil {
		return "", translateReadError(err, "document "+documentID)
	}
	return domain.DocumentStatus(m.Status), nil
}

func (r *DocumentRepository) ListStatusHistory(ctx context.Context, documentID string) ([]domain.StatusHistory, error) {
	var ms []models.DocumentStatusHistory
	if err := r.conn(ctx).Where("document_id = ?", documentID).Order("changed_at, history_id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query history of document %s: %w", documentID, err)
	}
	out := make([]domain.StatusHistory, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainStatusHistory(m))
	}
	return out, nil
}

func (r *DocumentRepository) ListApprovals(ctx context.Context, documentID string) ([]domain.DocumentApproval, error) {
	var ms []models.DocumentApproval
	if err := r.conn(ctx).Where("document_id = ?", documentID).Order("step_index, created_at").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query approvals of document %s: %w", documentID, err)
	}
	out := make([]domain.DocumentApproval, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainApproval(m))
	}
	return out, nil
}

func (r *DocumentRepository) CreateDocument(ctx context.Context, doc domain.Document) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		m := mapping.ToModelDocument(doc)
		if err := tx.Create(&m).Error; err != nil {
			return translateWriteError(err, fmt.Sprintf("document %s %s", m.DocumentKey, m.Number))
		}
		return createContent(tx, doc)
	})
}

func (r *DocumentRepository) ReplaceDraftContent(ctx context.Context, rep portsrepo.ContentReplacement) error {
	doc := rep.Document
	m := mapping.ToModelDocument(doc)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := guardedUpdate(tx, doc.TenantID, doc.DocumentID, rep.ExpectedStatus, rep.ExpectedVersion, map[string]any{
			"status":          m.Status,
			"subtotal":        m.Subtotal,
			"discount_total":  m.DiscountTotal,
			"tax_total":       m.TaxTotal,
			"total":           m.Total,
			"metadata":        m.Metadata,
			"notes":           m.Notes,
			"version":         m.Version,
			"last_updated_at": m.LastUpdatedAt,
			"last_updated_by": m.LastUpdatedBy,
		})
		if err != nil {
			return err
		}
		deleted := map[string]any{"deleted_at": doc.LastUpdatedAt, "deleted_by": doc.LastUpdatedBy}
		if err := tx.Model(&models.DocumentTaxLine{}).
			Where("document_id = ? AND deleted_at IS NULL", doc.DocumentID).Updates(deleted).Error; err != nil {
			return fmt.Errorf("failed to remove tax lines: %w", err)
		}
		if err := tx.Model(&models.DocumentItem{}).
			Where("document_id = ? AND deleted_at IS NULL", doc.DocumentID).Updates(deleted).Error; err != nil {
			return fmt.Errorf("failed to remove items: %w", err)
		}
		if err := createContent(tx, doc); err != nil {
			return err
		}
		if rep.History != nil {
			h := mapping.ToModelStatusHistory(*rep.History)
			if err := tx.Create(&h).Error; err != nil {
				return translateWriteError(err, "status history")
			}
		}
		return nil
	})
}

func (r *DocumentRepository) CommitTransition(ctx context.Context, c portsrepo.TransitionCommit) error {
	m := mapping.ToModelDocument(c.Document)
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := guardedUpdate(tx, c.TenantID, c.DocumentID, c.ExpectedStatus, c.ExpectedVersion, map[string]any{
			"status":                m.Status,
			"version":               m.Version,
			"posting_date":          m.PostingDate,
			"submitted_at":          m.SubmittedAt,
			"approved_at":           m.ApprovedAt,
			"posted_at":             m.PostedAt,
			"cancelled_at":          m.CancelledAt,
			"rejected_at":           m.RejectedAt,
			"revision_requested_at": m.RevisionRequestedAt,
			"last_updated_at":       c.UpdatedAt,
			"last_updated_by":       c.UpdatedBy,
		})
		if err != nil {
			return err
		}

		if c.History != nil {
			h := mapping.ToModelStatusHistory(*c.History)
			if err := tx.Create(&h).Error; err != nil {
				return translateWriteError(err, "status history")
			}
		}
		for _, a := range c.CreateApprovals {
			am := mapping.ToModelApproval(a)
			if err := tx.Create(&am).Error; err != nil {
				return translateWriteError(err, "approval")
			}
		}
		if d := c.DecideApproval; d != nil {
			err := tx.Model(&models.DocumentApproval{}).
				Where("document_id = ? AND approval_id = ?", c.DocumentID, d.ApprovalID).
				Updates(map[string]any{
					"status":     string(d.Status),
					"decided_by": d.DecidedBy,
					"decided_at": d.DecidedAt,
					"notes":      d.Notes,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to decide approval %s: %w", d.ApprovalID, err)
			}
		}
		if c.ResolvePending != nil {
			err := tx.Model(&models.DocumentApproval{}).
				Where("document_id = ? AND status = ?", c.DocumentID, string(domain.ApprovalPending)).
				Updates(map[string]any{
					"status":     string(*c.ResolvePending),
					"decided_by": c.UpdatedBy,
					"decided_at": c.UpdatedAt,
					"notes":      c.ResolveNotes,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to resolve pending approvals: %w", err)
			}
		}
		if len(c.AccountLines) > 0 {
			lines := make([]models.DocumentAccountLine, 0, len(c.AccountLines))
			for _, l := range c.AccountLines {
				lines = append(lines, mapping.ToModelDocumentAccountLine(l))
			}
			if err := tx.Create(&lines).Error; err != nil {
				return translateWriteError(err, "account lines")
			}
		}
		for _, e := range c.OutboxEvents {
			em := mapping.ToModelOutboxEvent(e)
			var last int
			err := tx.Model(&models.OutboxEvent{}).
				Where("document_id = ? AND event_key = ?", em.DocumentID, em.EventKey).
				Select("COALESCE(MAX(event_version), 0)").Scan(&last).Error
			if err != nil {
				return fmt.Errorf("failed to read outbox version: %w", err)
			}
			em.EventVersion = last + 1
			if err := tx.Create(&em).Error; err != nil {
				return translateWriteError(err, "outbox event "+em.EventKey)
			}
		}
		return nil
	})
}

// guardedUpdate applies updates only when the persisted status and version match the caller's view.
func guardedUpdate(tx *gorm.DB, tenantID, documentID string, expectedStatus domain.DocumentStatus, expectedVersion int64, updates map[string]any) error {
	var current models.Document
	err := forUpdate(tx).Select("status", "version").
		Where("tenant_id = ? AND document_id = ? AND deleted_at IS NULL", tenantID, documentID).
		First(&current).Error
	if err != nil {
		return translateReadError(err, "document "+documentID)
	}
	if current.Status != string(expectedStatus) {
		return apperrors.NewStaleStateError(documentID, string(expectedStatus), current.Status)
	}
	if current.Version != expectedVersion {
		return apperrors.NewStaleStateError(documentID, "", "")
	}

	res := tx.Model(&models.Document{}).
		Where("tenant_id = ? AND document_id = ? AND status = ? AND version = ?",
			tenantID, documentID, string(expectedStatus), expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update document %s: %w", documentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewStaleStateError(documentID, "", "")
	}
	return nil
}

func createContent(tx *gorm.DB, doc domain.Document) error {
	if len(doc.Items) > 0 {
		items := make([]models.DocumentItem, 0, len(doc.Items))
		for _, it := range doc.Items {
			items = append(items, mapping.ToModelDocumentItem(it))
		}
		if err := tx.Create(&items).Error; err != nil {
			return translateWriteError(err, "document items")
		}
	}
	if len(doc.TaxLines) > 0 {
		lines := make([]models.DocumentTaxLine, 0, len(doc.TaxLines))
		for _, tl := range doc.TaxLines {
			lines = append(lines, mapping.ToModelDocumentTaxLine(tl))
		}
		if err := tx.Create(&lines).Error; err != nil {
			return translateWriteError(err, "document tax lines")
		}
	}
	return nil
}
