package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/google/uuid"
)

// attachmentService implements the AttachmentSvc interface
type attachmentService struct {
	BaseService
	attachmentRepo portsrepo.AttachmentRepository
	documents      portssvc.DocumentReaderSvc
	lockChecker    portssvc.DocumentLockChecker
}

// NewAttachmentService creates an attachment service. documents scopes reads to visible
// documents, lockChecker guards mutations.
func NewAttachmentService(repo portsrepo.AttachmentRepository, documents portssvc.DocumentReaderSvc, lockChecker portssvc.DocumentLockChecker, options ...ServiceOption) portssvc.AttachmentSvc {
	svc := &attachmentService{attachmentRepo: repo, documents: documents, lockChecker: lockChecker}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.AttachmentSvc = (*attachmentService)(nil)

// checkDocument makes sure the document is visible to the user and, when mutating, not locked.
func (s *attachmentService) checkDocument(ctx context.Context, tenantID, documentID, userID string, mutating bool) error {
	doc, err := s.documents.GetDocument(ctx, tenantID, documentID, userID)
	if err != nil {
		return err
	}
	if !mutating {
		return nil
	}
	status := doc.Status
	if s.lockChecker != nil {
		current, err := s.lockChecker.GetDocumentStatus(ctx, tenantID, documentID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperrors.NewNotFoundError("document", documentID)
		}
		status = *current
	}
	if domain.IsLocked(status) {
		return apperrors.NewLockedError(documentID, string(status))
	}
	return nil
}

func (s *attachmentService) AddAttachment(ctx context.Context, tenantID, documentID, userID string, req dto.AddAttachmentRequest) (*domain.Attachment, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.StorageKey) == "" {
		return nil, apperrors.NewValidationFailedError("fileName", "file name and storage key are required")
	}
	if err := s.checkDocument(ctx, tenantID, documentID, userID, true); err != nil {
		return nil, err
	}

	attachment := domain.Attachment{
		AttachmentID: uuid.NewString(),
		TenantID:     tenantID,
		DocumentID:   documentID,
		FileName:     strings.TrimSpace(req.FileName),
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
		StorageKey:   req.StorageKey,
		AuditFields:  domain.NewAuditFields(userID, s.CurrentTime()),
	}
	if err := s.attachmentRepo.SaveAttachment(ctx, attachment); err != nil {
		s.LogError(ctx, err, "Failed to save attachment", slog.String("document_id", documentID))
		return nil, err
	}
	s.LogInfo(ctx, "Attachment added",
		slog.String("attachment_id", attachment.AttachmentID),
		slog.String("document_id", documentID))
	return &attachment, nil
}

func (s *attachmentService) ListAttachments(ctx context.Context, tenantID, documentID, userID string) ([]domain.Attachment, error) {
	if err := s.checkDocument(ctx, tenantID, documentID, userID, false); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.ListAttachments(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if attachments == nil {
		return []domain.Attachment{}, nil
	}
	return attachments, nil
}

func (s *attachmentService) RemoveAttachment(ctx context.Context, tenantID, documentID, attachmentID, userID string) error {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return err
	}
	if err := s.checkDocument(ctx, tenantID, documentID, userID, true); err != nil {
		return err
	}
	attachment, err := s.attachmentRepo.FindAttachment(ctx, tenantID, attachmentID)
	if err != nil {
		return err
	}
	if attachment.DocumentID != documentID || attachment.IsDeleted() {
		return apperrors.NewNotFoundError("attachment", attachmentID)
	}
	if err := s.attachmentRepo.SoftDeleteAttachment(ctx, tenantID, attachmentID, userID, s.CurrentTime()); err != nil {
		s.LogError(ctx, err, "Failed to remove attachment", slog.String("attachment_id", attachmentID))
		return err
	}
	return nil
}
