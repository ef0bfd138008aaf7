package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/utils/accounting"
	"github.com/SscSPs/gym_document_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// documentService implements the DocumentSvcFacade interface
type documentService struct {
	BaseService
	docRepo         portsrepo.DocumentRepositoryFacade
	taxes           portssvc.TaxDefinitionProvider
	numberer        portssvc.DocumentNumberer
	permissions     portssvc.PermissionChecker
	accounts        portssvc.AccountResolver
	costCenters     portssvc.CostCenterResolver
	postingRules    map[domain.Module]PostingRule
	postingAccounts PostingAccounts
}

// DocumentServiceOption is a functional option for configuring the document service
type DocumentServiceOption func(*documentService)

// WithDocumentTenantAuthorizer adds tenant authorizer dependency
func WithDocumentTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) DocumentServiceOption {
	return func(s *documentService) {
		s.TenantAuthorizer = authorizer
	}
}

// WithPermissionChecker sets the collaborator deciding CanApprove and CanPost
func WithPermissionChecker(checker portssvc.PermissionChecker) DocumentServiceOption {
	return func(s *documentService) {
		s.permissions = checker
	}
}

// WithTaxProvider sets the tax-definition provider
func WithTaxProvider(provider portssvc.TaxDefinitionProvider) DocumentServiceOption {
	return func(s *documentService) {
		s.taxes = provider
	}
}

// WithNumberer sets the numbering collaborator used when a draft has no number
func WithNumberer(numberer portssvc.DocumentNumberer) DocumentServiceOption {
	return func(s *documentService) {
		s.numberer = numberer
	}
}

// WithLedgerResolvers sets the account and cost center lookups used while posting
func WithLedgerResolvers(accounts portssvc.AccountResolver, costCenters portssvc.CostCenterResolver) DocumentServiceOption {
	return func(s *documentService) {
		s.accounts = accounts
		s.costCenters = costCenters
	}
}

// WithPostingRules overrides the posting rule of the given modules
func WithPostingRules(rules map[domain.Module]PostingRule) DocumentServiceOption {
	return func(s *documentService) {
		for m, r := range rules {
			s.postingRules[m] = r
		}
	}
}

// WithPostingAccounts sets the account codes used by the built-in posting rules
func WithPostingAccounts(accounts PostingAccounts) DocumentServiceOption {
	return func(s *documentService) {
		s.postingAccounts = accounts
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) DocumentServiceOption {
	return func(s *documentService) {
		s.Now = now
	}
}

// NewDocumentService creates a new document service with the provided options
func NewDocumentService(repo portsrepo.DocumentRepositoryFacade, options ...DocumentServiceOption) portssvc.DocumentSvcFacade {
	svc := &documentService{
		docRepo:         repo,
		postingRules:    DefaultPostingRules(),
		postingAccounts: DefaultPostingAccounts(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure documentService implements the DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// accessFor authorizes the caller and returns the visibility filter built from the membership.
func (s *documentService) accessFor(ctx context.Context, tenantID, userID string, role domain.TenantRole) (domain.AccessFilter, error) {
	member, err := s.AuthorizeUser(ctx, userID, tenantID, role)
	if err != nil {
		return domain.AccessFilter{}, err
	}
	roles := member.AccessRoleIDs
	if roles == nil {
		roles = []string{}
	}
	return domain.AccessFilter{UserID: userID, RoleIDs: roles}, nil
}

func (s *documentService) CreateDraft(ctx context.Context, tenantID, userID string, req dto.CreateDocumentRequest) (*domain.Document, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		s.LogDebug(ctx, "User not authorized to create document",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	docType, ok := domain.LookupDocumentType(req.DocumentKey)
	if !ok {
		return nil, apperrors.NewValidationFailedError("documentKey", fmt.Sprintf("unknown document key '%s'", req.DocumentKey))
	}
	if docType.Module != req.Module {
		return nil, apperrors.NewValidationFailedError("module",
			fmt.Sprintf("document key %s belongs to module %s", docType.Key, docType.Module))
	}

	scope := req.AccessScope
	if scope == "" {
		scope = domain.ScopeTenant
	}
	if err := validateAccessScope(scope, req.AccessRoleID, req.AccessUserID); err != nil {
		return nil, err
	}

	rate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
		if !rate.IsPositive() || !accounting.HasMaxPlaces(rate, accounting.FXPlaces) {
			return nil, apperrors.NewValidationFailedError("exchangeRate", "exchange rate must be positive with at most 6 decimal places")
		}
	}
	if docType.Module == domain.ModuleAccounting {
		if _, err := domain.JournalLinesFromMetadata(req.Metadata); err != nil {
			return nil, apperrors.NewValidationFailedError("metadata.journalLines", err.Error())
		}
	}

	now := s.CurrentTime()
	documentID := uuid.NewString()
	content, err := buildContent(ctx, s.taxes, contentInput{
		TenantID:         tenantID,
		DocumentID:       documentID,
		UserID:           userID,
		Now:              now,
		Items:            req.Items,
		DocumentDiscount: req.DocumentDiscount,
		DocumentTaxIDs:   req.DocumentTaxIDs,
	})
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		if s.numberer == nil {
			return nil, apperrors.NewValidationFailedError("number", "document number is required")
		}
		number, err = s.numberer.NextNumber(ctx, tenantID, docType.Key)
		if err != nil {
			s.LogError(ctx, err, "Failed to generate document number",
				slog.String("document_key", docType.Key),
				slog.String("tenant_id", tenantID))
			return nil, fmt.Errorf("failed to generate document number: %w", err)
		}
	}

	doc := domain.Document{
		DocumentID:   documentID,
		TenantID:     tenantID,
		Module:       docType.Module,
		DocumentKey:  docType.Key,
		Number:       number,
		Status:       domain.StatusDraft,
		AccessScope:  scope,
		AccessRoleID: req.AccessRoleID,
		AccessUserID: req.AccessUserID,
		DocumentDate: req.DocumentDate,
		DueDate:      req.DueDate,
		PostingDate:  req.PostingDate,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		ExchangeRate: rate,
		PersonID:     req.PersonID,
		PersonName:   req.PersonName,
		Metadata:     req.Metadata,
		Notes:        req.Notes,
		Version:      1,
		AccountLines: []domain.DocumentAccountLine{},
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	content.apply(&doc)

	if err := s.docRepo.CreateDocument(ctx, doc); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save document",
				slog.String("document_id", documentID),
				slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Document draft created successfully",
		slog.String("document_id", documentID),
		slog.String("document_key", doc.DocumentKey),
		slog.String("number", doc.Number),
		slog.String("tenant_id", tenantID))
	return &doc, nil
}

func validateAccessScope(scope domain.AccessScope, roleID, userID *string) error {
	if !scope.IsValid() {
		return apperrors.NewValidationFailedError("accessScope", fmt.Sprintf("invalid access scope '%s'", scope))
	}
	hasRole := roleID != nil && *roleID != ""
	hasUser := userID != nil && *userID != ""
	if hasRole != (scope == domain.ScopeRole) {
		return apperrors.NewValidationFailedError("accessRoleID", "accessRoleID must be set exactly when the scope is ROLE")
	}
	if hasUser != (scope == domain.ScopeUser) {
		return apperrors.NewValidationFailedError("accessUserID", "accessUserID must be set exactly when the scope is USER")
	}
	return nil
}

func (s *documentService) ReplaceDraftItems(ctx context.Context, tenantID, documentID, userID string, req dto.ReplaceItemsRequest) (*domain.Document, error) {
	filter, err := s.accessFor(ctx, tenantID, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindDocumentByID(ctx, tenantID, documentID, filter)
	if err != nil {
		return nil, err
	}

	switch {
	case doc.IsEditable():
	case doc.Status == domain.StatusSubmitted:
		return nil, apperrors.NewInvalidTransitionError(documentID, string(doc.Status), string(domain.StatusDraft))
	default:
		return nil, apperrors.NewLockedError(documentID, string(doc.Status))
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != doc.Version {
		return nil, apperrors.NewStaleStateError(documentID, "", "")
	}

	metadata := doc.Metadata
	if req.Metadata != nil {
		metadata = req.Metadata
	}
	if doc.Module == domain.ModuleAccounting {
		if _, err := domain.JournalLinesFromMetadata(metadata); err != nil {
			return nil, apperrors.NewValidationFailedError("metadata.journalLines", err.Error())
		}
	}

	now := s.CurrentTime()
	content, err := buildContent(ctx, s.taxes, contentInput{
		TenantID:         tenantID,
		DocumentID:       documentID,
		UserID:           userID,
		Now:              now,
		Items:            req.Items,
		DocumentDiscount: req.DocumentDiscount,
		DocumentTaxIDs:   req.DocumentTaxIDs,
	})
	if err != nil {
		return nil, err
	}

	updated := *doc
	content.apply(&updated)
	updated.Metadata = metadata
	updated.Version = doc.Version + 1
	updated.Touch(userID, now)

	replacement := portsrepo.ContentReplacement{
		Document:        updated,
		ExpectedStatus:  doc.Status,
		ExpectedVersion: doc.Version,
	}
	if doc.Status == domain.StatusRevisionRequested {
		updated.Status = domain.StatusDraft
		replacement.Document = updated
		replacement.History = &domain.StatusHistory{
			HistoryID:  uuid.NewString(),
			DocumentID: documentID,
			FromStatus: domain.StatusRevisionRequested,
			ToStatus:   domain.StatusDraft,
			ChangedBy:  userID,
			ChangedAt:  now,
		}
	}

	if err := s.docRepo.ReplaceDraftContent(ctx, replacement); err != nil {
		if !errors.Is(err, apperrors.ErrStaleState) {
			s.LogError(ctx, err, "Failed to replace document items", slog.String("document_id", documentID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Document items replaced",
		slog.String("document_id", documentID),
		slog.Int("items", len(updated.Items)),
		slog.Int64("version", updated.Version))
	return &updated, nil
}

func (s *documentService) GetDocument(ctx context.Context, tenantID, documentID, userID string) (*domain.Document, error) {
	filter, err := s.accessFor(ctx, tenantID, userID, domain.RoleReadOnly)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindDocumentByID(ctx, tenantID, documentID, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, tenantID, userID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	filter, err := s.accessFor(ctx, tenantID, userID, domain.RoleReadOnly)
	if err != nil {
		return nil, err
	}

	query := portsrepo.ListDocumentsQuery{Limit: pagination.ClampLimit(params.Limit)}
	if params.Module != "" {
		m := domain.Module(params.Module)
		if !m.IsValid() {
			return nil, apperrors.NewValidationFailedError("module", fmt.Sprintf("invalid module '%s'", params.Module))
		}
		query.Module = &m
	}
	if params.DocumentKey != "" {
		key := params.DocumentKey
		query.DocumentKey = &key
	}
	if params.Status != "" {
		st := domain.DocumentStatus(params.Status)
		if !st.IsValid() {
			return nil, apperrors.NewValidationFailedError("status", fmt.Sprintf("invalid status '%s'", params.Status))
		}
		query.Status = &st
	}
	if params.NextToken != "" {
		date, createdAt, id, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("nextToken", err.Error())
		}
		query.AfterDate, query.AfterCreatedAt, query.AfterID = &date, &createdAt, &id
	}

	limit := query.Limit
	query.Limit = limit + 1
	docs, err := s.docRepo.ListDocuments(ctx, tenantID, query, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	resp := &dto.ListDocumentsResponse{}
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		token := pagination.EncodeToken(last.DocumentDate, last.CreatedAt, last.DocumentID)
		resp.NextToken = &token
	}
	resp.Documents = dto.ToListDocumentResponse(docs)
	return resp, nil
}

func (s *documentService) ListHistory(ctx context.Context, tenantID, documentID, userID string) ([]domain.StatusHistory, error) {
	if _, err := s.GetDocument(ctx, tenantID, documentID, userID); err != nil {
		return nil, err
	}
	history, err := s.docRepo.ListStatusHistory(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return []domain.StatusHistory{}, nil
	}
	return history, nil
}

func (s *documentService) ListApprovals(ctx context.Context, tenantID, documentID, userID string) ([]domain.DocumentApproval, error) {
	if _, err := s.GetDocument(ctx, tenantID, documentID, userID); err != nil {
		return nil, err
	}
	approvals, err := s.docRepo.ListApprovals(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if approvals == nil {
		return []domain.DocumentApproval{}, nil
	}
	return approvals, nil
}

func (s *documentService) DocumentTypes() []domain.DocumentType {
	return domain.DocumentTypes()
}

// GetVisibleDocumentStatus reads the status through the scoped lookup, so documents outside
// the caller's scope look the same as missing ones.
func (s *documentService) GetVisibleDocumentStatus(ctx context.Context, tenantID, documentID, userID string) (*domain.DocumentStatus, error) {
	doc, err := s.GetDocument(ctx, tenantID, documentID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	status := doc.Status
	return &status, nil
}

// GetDocumentStatus is the in-process lock check used by tags and attachments after they have
// checked visibility. It does not apply access scope and is not exposed over HTTP.
func (s *documentService) GetDocumentStatus(ctx context.Context, tenantID, documentID string) (*domain.DocumentStatus, error) {
	status, err := s.docRepo.FindDocumentStatus(ctx, tenantID, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to read document status", slog.String("document_id", documentID))
		return nil, err
	}
	return &status, nil
}
