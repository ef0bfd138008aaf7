package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/utils/pagination"
)

// suggestLimit is the number of tags returned by Suggest.
const suggestLimit = 10

// tagService implements the TagSvc interface
type tagService struct {
	BaseService
	tagRepo     portsrepo.TagRepository
	documents   portssvc.DocumentReaderSvc
	lockChecker portssvc.DocumentLockChecker
}

// NewTagService creates a tag service. Tags on documents are only reachable for documents the
// caller can see through documents, and link changes are checked against lockChecker.
func NewTagService(repo portsrepo.TagRepository, documents portssvc.DocumentReaderSvc, lockChecker portssvc.DocumentLockChecker, options ...ServiceOption) portssvc.TagSvc {
	svc := &tagService{tagRepo: repo, documents: documents, lockChecker: lockChecker}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.TagSvc = (*tagService)(nil)

// normalizeNames dedupes names by their normalized form, keeping the first display spelling.
func normalizeNames(names []string) (map[string]string, []string, error) {
	byNorm := make(map[string]string, len(names))
	order := make([]string, 0, len(names))
	for _, n := range names {
		norm := domain.NormalizeTagName(n)
		if norm == "" {
			return nil, nil, apperrors.NewValidationFailedError("names", "tag names cannot be empty")
		}
		if _, ok := byNorm[norm]; ok {
			continue
		}
		byNorm[norm] = n
		order = append(order, norm)
	}
	return byNorm, order, nil
}

// checkVisible hides documents outside the caller's access scope.
func (s *tagService) checkVisible(ctx context.Context, tenantID, userID, resourceType, resourceID string) error {
	if resourceType != domain.ResourceTypeDocument || s.documents == nil {
		return nil
	}
	_, err := s.documents.GetDocument(ctx, tenantID, resourceID, userID)
	return err
}

// checkMutable rejects link changes on invisible or locked documents.
func (s *tagService) checkMutable(ctx context.Context, tenantID, userID, resourceType, resourceID string) error {
	if err := s.checkVisible(ctx, tenantID, userID, resourceType, resourceID); err != nil {
		return err
	}
	if resourceType != domain.ResourceTypeDocument || s.lockChecker == nil {
		return nil
	}
	status, err := s.lockChecker.GetDocumentStatus(ctx, tenantID, resourceID)
	if err != nil {
		return err
	}
	if status == nil {
		return apperrors.NewNotFoundError("document", resourceID)
	}
	if domain.IsLocked(*status) {
		s.LogDebug(ctx, "Tag change rejected on locked document",
			slog.String("document_id", resourceID),
			slog.String("status", string(*status)))
		return apperrors.NewLockedError(resourceID, string(*status))
	}
	return nil
}

func tagIDs(tags []domain.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.TagID
	}
	return ids
}

// Assign links the named tags to the resource, creating tags that do not exist yet.
func (s *tagService) Assign(ctx context.Context, tenantID, userID string, req dto.TagRequest) ([]domain.Tag, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}
	names, _, err := normalizeNames(req.Names)
	if err != nil {
		return nil, err
	}
	if err := s.checkMutable(ctx, tenantID, userID, req.ResourceType, req.ResourceID); err != nil {
		return nil, err
	}

	now := s.CurrentTime()
	if len(names) > 0 {
		tags, err := s.tagRepo.FindOrCreateTags(ctx, tenantID, names, userID, now)
		if err != nil {
			s.LogError(ctx, err, "Failed to create tags", slog.String("tenant_id", tenantID))
			return nil, err
		}
		if err := s.tagRepo.LinkTags(ctx, tenantID, req.ResourceType, req.ResourceID, tagIDs(tags), userID, now); err != nil {
			s.LogError(ctx, err, "Failed to link tags", slog.String("resource_id", req.ResourceID))
			return nil, err
		}
	}
	return s.tagRepo.ListTagsForResource(ctx, tenantID, req.ResourceType, req.ResourceID)
}

// Sync makes the resource's tags exactly the named set.
func (s *tagService) Sync(ctx context.Context, tenantID, userID string, req dto.TagRequest) ([]domain.Tag, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}
	names, _, err := normalizeNames(req.Names)
	if err != nil {
		return nil, err
	}
	if err := s.checkMutable(ctx, tenantID, userID, req.ResourceType, req.ResourceID); err != nil {
		return nil, err
	}

	current, err := s.tagRepo.ListTagsForResource(ctx, tenantID, req.ResourceType, req.ResourceID)
	if err != nil {
		return nil, err
	}
	var remove []string
	for _, t := range current {
		if _, keep := names[t.NameNormalized]; !keep {
			remove = append(remove, t.TagID)
		}
	}

	now := s.CurrentTime()
	if len(names) > 0 {
		desired, err := s.tagRepo.FindOrCreateTags(ctx, tenantID, names, userID, now)
		if err != nil {
			return nil, err
		}
		if err := s.tagRepo.LinkTags(ctx, tenantID, req.ResourceType, req.ResourceID, tagIDs(desired), userID, now); err != nil {
			return nil, err
		}
	}
	if len(remove) > 0 {
		if err := s.tagRepo.UnlinkTags(ctx, tenantID, req.ResourceType, req.ResourceID, remove); err != nil {
			return nil, err
		}
	}
	return s.tagRepo.ListTagsForResource(ctx, tenantID, req.ResourceType, req.ResourceID)
}

// Remove unlinks the named tags from the resource. Unknown names are ignored.
func (s *tagService) Remove(ctx context.Context, tenantID, userID string, req dto.TagRequest) error {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return err
	}
	_, order, err := normalizeNames(req.Names)
	if err != nil {
		return err
	}
	if err := s.checkMutable(ctx, tenantID, userID, req.ResourceType, req.ResourceID); err != nil {
		return err
	}
	if len(order) == 0 {
		return nil
	}
	tags, err := s.tagRepo.FindTagsByNormalizedNames(ctx, tenantID, order)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	return s.tagRepo.UnlinkTags(ctx, tenantID, req.ResourceType, req.ResourceID, tagIDs(tags))
}

func (s *tagService) List(ctx context.Context, tenantID, userID string, params dto.ListTagsParams) ([]domain.Tag, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.ListTags(ctx, tenantID, domain.NormalizeTagName(params.Search), pagination.ClampLimit(params.Limit))
	if err != nil {
		return nil, err
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}

// Suggest returns the most used tags matching the prefix.
func (s *tagService) Suggest(ctx context.Context, tenantID, userID, prefix string) ([]domain.Tag, error) {
	return s.List(ctx, tenantID, userID, dto.ListTagsParams{Search: prefix, Limit: suggestLimit})
}

func (s *tagService) TagsForResource(ctx context.Context, tenantID, userID, resourceType, resourceID string) ([]domain.Tag, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if err := s.checkVisible(ctx, tenantID, userID, resourceType, resourceID); err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.ListTagsForResource(ctx, tenantID, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}
