package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/core/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TagServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	repo     *MockTagRepository
	docRepo  *MockDocumentRepository
	locks    *MockLockChecker
	service  portssvc.TagSvc
	tenantID string
	userID   string
}

func (suite *TagServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = new(MockTagRepository)
	suite.docRepo = new(MockDocumentRepository)
	suite.locks = new(MockLockChecker)
	suite.service = services.NewTagService(suite.repo, services.NewDocumentService(suite.docRepo), suite.locks)
	suite.tenantID = "tenant-1"
	suite.userID = "user-1"
}

// visible makes documentID readable by the suite user.
func (suite *TagServiceTestSuite) visible(documentID string) {
	suite.docRepo.On("FindDocumentByID", mock.Anything, suite.tenantID, documentID, suite.filter()).
		Return(&domain.Document{DocumentID: documentID, TenantID: suite.tenantID, Status: domain.StatusDraft}, nil).Once()
}

// hidden makes documentID invisible to the suite user.
func (suite *TagServiceTestSuite) hidden(documentID string) {
	suite.docRepo.On("FindDocumentByID", mock.Anything, suite.tenantID, documentID, suite.filter()).
		Return(nil, apperrors.NewNotFoundError("document", documentID)).Once()
}

func (suite *TagServiceTestSuite) filter() domain.AccessFilter {
	return domain.AccessFilter{UserID: suite.userID, RoleIDs: []string{}}
}

func (suite *TagServiceTestSuite) status(s domain.DocumentStatus) *domain.DocumentStatus {
	return &s
}

// Scenario E: tags on posted documents are frozen.
func (suite *TagServiceTestSuite) TestAssign_LockedDocument() {
	for _, st := range []domain.DocumentStatus{domain.StatusPosted, domain.StatusApproved} {
		suite.visible("doc-1")
		suite.locks.On("GetDocumentStatus", mock.Anything, suite.tenantID, "doc-1").Return(suite.status(st), nil).Once()

		tags, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{
			ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-1", Names: []string{"vip"},
		})

		suite.Nil(tags)
		suite.ErrorIs(err, apperrors.ErrLocked, string(st))
	}
	suite.repo.AssertNotCalled(suite.T(), "FindOrCreateTags", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "LinkTags", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TagServiceTestSuite) TestAssign_DraftDocumentDedupesNames() {
	suite.visible("doc-1")
	suite.locks.On("GetDocumentStatus", mock.Anything, suite.tenantID, "doc-1").Return(suite.status(domain.StatusDraft), nil).Once()
	vip := domain.Tag{TagID: "tag-vip", TenantID: suite.tenantID, Name: "VIP", NameNormalized: "vip", IsActive: true}
	suite.repo.On("FindOrCreateTags", mock.Anything, suite.tenantID, map[string]string{"vip": "VIP"}, suite.userID, mock.Anything).
		Return([]domain.Tag{vip}, nil).Once()
	suite.repo.On("LinkTags", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1", []string{"tag-vip"}, suite.userID, mock.Anything).
		Return(nil).Once()
	suite.repo.On("ListTagsForResource", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1").Return([]domain.Tag{vip}, nil).Once()

	tags, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{
		ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-1", Names: []string{"VIP", " vip "},
	})

	suite.Require().NoError(err)
	suite.Len(tags, 1)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *TagServiceTestSuite) TestAssign_CancelledAfterPostingIsTaggable() {
	suite.visible("doc-1")
	suite.locks.On("GetDocumentStatus", mock.Anything, suite.tenantID, "doc-1").Return(suite.status(domain.StatusCancelled), nil).Once()
	audit := domain.Tag{TagID: "tag-audit", NameNormalized: "audit"}
	suite.repo.On("FindOrCreateTags", mock.Anything, suite.tenantID, map[string]string{"audit": "audit"}, suite.userID, mock.Anything).
		Return([]domain.Tag{audit}, nil).Once()
	suite.repo.On("LinkTags", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1", []string{"tag-audit"}, suite.userID, mock.Anything).
		Return(nil).Once()
	suite.repo.On("ListTagsForResource", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1").Return([]domain.Tag{audit}, nil).Once()

	tags, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{
		ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-1", Names: []string{"audit"},
	})

	suite.Require().NoError(err)
	suite.Len(tags, 1)
}

func (suite *TagServiceTestSuite) TestAssign_DocumentGoneBeforeLockCheckIsNotFound() {
	suite.visible("doc-404")
	suite.locks.On("GetDocumentStatus", mock.Anything, suite.tenantID, "doc-404").Return(nil, nil).Once()

	_, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{
		ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-404", Names: []string{"x"},
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TagServiceTestSuite) TestDocumentOutsideScopeIsNotFound() {
	req := dto.TagRequest{ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-private", Names: []string{"vip"}}

	suite.hidden("doc-private")
	_, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, req)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.hidden("doc-private")
	_, err = suite.service.Sync(suite.ctx, suite.tenantID, suite.userID, req)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.hidden("doc-private")
	err = suite.service.Remove(suite.ctx, suite.tenantID, suite.userID, req)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.hidden("doc-private")
	tags, err := suite.service.TagsForResource(suite.ctx, suite.tenantID, suite.userID, domain.ResourceTypeDocument, "doc-private")
	suite.Nil(tags)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.locks.AssertNotCalled(suite.T(), "GetDocumentStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "LinkTags", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "UnlinkTags", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "ListTagsForResource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.docRepo.AssertExpectations(suite.T())
}

func (suite *TagServiceTestSuite) TestTagsForResource_VisibleDocument() {
	suite.visible("doc-1")
	suite.repo.On("ListTagsForResource", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1").
		Return([]domain.Tag{{TagID: "tag-vip", NameNormalized: "vip"}}, nil).Once()

	tags, err := suite.service.TagsForResource(suite.ctx, suite.tenantID, suite.userID, domain.ResourceTypeDocument, "doc-1")

	suite.Require().NoError(err)
	suite.Len(tags, 1)
}

func (suite *TagServiceTestSuite) TestAssign_OtherResourcesSkipLockCheck() {
	suite.repo.On("FindOrCreateTags", mock.Anything, suite.tenantID, mock.Anything, suite.userID, mock.Anything).
		Return([]domain.Tag{{TagID: "t1"}}, nil).Once()
	suite.repo.On("LinkTags", mock.Anything, suite.tenantID, "member", "m-1", []string{"t1"}, suite.userID, mock.Anything).Return(nil).Once()
	suite.repo.On("ListTagsForResource", mock.Anything, suite.tenantID, "member", "m-1").Return([]domain.Tag{{TagID: "t1"}}, nil).Once()

	_, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{ResourceType: "member", ResourceID: "m-1", Names: []string{"morning"}})

	suite.Require().NoError(err)
	suite.locks.AssertNotCalled(suite.T(), "GetDocumentStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.docRepo.AssertNotCalled(suite.T(), "FindDocumentByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TagServiceTestSuite) TestAssign_EmptyNameRejected() {
	_, err := suite.service.Assign(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{ResourceType: "member", ResourceID: "m-1", Names: []string{"  "}})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TagServiceTestSuite) TestSync_RemovesTagsNotNamed() {
	suite.visible("doc-1")
	suite.locks.On("GetDocumentStatus", mock.Anything, suite.tenantID, "doc-1").Return(suite.status(domain.StatusSubmitted), nil).Once()
	current := []domain.Tag{
		{TagID: "t-keep", NameNormalized: "keep"},
		{TagID: "t-drop", NameNormalized: "drop"},
	}
	suite.repo.On("ListTagsForResource", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1").Return(current, nil).Once()
	suite.repo.On("FindOrCreateTags", mock.Anything, suite.tenantID, map[string]string{"keep": "keep"}, suite.userID, mock.Anything).
		Return(current[:1], nil).Once()
	suite.repo.On("LinkTags", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1", []string{"t-keep"}, suite.userID, mock.Anything).Return(nil).Once()
	suite.repo.On("UnlinkTags", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1", []string{"t-drop"}).Return(nil).Once()
	suite.repo.On("ListTagsForResource", mock.Anything, suite.tenantID, domain.ResourceTypeDocument, "doc-1").Return(current[:1], nil).Once()

	tags, err := suite.service.Sync(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{
		ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-1", Names: []string{"keep"},
	})

	suite.Require().NoError(err)
	suite.Len(tags, 1)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *TagServiceTestSuite) TestRemove_LockedDocument() {
	suite.visible("doc-1")
	suite.locks.On("GetDocumentStatus", mock.Anything, suite.tenantID, "doc-1").Return(suite.status(domain.StatusPosted), nil).Once()

	err := suite.service.Remove(suite.ctx, suite.tenantID, suite.userID, dto.TagRequest{
		ResourceType: domain.ResourceTypeDocument, ResourceID: "doc-1", Names: []string{"vip"},
	})

	suite.ErrorIs(err, apperrors.ErrLocked)
}

func (suite *TagServiceTestSuite) TestSuggest_NormalizesPrefix() {
	suite.repo.On("ListTags", mock.Anything, suite.tenantID, "vi", 10).Return(nil, nil).Once()

	tags, err := suite.service.Suggest(suite.ctx, suite.tenantID, suite.userID, " VI ")

	suite.Require().NoError(err)
	suite.NotNil(tags)
	suite.Empty(tags)
}

func TestTagServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TagServiceTestSuite))
}
