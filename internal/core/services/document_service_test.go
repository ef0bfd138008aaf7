package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/core/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

// Stamps of transitions that happened before the one under test.
var (
	earlierSubmit  = fixedNow.Add(-72 * time.Hour)
	earlierApprove = fixedNow.Add(-48 * time.Hour)
	earlierPost    = fixedNow.Add(-24 * time.Hour)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

type DocumentServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	tenantID   string
	userID     string
	approverID string
	docRepo    *MockDocumentRepository
	authorizer *MockAuthorizer
	taxes      *MockTaxProvider
	numberer   *MockNumberer
	ledger     *MockLedgerResolver
	rules      map[domain.Module]services.PostingRule
	service    portssvc.DocumentSvcFacade
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.tenantID = "tenant-1"
	suite.userID = "user-submitter"
	suite.approverID = "user-approver"
	suite.docRepo = new(MockDocumentRepository)
	suite.authorizer = new(MockAuthorizer)
	suite.taxes = new(MockTaxProvider)
	suite.numberer = new(MockNumberer)
	suite.ledger = new(MockLedgerResolver)
	suite.rules = map[domain.Module]services.PostingRule{}

	for _, uid := range []string{suite.userID, suite.approverID} {
		suite.authorizer.On("AuthorizeUserAction", mock.Anything, uid, suite.tenantID, mock.Anything).
			Return(&domain.TenantMember{TenantID: suite.tenantID, UserID: uid, Role: domain.RoleAccountant, AccessRoleIDs: []string{"front-desk"}}, nil).Maybe()
	}
	suite.buildService()
}

func (suite *DocumentServiceTestSuite) buildService() {
	suite.service = services.NewDocumentService(
		suite.docRepo,
		services.WithDocumentTenantAuthorizer(suite.authorizer),
		services.WithPermissionChecker(suite.authorizer),
		services.WithTaxProvider(suite.taxes),
		services.WithNumberer(suite.numberer),
		services.WithLedgerResolvers(suite.ledger, suite.ledger),
		services.WithPostingRules(suite.rules),
		services.WithClock(func() time.Time { return fixedNow }),
	)
}

func (suite *DocumentServiceTestSuite) filterFor(userID string) domain.AccessFilter {
	return domain.AccessFilter{UserID: userID, RoleIDs: []string{"front-desk"}}
}

// invoice returns a sales invoice with one line of 2 x 100.00 and 10% tax.
func (suite *DocumentServiceTestSuite) invoice(status domain.DocumentStatus) *domain.Document {
	itemID := "item-line-1"
	doc := &domain.Document{
		DocumentID:   "doc-1",
		TenantID:     suite.tenantID,
		Module:       domain.ModuleSales,
		DocumentKey:  "sales.invoice",
		Number:       "INV-2026-10-000001",
		Status:       status,
		AccessScope:  domain.ScopeTenant,
		DocumentDate: fixedNow,
		CurrencyCode: "USD",
		ExchangeRate: dec("1"),
		Subtotal:     dec("200.00"),
		DiscountTotal: dec("0"),
		TaxTotal:     dec("20.00"),
		Total:        dec("220.00"),
		Version:      3,
		Items: []domain.DocumentItem{{
			DocumentItemID: itemID,
			DocumentID:     "doc-1",
			ItemID:         "membership-monthly",
			ItemName:       "Monthly membership",
			ItemType:       "SERVICE",
			Quantity:       dec("2"),
			UnitPrice:      dec("100.00"),
			DiscountAmount: dec("0"),
			TaxAmount:      dec("20.00"),
			LineTotal:      dec("220.00"),
		}},
		AuditFields: domain.NewAuditFields(suite.userID, fixedNow),
	}
	stampHistory(doc)
	return doc
}

// stampHistory sets the lifecycle stamps a document in its status would already carry.
func stampHistory(doc *domain.Document) {
	submitted, approved, posted := earlierSubmit, earlierApprove, earlierPost
	switch doc.Status {
	case domain.StatusPosted:
		doc.PostedAt, doc.PostingDate = &posted, &posted
		fallthrough
	case domain.StatusApproved:
		doc.ApprovedAt = &approved
		fallthrough
	case domain.StatusSubmitted:
		doc.SubmittedAt = &submitted
	}
}

func (suite *DocumentServiceTestSuite) expectFind(doc *domain.Document, userID string) {
	suite.docRepo.On("FindDocumentByID", mock.Anything, suite.tenantID, doc.DocumentID, suite.filterFor(userID)).Return(doc, nil).Once()
}

func (suite *DocumentServiceTestSuite) captureCommit(target *portsrepo.TransitionCommit) {
	suite.docRepo.On("CommitTransition", mock.Anything, mock.AnythingOfType("repositories.TransitionCommit")).
		Run(func(args mock.Arguments) {
			*target = args.Get(1).(portsrepo.TransitionCommit)
		}).Return(nil).Once()
}

func (suite *DocumentServiceTestSuite) createRequest(items ...dto.DocumentItemInput) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		Module:       domain.ModuleSales,
		DocumentKey:  "sales.invoice",
		Number:       "INV-1",
		DocumentDate: fixedNow,
		CurrencyCode: "usd",
		Items:        items,
	}
}

func tenPercent() domain.TaxDefinition {
	return domain.TaxDefinition{TaxID: "tax-vat", Name: "VAT 10%", Type: domain.TaxPercentage, Rate: decPtr("0.10")}
}

// --- Aggregate and totals ---

func (suite *DocumentServiceTestSuite) TestCreateDraft_ComputesTotalsAndTaxLines() {
	suite.taxes.On("ResolveTaxesFor", mock.Anything, "membership-monthly", suite.tenantID).
		Return([]domain.TaxDefinition{tenPercent()}, nil).Once()
	suite.docRepo.On("CreateDocument", mock.Anything, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	doc, err := suite.service.CreateDraft(suite.ctx, suite.tenantID, suite.userID, suite.createRequest(dto.DocumentItemInput{
		ItemID: "membership-monthly", ItemName: "Monthly membership", ItemType: "SERVICE",
		Quantity: dec("2"), UnitPrice: dec("100.00"),
	}))

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, doc.Status)
	suite.Equal("USD", doc.CurrencyCode)
	suite.Equal(int64(1), doc.Version)
	suite.Equal(domain.ScopeTenant, doc.AccessScope)
	suite.True(doc.Subtotal.Equal(dec("200.00")), doc.Subtotal.String())
	suite.True(doc.TaxTotal.Equal(dec("20.00")), doc.TaxTotal.String())
	suite.True(doc.Total.Equal(dec("220.00")), doc.Total.String())
	suite.True(doc.TotalsIdentityHolds())

	suite.Require().Len(doc.TaxLines, 1)
	line := doc.TaxLines[0]
	suite.True(line.TaxableBase.Equal(dec("200.00")))
	suite.True(line.TaxAmount.Equal(dec("20.00")))
	suite.Require().NotNil(line.DocumentItemID)
	suite.Equal(doc.Items[0].DocumentItemID, *line.DocumentItemID)
	suite.True(doc.Items[0].LineTotal.Equal(dec("220.00")))

	suite.docRepo.AssertExpectations(suite.T())
	suite.taxes.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDraft_ProratesDocumentDiscountAndDocumentTaxes() {
	suite.taxes.On("ResolveTaxesFor", mock.Anything, mock.Anything, suite.tenantID).Return([]domain.TaxDefinition{}, nil).Times(3)
	suite.taxes.On("ResolveTaxesByIDs", mock.Anything, []string{"tax-fixed"}, suite.tenantID).
		Return([]domain.TaxDefinition{{TaxID: "tax-fixed", Name: "Eco fee", Type: domain.TaxFixed, Amount: decPtr("1.50")}}, nil).Once()
	suite.docRepo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil).Once()

	req := suite.createRequest(
		dto.DocumentItemInput{ItemID: "a", ItemName: "A", ItemType: "PRODUCT", Quantity: dec("1"), UnitPrice: dec("10.00")},
		dto.DocumentItemInput{ItemID: "b", ItemName: "B", ItemType: "PRODUCT", Quantity: dec("1"), UnitPrice: dec("10.00")},
		dto.DocumentItemInput{ItemID: "c", ItemName: "C", ItemType: "PRODUCT", Quantity: dec("1"), UnitPrice: dec("10.00")},
	)
	req.DocumentDiscount = decPtr("10.00")
	req.DocumentTaxIDs = []string{"tax-fixed"}

	doc, err := suite.service.CreateDraft(suite.ctx, suite.tenantID, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(doc.DiscountTotal.Equal(dec("10.00")), doc.DiscountTotal.String())
	suite.True(doc.Items[0].DiscountAmount.Equal(dec("3.34")), doc.Items[0].DiscountAmount.String())
	suite.True(doc.Items[1].DiscountAmount.Equal(dec("3.33")))
	suite.True(doc.Items[2].DiscountAmount.Equal(dec("3.33")))
	suite.Require().Len(doc.TaxLines, 1)
	suite.Nil(doc.TaxLines[0].DocumentItemID)
	suite.True(doc.TaxLines[0].TaxableBase.Equal(dec("20.00")))
	suite.True(doc.Total.Equal(dec("21.50")), doc.Total.String())
	suite.True(doc.TotalsIdentityHolds())
}

func (suite *DocumentServiceTestSuite) TestCreateDraft_GeneratesNumberWhenMissing() {
	suite.taxes.On("ResolveTaxesFor", mock.Anything, mock.Anything, suite.tenantID).Return([]domain.TaxDefinition{}, nil)
	suite.numberer.On("NextNumber", mock.Anything, suite.tenantID, "sales.invoice").Return("INV-2026-10-000007", nil).Once()
	suite.docRepo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil).Once()

	req := suite.createRequest(dto.DocumentItemInput{ItemID: "a", ItemName: "A", ItemType: "PRODUCT", Quantity: dec("1"), UnitPrice: dec("5.00")})
	req.Number = ""

	doc, err := suite.service.CreateDraft(suite.ctx, suite.tenantID, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal("INV-2026-10-000007", doc.Number)
	suite.numberer.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDraft_ValidationFailures() {
	cases := []struct {
		name  string
		field string
		edit  func(*dto.CreateDocumentRequest)
	}{
		{"quantity zero", "items[0].quantity", func(r *dto.CreateDocumentRequest) { r.Items[0].Quantity = dec("0") }},
		{"quantity precision", "items[0].quantity", func(r *dto.CreateDocumentRequest) { r.Items[0].Quantity = dec("1.00001") }},
		{"negative price", "items[0].unitPrice", func(r *dto.CreateDocumentRequest) { r.Items[0].UnitPrice = dec("-1") }},
		{"price precision", "items[0].unitPrice", func(r *dto.CreateDocumentRequest) { r.Items[0].UnitPrice = dec("1.001") }},
		{"discount above gross", "items[0].discountAmount", func(r *dto.CreateDocumentRequest) { r.Items[0].DiscountAmount = decPtr("50.01") }},
		{"unknown key", "documentKey", func(r *dto.CreateDocumentRequest) { r.DocumentKey = "sales.unknown" }},
		{"module mismatch", "module", func(r *dto.CreateDocumentRequest) { r.Module = domain.ModulePurchase }},
		{"role scope without role", "accessRoleID", func(r *dto.CreateDocumentRequest) { r.AccessScope = domain.ScopeRole }},
		{"user id on tenant scope", "accessUserID", func(r *dto.CreateDocumentRequest) { r.AccessUserID = strPtr("someone") }},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			req := suite.createRequest(dto.DocumentItemInput{ItemID: "a", ItemName: "A", ItemType: "PRODUCT", Quantity: dec("1"), UnitPrice: dec("50.00")})
			tc.edit(&req)

			doc, err := suite.service.CreateDraft(suite.ctx, suite.tenantID, suite.userID, req)

			suite.Nil(doc)
			suite.ErrorIs(err, apperrors.ErrValidation)
			var appErr *apperrors.AppError
			suite.Require().ErrorAs(err, &appErr)
			suite.Equal(tc.field, appErr.Field)
		})
	}
	suite.docRepo.AssertNotCalled(suite.T(), "CreateDocument", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDraft_NotMember() {
	suite.authorizer.On("AuthorizeUserAction", mock.Anything, "stranger", suite.tenantID, domain.RoleMember).
		Return(nil, apperrors.NewNotFoundError("tenant", suite.tenantID)).Once()

	doc, err := suite.service.CreateDraft(suite.ctx, suite.tenantID, "stranger", suite.createRequest())

	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ReplaceDraftItems ---

func (suite *DocumentServiceTestSuite) TestReplaceDraftItems_LockedAndSubmitted() {
	for status, kind := range map[domain.DocumentStatus]error{
		domain.StatusPosted:    apperrors.ErrLocked,
		domain.StatusApproved:  apperrors.ErrLocked,
		domain.StatusCancelled: apperrors.ErrLocked,
		domain.StatusRejected:  apperrors.ErrLocked,
		domain.StatusSubmitted: apperrors.ErrInvalidTransition,
	} {
		doc := suite.invoice(status)
		suite.expectFind(doc, suite.userID)

		got, err := suite.service.ReplaceDraftItems(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.ReplaceItemsRequest{})

		suite.Nil(got)
		suite.ErrorIs(err, kind, string(status))
	}
	suite.docRepo.AssertNotCalled(suite.T(), "ReplaceDraftContent", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestReplaceDraftItems_FromRevisionMovesToDraft() {
	doc := suite.invoice(domain.StatusRevisionRequested)
	suite.expectFind(doc, suite.userID)
	suite.taxes.On("ResolveTaxesFor", mock.Anything, "towel", suite.tenantID).Return([]domain.TaxDefinition{}, nil).Once()

	var captured portsrepo.ContentReplacement
	suite.docRepo.On("ReplaceDraftContent", mock.Anything, mock.AnythingOfType("repositories.ContentReplacement")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(portsrepo.ContentReplacement) }).
		Return(nil).Once()

	got, err := suite.service.ReplaceDraftItems(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.ReplaceItemsRequest{
		ExpectedVersion: &doc.Version,
		Items:           []dto.DocumentItemInput{{ItemID: "towel", ItemName: "Towel", ItemType: "PRODUCT", Quantity: dec("3"), UnitPrice: dec("4.50")}},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, got.Status)
	suite.Equal(int64(4), got.Version)
	suite.True(got.Total.Equal(dec("13.50")))
	suite.Equal(domain.StatusRevisionRequested, captured.ExpectedStatus)
	suite.Equal(int64(3), captured.ExpectedVersion)
	suite.Require().NotNil(captured.History)
	suite.Equal(domain.StatusDraft, captured.History.ToStatus)
}

func (suite *DocumentServiceTestSuite) TestReplaceDraftItems_StaleVersion() {
	doc := suite.invoice(domain.StatusDraft)
	suite.expectFind(doc, suite.userID)
	old := int64(1)

	_, err := suite.service.ReplaceDraftItems(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.ReplaceItemsRequest{ExpectedVersion: &old})

	suite.ErrorIs(err, apperrors.ErrStaleState)
}

// --- Lifecycle ---

// Scenario B
func (suite *DocumentServiceTestSuite) TestSubmit_WithoutItemsFails() {
	doc := suite.invoice(domain.StatusDraft)
	doc.Items = nil
	suite.expectFind(doc, suite.userID)

	got, err := suite.service.Submit(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusDraft})

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestSubmit_CreatesApprovalSteps() {
	doc := suite.invoice(domain.StatusDraft)
	doc.Module, doc.DocumentKey = domain.ModulePurchase, "purchasing.po"
	suite.expectFind(doc, suite.userID)
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	got, err := suite.service.Submit(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusDraft})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSubmitted, got.Status)
	suite.Equal(int64(4), got.Version)
	suite.Require().NotNil(got.SubmittedAt)
	suite.Equal(fixedNow, *got.SubmittedAt)
	suite.Equal(domain.StatusDraft, commit.ExpectedStatus)
	suite.Equal(int64(3), commit.ExpectedVersion)
	suite.Require().Len(commit.CreateApprovals, 2)
	suite.Equal(0, commit.CreateApprovals[0].StepIndex)
	suite.Equal(1, commit.CreateApprovals[1].StepIndex)
	suite.Equal(suite.userID, commit.CreateApprovals[1].RequestedBy)
	suite.Require().NotNil(commit.History)
	suite.Equal(domain.StatusSubmitted, commit.History.ToStatus)
}

func (suite *DocumentServiceTestSuite) TestSubmit_JournalNeedsTwoLines() {
	doc := suite.invoice(domain.StatusDraft)
	doc.Module, doc.DocumentKey, doc.Items = domain.ModuleAccounting, "accounting.journal", nil
	doc.Metadata = map[string]any{domain.MetadataJournalLines: []any{
		map[string]any{"accountID": "acc-cash", "debitAmount": "10.00", "creditAmount": "0"},
	}}
	suite.expectFind(doc, suite.userID)

	_, err := suite.service.Submit(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusDraft})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestTransition_StaleFromStatus() {
	doc := suite.invoice(domain.StatusApproved)
	suite.expectFind(doc, suite.approverID)

	got, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrStaleState)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestTransition_IllegalMoveHasNoWrite() {
	doc := suite.invoice(domain.StatusDraft)
	suite.expectFind(doc, suite.userID)

	_, err := suite.service.Post(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusDraft})

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestTransition_TerminalStatesStayTerminal() {
	for _, status := range []domain.DocumentStatus{domain.StatusCancelled, domain.StatusRejected} {
		doc := suite.invoice(status)
		suite.expectFind(doc, suite.userID)

		_, err := suite.service.Submit(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: status})

		suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	}
}

// Scenario C
func (suite *DocumentServiceTestSuite) TestApprove_BySubmitterIsForbidden() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.userID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.userID).Return(true, nil).Once()
	suite.docRepo.On("ListApprovals", mock.Anything, doc.DocumentID).Return([]domain.DocumentApproval{
		{ApprovalID: "ap-0", DocumentID: doc.DocumentID, StepIndex: 0, Status: domain.ApprovalPending, RequestedBy: suite.userID},
	}, nil).Once()

	got, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestApprove_WithoutPermissionIsForbidden() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.approverID).Return(false, nil).Once()

	_, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DocumentServiceTestSuite) TestApprove_IntermediateStepKeepsSubmitted() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	suite.docRepo.On("ListApprovals", mock.Anything, doc.DocumentID).Return([]domain.DocumentApproval{
		{ApprovalID: "ap-1", StepIndex: 1, Status: domain.ApprovalPending, RequestedBy: suite.userID},
		{ApprovalID: "ap-0", StepIndex: 0, Status: domain.ApprovalPending, RequestedBy: suite.userID},
	}, nil).Once()
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	got, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSubmitted, got.Status)
	suite.Equal(int64(4), got.Version)
	suite.Nil(got.ApprovedAt)
	suite.Nil(commit.History)
	suite.Require().NotNil(commit.DecideApproval)
	suite.Equal("ap-0", commit.DecideApproval.ApprovalID)
	suite.Equal(domain.ApprovalApproved, commit.DecideApproval.Status)
}

func (suite *DocumentServiceTestSuite) TestApprove_LastStepApproves() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	suite.docRepo.On("ListApprovals", mock.Anything, doc.DocumentID).Return([]domain.DocumentApproval{
		{ApprovalID: "ap-0", StepIndex: 0, Status: domain.ApprovalApproved, RequestedBy: suite.userID},
		{ApprovalID: "ap-1", StepIndex: 1, Status: domain.ApprovalPending, RequestedBy: suite.userID},
	}, nil).Once()
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	got, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, got.Status)
	suite.NotNil(got.ApprovedAt)
	suite.Require().NotNil(commit.History)
	suite.Equal(domain.StatusApproved, commit.History.ToStatus)
	suite.Equal("ap-1", commit.DecideApproval.ApprovalID)
}

func (suite *DocumentServiceTestSuite) TestApprove_HistoryReadFailureIsRefused() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.userID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.userID).Return(true, nil).Once()
	suite.docRepo.On("ListApprovals", mock.Anything, doc.DocumentID).Return([]domain.DocumentApproval{}, nil).Once()
	suite.docRepo.On("ListStatusHistory", mock.Anything, doc.DocumentID).Return(nil, errors.New("connection reset")).Once()

	got, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.Nil(got)
	suite.Error(err)
	suite.Contains(err.Error(), "status history")
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestApprove_WithoutStepsSubmitterFromHistoryIsForbidden() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.userID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.userID).Return(true, nil).Once()
	suite.docRepo.On("ListApprovals", mock.Anything, doc.DocumentID).Return([]domain.DocumentApproval{}, nil).Once()
	suite.docRepo.On("ListStatusHistory", mock.Anything, doc.DocumentID).Return([]domain.StatusHistory{
		{DocumentID: doc.DocumentID, FromStatus: domain.StatusDraft, ToStatus: domain.StatusSubmitted, ChangedBy: suite.userID},
	}, nil).Once()

	_, err := suite.service.Approve(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestReject_RequiresReason() {
	_, err := suite.service.Reject(suite.ctx, suite.tenantID, "doc-1", suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted, Reason: strPtr("  ")})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.docRepo.AssertNotCalled(suite.T(), "FindDocumentByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestRequestRevision_ResolvesPendingApprovals() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanApprove", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	got, err := suite.service.RequestRevision(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID,
		dto.TransitionRequest{FromStatus: domain.StatusSubmitted, Reason: strPtr("wrong quantity")})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRevisionRequested, got.Status)
	suite.NotNil(got.RevisionRequestedAt)
	suite.Require().NotNil(commit.ResolvePending)
	suite.Equal(domain.ApprovalRevisionRequested, *commit.ResolvePending)
	suite.Equal("wrong quantity", *commit.History.Reason)
}

func (suite *DocumentServiceTestSuite) ledgerAccounts() map[string]domain.ChartOfAccount {
	mk := func(id, code string) domain.ChartOfAccount {
		return domain.ChartOfAccount{AccountID: id, TenantID: suite.tenantID, Code: code, IsActive: true}
	}
	return map[string]domain.ChartOfAccount{
		"1100": mk("acc-ar", "1100"),
		"4000": mk("acc-revenue", "4000"),
		"2100": mk("acc-tax", "2100"),
	}
}

func (suite *DocumentServiceTestSuite) TestPost_SalesInvoiceWritesBalancedLinesAndEvent() {
	doc := suite.invoice(domain.StatusApproved)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanPost", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	suite.ledger.On("ResolveByCodes", mock.Anything, suite.tenantID, []string{"1100", "4000", "2100"}).Return(suite.ledgerAccounts(), nil).Once()
	suite.ledger.On("ResolveByIDs", mock.Anything, suite.tenantID, mock.Anything).Return(map[string]domain.ChartOfAccount{}, nil).Once()
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	got, err := suite.service.Post(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusApproved})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, got.Status)
	suite.NotNil(got.PostedAt)
	suite.NotNil(got.PostingDate)

	suite.Require().Len(commit.AccountLines, 3)
	suite.Equal("acc-ar", commit.AccountLines[0].AccountID)
	suite.True(commit.AccountLines[0].DebitAmount.Equal(dec("220.00")))
	suite.Equal("acc-revenue", commit.AccountLines[1].AccountID)
	suite.True(commit.AccountLines[1].CreditAmount.Equal(dec("200.00")))
	suite.Equal("acc-tax", commit.AccountLines[2].AccountID)
	suite.True(commit.AccountLines[2].CreditAmount.Equal(dec("20.00")))
	for _, l := range commit.AccountLines {
		suite.NoError(l.Validate())
	}

	suite.Require().Len(commit.OutboxEvents, 1)
	suite.Equal("sales.invoice.posted", commit.OutboxEvents[0].EventKey)
	suite.Equal(domain.OutboxPending, commit.OutboxEvents[0].Status)
	suite.Len(got.AccountLines, 3)
}

// Scenario D
func (suite *DocumentServiceTestSuite) TestPost_UnbalancedRuleLeavesDocumentApproved() {
	suite.rules[domain.ModuleSales] = func(in services.PostingInput) ([]services.PostingLine, error) {
		return []services.PostingLine{
			{AccountCode: "1100", DebitAmount: dec("220.00"), CreditAmount: decimal.Zero},
			{AccountCode: "4000", DebitAmount: decimal.Zero, CreditAmount: dec("200.00")},
		}, nil
	}
	suite.buildService()

	doc := suite.invoice(domain.StatusApproved)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanPost", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	suite.ledger.On("ResolveByCodes", mock.Anything, suite.tenantID, mock.Anything).Return(suite.ledgerAccounts(), nil).Once()
	suite.ledger.On("ResolveByIDs", mock.Anything, suite.tenantID, mock.Anything).Return(map[string]domain.ChartOfAccount{}, nil).Once()

	got, err := suite.service.Post(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusApproved})

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnbalancedLedger)
	suite.Equal(domain.StatusApproved, doc.Status)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestPost_InactiveAccountIsValidationError() {
	doc := suite.invoice(domain.StatusApproved)
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanPost", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	accounts := suite.ledgerAccounts()
	revenue := accounts["4000"]
	revenue.IsActive = false
	accounts["4000"] = revenue
	suite.ledger.On("ResolveByCodes", mock.Anything, suite.tenantID, mock.Anything).Return(accounts, nil).Once()
	suite.ledger.On("ResolveByIDs", mock.Anything, suite.tenantID, mock.Anything).Return(map[string]domain.ChartOfAccount{}, nil).Once()

	_, err := suite.service.Post(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID, dto.TransitionRequest{FromStatus: domain.StatusApproved})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.docRepo.AssertNotCalled(suite.T(), "CommitTransition", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestPost_WithoutPermissionIsForbidden() {
	doc := suite.invoice(domain.StatusApproved)
	suite.expectFind(doc, suite.userID)
	suite.authorizer.On("CanPost", mock.Anything, suite.tenantID, suite.userID).Return(false, nil).Once()

	_, err := suite.service.Post(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusApproved})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DocumentServiceTestSuite) TestCancel_PostedWritesReversal() {
	doc := suite.invoice(domain.StatusPosted)
	doc.AccountLines = []domain.DocumentAccountLine{
		{AccountLineID: "l1", AccountID: "acc-ar", DebitAmount: dec("220.00"), CreditAmount: decimal.Zero, SortOrder: 0},
		{AccountLineID: "l2", AccountID: "acc-revenue", DebitAmount: decimal.Zero, CreditAmount: dec("200.00"), SortOrder: 1},
		{AccountLineID: "l3", AccountID: "acc-tax", DebitAmount: decimal.Zero, CreditAmount: dec("20.00"), SortOrder: 2},
	}
	suite.expectFind(doc, suite.approverID)
	suite.authorizer.On("CanPost", mock.Anything, suite.tenantID, suite.approverID).Return(true, nil).Once()
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	got, err := suite.service.Cancel(suite.ctx, suite.tenantID, doc.DocumentID, suite.approverID,
		dto.TransitionRequest{FromStatus: domain.StatusPosted, Reason: strPtr("duplicate sale")})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, got.Status)
	suite.Require().NotNil(got.CancelledAt)
	suite.Equal(fixedNow, *got.CancelledAt)
	suite.Require().NotNil(got.SubmittedAt)
	suite.Require().NotNil(got.ApprovedAt)
	suite.Require().NotNil(got.PostedAt)
	suite.Equal(earlierSubmit, *got.SubmittedAt)
	suite.Equal(earlierApprove, *got.ApprovedAt)
	suite.Equal(earlierPost, *got.PostedAt)
	suite.Require().Len(commit.AccountLines, 3)
	suite.True(commit.AccountLines[0].CreditAmount.Equal(dec("220.00")))
	suite.Equal("l1", commit.AccountLines[0].Metadata[domain.MetadataReversalOf])
	suite.NotEqual("l1", commit.AccountLines[0].AccountLineID)
	suite.Equal(3, commit.AccountLines[0].SortOrder)
	suite.Require().Len(commit.OutboxEvents, 1)
	suite.Equal("sales.invoice.cancelled", commit.OutboxEvents[0].EventKey)
	suite.Len(got.AccountLines, 6)
}

func (suite *DocumentServiceTestSuite) TestCancel_SubmittedResolvesApprovals() {
	doc := suite.invoice(domain.StatusSubmitted)
	suite.expectFind(doc, suite.userID)
	var commit portsrepo.TransitionCommit
	suite.captureCommit(&commit)

	_, err := suite.service.Cancel(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusSubmitted})

	suite.Require().NoError(err)
	suite.Empty(commit.AccountLines)
	suite.Require().NotNil(commit.ResolvePending)
	suite.Equal(domain.ApprovalRejected, *commit.ResolvePending)
}

func (suite *DocumentServiceTestSuite) TestCommitStaleIsReturned() {
	doc := suite.invoice(domain.StatusDraft)
	suite.expectFind(doc, suite.userID)
	suite.docRepo.On("CommitTransition", mock.Anything, mock.Anything).Return(apperrors.NewStaleStateError(doc.DocumentID, "", "")).Once()

	_, err := suite.service.Cancel(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID, dto.TransitionRequest{FromStatus: domain.StatusDraft})

	suite.ErrorIs(err, apperrors.ErrStaleState)
}

// --- Reads ---

func (suite *DocumentServiceTestSuite) TestGetDocument_InvisibleIsNotFound() {
	suite.docRepo.On("FindDocumentByID", mock.Anything, suite.tenantID, "doc-x", suite.filterFor(suite.userID)).
		Return(nil, apperrors.NewNotFoundError("document", "doc-x")).Once()

	_, err := suite.service.GetDocument(suite.ctx, suite.tenantID, "doc-x", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DocumentServiceTestSuite) TestGetDocumentStatus() {
	suite.docRepo.On("FindDocumentStatus", mock.Anything, suite.tenantID, "doc-1").Return(domain.StatusPosted, nil).Once()
	suite.docRepo.On("FindDocumentStatus", mock.Anything, suite.tenantID, "doc-missing").Return(domain.DocumentStatus(""), apperrors.ErrNotFound).Once()

	status, err := suite.service.GetDocumentStatus(suite.ctx, suite.tenantID, "doc-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, *status)

	status, err = suite.service.GetDocumentStatus(suite.ctx, suite.tenantID, "doc-missing")
	suite.Require().NoError(err)
	suite.Nil(status)
}

func (suite *DocumentServiceTestSuite) TestGetVisibleDocumentStatus_AppliesScope() {
	doc := suite.invoice(domain.StatusPosted)
	suite.expectFind(doc, suite.userID)
	suite.docRepo.On("FindDocumentByID", mock.Anything, suite.tenantID, "doc-private", suite.filterFor(suite.userID)).
		Return(nil, apperrors.NewNotFoundError("document", "doc-private")).Once()

	status, err := suite.service.GetVisibleDocumentStatus(suite.ctx, suite.tenantID, doc.DocumentID, suite.userID)
	suite.Require().NoError(err)
	suite.Require().NotNil(status)
	suite.Equal(domain.StatusPosted, *status)

	status, err = suite.service.GetVisibleDocumentStatus(suite.ctx, suite.tenantID, "doc-private", suite.userID)
	suite.Require().NoError(err)
	suite.Nil(status)
	suite.docRepo.AssertNotCalled(suite.T(), "FindDocumentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_PagesWithToken() {
	first, second := *suite.invoice(domain.StatusDraft), *suite.invoice(domain.StatusDraft)
	second.DocumentID = "doc-2"
	suite.docRepo.On("ListDocuments", mock.Anything, suite.tenantID, mock.MatchedBy(func(q portsrepo.ListDocumentsQuery) bool {
		return q.Limit == 2 && q.Status != nil && *q.Status == domain.StatusDraft
	}), suite.filterFor(suite.userID)).Return([]domain.Document{first, second}, nil).Once()

	resp, err := suite.service.ListDocuments(suite.ctx, suite.tenantID, suite.userID, dto.ListDocumentsParams{Limit: 1, Status: "DRAFT"})

	suite.Require().NoError(err)
	suite.Len(resp.Documents, 1)
	suite.Require().NotNil(resp.NextToken)
	_, _, id, err := pagination.DecodeToken(*resp.NextToken)
	suite.Require().NoError(err)
	suite.Equal("doc-1", id)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
