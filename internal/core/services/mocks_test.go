package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Tenant ---

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant, owner domain.TenantMember) error {
	args := m.Called(ctx, tenant, owner)
	return args.Error(0)
}

func (m *MockTenantRepository) SaveMember(ctx context.Context, member domain.TenantMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTenantRepository) FindMember(ctx context.Context, tenantID, userID string) (*domain.TenantMember, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMember), args.Error(1)
}

func (m *MockTenantRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMember, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantMember), args.Error(1)
}

// MockAuthorizer stands in for tenant membership: authorization and the permission collaborator.
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) (*domain.TenantMember, error) {
	args := m.Called(ctx, userID, tenantID, requiredRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMember), args.Error(1)
}

func (m *MockAuthorizer) CanApprove(ctx context.Context, tenantID, userID string) (bool, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizer) CanPost(ctx context.Context, tenantID, userID string) (bool, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Bool(0), args.Error(1)
}

// --- Registries ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) CountAccountUsage(ctx context.Context, tenantID, accountID string) (int64, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type MockCostCenterRepository struct {
	mock.Mock
}

func (m *MockCostCenterRepository) FindCostCenterByID(ctx context.Context, tenantID, costCenterID string) (*domain.CostCenter, error) {
	args := m.Called(ctx, tenantID, costCenterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) FindCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) ListCostCenters(ctx context.Context, tenantID string, includeInactive bool) ([]domain.CostCenter, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) CountCostCenterUsage(ctx context.Context, tenantID, costCenterID string) (int64, error) {
	args := m.Called(ctx, tenantID, costCenterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCostCenterRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) error {
	args := m.Called(ctx, cc)
	return args.Error(0)
}

func (m *MockCostCenterRepository) UpdateCostCenter(ctx context.Context, cc domain.CostCenter) error {
	args := m.Called(ctx, cc)
	return args.Error(0)
}

// MockTaxProvider implements the tax-definition provider.
type MockTaxProvider struct {
	mock.Mock
}

func (m *MockTaxProvider) ResolveTaxesFor(ctx context.Context, itemID, tenantID string) ([]domain.TaxDefinition, error) {
	args := m.Called(ctx, itemID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxDefinition), args.Error(1)
}

func (m *MockTaxProvider) ResolveTaxesByIDs(ctx context.Context, taxIDs []string, tenantID string) ([]domain.TaxDefinition, error) {
	args := m.Called(ctx, taxIDs, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxDefinition), args.Error(1)
}

// MockLedgerResolver resolves accounts and cost centers for posting.
type MockLedgerResolver struct {
	mock.Mock
}

func (m *MockLedgerResolver) ResolveByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockLedgerResolver) ResolveByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}

func (m *MockLedgerResolver) ResolveCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CostCenter), args.Error(1)
}

// --- Documents ---

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, tenantID, documentID string, filter domain.AccessFilter) (*domain.Document, error) {
	args := m.Called(ctx, tenantID, documentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service cannot mutate the fixture.
	doc := *args.Get(0).(*domain.Document)
	return &doc, args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, tenantID string, query portsrepo.ListDocumentsQuery, filter domain.AccessFilter) ([]domain.Document, error) {
	args := m.Called(ctx, tenantID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentStatus(ctx context.Context, tenantID, documentID string) (domain.DocumentStatus, error) {
	args := m.Called(ctx, tenantID, documentID)
	return args.Get(0).(domain.DocumentStatus), args.Error(1)
}

func (m *MockDocumentRepository) ListStatusHistory(ctx context.Context, documentID string) ([]domain.StatusHistory, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistory), args.Error(1)
}

func (m *MockDocumentRepository) ListApprovals(ctx context.Context, documentID string) ([]domain.DocumentApproval, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentApproval), args.Error(1)
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) ReplaceDraftContent(ctx context.Context, replacement portsrepo.ContentReplacement) error {
	args := m.Called(ctx, replacement)
	return args.Error(0)
}

func (m *MockDocumentRepository) CommitTransition(ctx context.Context, commit portsrepo.TransitionCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

type MockNumberer struct {
	mock.Mock
}

func (m *MockNumberer) NextNumber(ctx context.Context, tenantID, documentKey string) (string, error) {
	args := m.Called(ctx, tenantID, documentKey)
	return args.String(0), args.Error(1)
}

// MockLockChecker answers lock-checks for tags and attachments.
type MockLockChecker struct {
	mock.Mock
}

func (m *MockLockChecker) GetDocumentStatus(ctx context.Context, tenantID, documentID string) (*domain.DocumentStatus, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentStatus), args.Error(1)
}

// --- Support ---

type MockNumberSettingRepository struct {
	mock.Mock
}

func (m *MockNumberSettingRepository) NextNumber(ctx context.Context, tenantID, documentKey string, defaults domain.NumberSetting, advance func(*domain.NumberSetting) string) (string, error) {
	args := m.Called(ctx, tenantID, documentKey, defaults, advance)
	return args.String(0), args.Error(1)
}

func (m *MockNumberSettingRepository) ListSettings(ctx context.Context, tenantID string) ([]domain.NumberSetting, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NumberSetting), args.Error(1)
}

func (m *MockNumberSettingRepository) FindSetting(ctx context.Context, tenantID, documentKey string) (*domain.NumberSetting, error) {
	args := m.Called(ctx, tenantID, documentKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberSetting), args.Error(1)
}

func (m *MockNumberSettingRepository) SaveSetting(ctx context.Context, setting domain.NumberSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FindEvent(ctx context.Context, tenantID, eventID string) (*domain.OutboxEvent, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) ListPending(ctx context.Context, tenantID string, now time.Time, limit int) ([]domain.OutboxEvent, error) {
	args := m.Called(ctx, tenantID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) UpdateEvent(ctx context.Context, event domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindOrCreateTags(ctx context.Context, tenantID string, names map[string]string, userID string, now time.Time) ([]domain.Tag, error) {
	args := m.Called(ctx, tenantID, names, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) FindTagsByNormalizedNames(ctx context.Context, tenantID string, normalized []string) ([]domain.Tag, error) {
	args := m.Called(ctx, tenantID, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) LinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, resourceType, resourceID, tagIDs, userID, now)
	return args.Error(0)
}

func (m *MockTagRepository) UnlinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string) error {
	args := m.Called(ctx, tenantID, resourceType, resourceID, tagIDs)
	return args.Error(0)
}

func (m *MockTagRepository) ListTags(ctx context.Context, tenantID, search string, limit int) ([]domain.Tag, error) {
	args := m.Called(ctx, tenantID, search, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) ListTagsForResource(ctx context.Context, tenantID, resourceType, resourceID string) ([]domain.Tag, error) {
	args := m.Called(ctx, tenantID, resourceType, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

type MockIntegrationTokenRepository struct {
	mock.Mock
}

func (m *MockIntegrationTokenRepository) Create(ctx context.Context, token domain.IntegrationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockIntegrationTokenRepository) FindByID(ctx context.Context, tokenID string) (*domain.IntegrationToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationToken), args.Error(1)
}

func (m *MockIntegrationTokenRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.IntegrationToken, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrationToken), args.Error(1)
}

func (m *MockIntegrationTokenRepository) TouchLastUsed(ctx context.Context, tokenID string, at time.Time) error {
	args := m.Called(ctx, tokenID, at)
	return args.Error(0)
}

func (m *MockIntegrationTokenRepository) Revoke(ctx context.Context, tenantID, tokenID, userID string, at time.Time) error {
	args := m.Called(ctx, tenantID, tokenID, userID, at)
	return args.Error(0)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) FindAttachment(ctx context.Context, tenantID, attachmentID string) (*domain.Attachment, error) {
	args := m.Called(ctx, tenantID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListAttachments(ctx context.Context, tenantID, documentID string) ([]domain.Attachment, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) SoftDeleteAttachment(ctx context.Context, tenantID, attachmentID, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, attachmentID, userID, now)
	return args.Error(0)
}
