package handlers_test

import (
	"context"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TenantService ---
type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) ListUserTenants(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}
func (m *MockTenantService) ListMembers(ctx context.Context, tenantID, requestingUserID string) ([]domain.TenantMember, error) {
	args := m.Called(ctx, tenantID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantMember), args.Error(1)
}
func (m *MockTenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
func (m *MockTenantService) AddMember(ctx context.Context, tenantID, requestingUserID string, req dto.AddMemberRequest) (*domain.TenantMember, error) {
	args := m.Called(ctx, tenantID, requestingUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMember), args.Error(1)
}
func (m *MockTenantService) UpdateMember(ctx context.Context, tenantID, requestingUserID, targetUserID string, req dto.UpdateMemberRequest) (*domain.TenantMember, error) {
	args := m.Called(ctx, tenantID, requestingUserID, targetUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMember), args.Error(1)
}
func (m *MockTenantService) AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) (*domain.TenantMember, error) {
	args := m.Called(ctx, userID, tenantID, requiredRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMember), args.Error(1)
}
func (m *MockTenantService) CanApprove(ctx context.Context, tenantID, userID string) (bool, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockTenantService) CanPost(ctx context.Context, tenantID, userID string) (bool, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.TenantSvcFacade = (*MockTenantService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ResolveByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) ResolveByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error {
	args := m.Called(ctx, tenantID, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) GetAccount(ctx context.Context, tenantID, accountID, userID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID, userID string, includeInactive bool) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

var _ portssvc.ChartOfAccountsSvc = (*MockAccountService)(nil)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) documentResult(args mock.Arguments) (*domain.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, tenantID, documentID, userID string) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID))
}
func (m *MockDocumentService) ListDocuments(ctx context.Context, tenantID, userID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	args := m.Called(ctx, tenantID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDocumentsResponse), args.Error(1)
}
func (m *MockDocumentService) ListHistory(ctx context.Context, tenantID, documentID, userID string) ([]domain.StatusHistory, error) {
	args := m.Called(ctx, tenantID, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistory), args.Error(1)
}
func (m *MockDocumentService) ListApprovals(ctx context.Context, tenantID, documentID, userID string) ([]domain.DocumentApproval, error) {
	args := m.Called(ctx, tenantID, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentApproval), args.Error(1)
}
func (m *MockDocumentService) DocumentTypes() []domain.DocumentType {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.DocumentType)
}
func (m *MockDocumentService) GetDocumentStatus(ctx context.Context, tenantID, documentID string) (*domain.DocumentStatus, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentStatus), args.Error(1)
}
func (m *MockDocumentService) GetVisibleDocumentStatus(ctx context.Context, tenantID, documentID, userID string) (*domain.DocumentStatus, error) {
	args := m.Called(ctx, tenantID, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentStatus), args.Error(1)
}
func (m *MockDocumentService) CreateDraft(ctx context.Context, tenantID, userID string, req dto.CreateDocumentRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, userID, req))
}
func (m *MockDocumentService) ReplaceDraftItems(ctx context.Context, tenantID, documentID, userID string, req dto.ReplaceItemsRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}
func (m *MockDocumentService) Submit(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}
func (m *MockDocumentService) Approve(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}
func (m *MockDocumentService) Reject(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}
func (m *MockDocumentService) RequestRevision(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}
func (m *MockDocumentService) Post(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}
func (m *MockDocumentService) Cancel(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return m.documentResult(m.Called(ctx, tenantID, documentID, userID, req))
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock IntegrationTokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) CreateToken(ctx context.Context, tenantID, userID string, req dto.CreateTokenRequest) (string, *domain.IntegrationToken, error) {
	args := m.Called(ctx, tenantID, userID, req)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.IntegrationToken), args.Error(2)
}
func (m *MockTokenService) ListTokens(ctx context.Context, tenantID, userID string) ([]domain.IntegrationToken, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrationToken), args.Error(1)
}
func (m *MockTokenService) RevokeToken(ctx context.Context, tenantID, tokenID, userID string) error {
	args := m.Called(ctx, tenantID, tokenID, userID)
	return args.Error(0)
}
func (m *MockTokenService) ValidateToken(ctx context.Context, rawKey string) (*domain.IntegrationToken, error) {
	args := m.Called(ctx, rawKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationToken), args.Error(1)
}

var _ portssvc.IntegrationTokenSvc = (*MockTokenService)(nil)
