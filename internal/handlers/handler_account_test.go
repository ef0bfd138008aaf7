package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/handlers"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/SscSPs/gym_document_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "gde-test"
)

// newTestRouter wires the real auth middleware in front of the tenant routes.
func newTestRouter(services *portssvc.ServiceContainer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1",
		middleware.APITokenAuth(services.Tokens),
		middleware.AuthMiddleware(testJWTSecret, testIssuer),
	)
	handlers.RegisterTenantRoutes(v1, services)
	return r
}

// generateTestToken creates a signed JWT for userID.
func generateTestToken(s *suite.Suite, userID string) string {
	token, err := utils.GenerateJWT(userID, testJWTSecret, time.Hour, testIssuer)
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func jsonBody(s *suite.Suite, v any) *bytes.Reader {
	b, err := json.Marshal(v)
	s.Require().NoError(err)
	return bytes.NewReader(b)
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockTokenService   *MockTokenService
	tenantID           string
	userID             string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	suite.mockAccountService = new(MockAccountService)
	suite.mockTokenService = new(MockTokenService)
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router = newTestRouter(&portssvc.ServiceContainer{
		Accounts: suite.mockAccountService,
		Tokens:   suite.mockTokenService,
	})
}

func (suite *AccountHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, jsonBody(&suite.Suite, body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+generateTestToken(&suite.Suite, suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	created := &domain.ChartOfAccount{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
		AuditFields: domain.AuditFields{CreatedBy: suite.userID},
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.tenantID, req, suite.userID).
		Return(created, nil).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1000", resp.Code)
	suite.True(resp.IsActive)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash again", AccountType: domain.Asset}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.tenantID, req, suite.userID).
		Return(nil, apperrors.NewDuplicateError("code", "1000")).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), req)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("code", body["field"])
	suite.Contains(body["error"], "1000")
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidAccountType() {
	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), map[string]any{
		"code": "1000", "name": "Cash", "accountType": "MAGIC",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_OtherTenantIsNotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccount", mock.Anything, suite.tenantID, accountID, suite.userID).
		Return(nil, apperrors.NewNotFoundError("account", accountID)).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts/%s", suite.tenantID, accountID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_IncludeInactive() {
	accounts := []domain.ChartOfAccount{
		{AccountID: uuid.NewString(), Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true},
		{AccountID: uuid.NewString(), Code: "1999", Name: "Old", AccountType: domain.Asset},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, suite.tenantID, suite.userID, true).
		Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts?includeInactive=true", suite.tenantID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_InternalErrorIsHidden() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, suite.tenantID, accountID, suite.userID).
		Return(errors.New("connection reset by peer")).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/accounts/%s/deactivate", suite.tenantID, accountID), nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestAPIKey_ActsAsIssuerWithinItsTenant() {
	token := &domain.IntegrationToken{
		TokenID:     uuid.NewString(),
		TenantID:    suite.tenantID,
		AuditFields: domain.AuditFields{CreatedBy: suite.userID},
	}
	suite.mockTokenService.On("ValidateToken", mock.Anything, "gde_key").Return(token, nil)
	suite.mockAccountService.On("ListAccounts", mock.Anything, suite.tenantID, suite.userID, false).
		Return([]domain.ChartOfAccount{}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), nil)
	req.Header.Set(middleware.APIKeyHeader, "gde_key")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestAPIKey_OtherTenantIsNotFound() {
	token := &domain.IntegrationToken{
		TokenID:     uuid.NewString(),
		TenantID:    uuid.NewString(),
		AuditFields: domain.AuditFields{CreatedBy: suite.userID},
	}
	suite.mockTokenService.On("ValidateToken", mock.Anything, "gde_key").Return(token, nil)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), nil)
	req.Header.Set(middleware.APIKeyHeader, "gde_key")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestAPIKey_Invalid() {
	suite.mockTokenService.On("ValidateToken", mock.Anything, "gde_bad").Return(nil, apperrors.ErrUnauthorized)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), nil)
	req.Header.Set(middleware.APIKeyHeader, "gde_bad")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
