package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/google/uuid"
)

// maxAccountDepth bounds the parent walk so corrupted data can never loop forever.
const maxAccountDepth = 64

// chartOfAccountsService implements the ChartOfAccountsSvc interface
type chartOfAccountsService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// ServiceOption is a functional option for configuring the registry services
type ServiceOption func(*BaseService)

// WithTenantAuthorizer adds tenant authorizer dependency
func WithTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) ServiceOption {
	return func(s *BaseService) {
		s.TenantAuthorizer = authorizer
	}
}

// NewChartOfAccountsService creates a new chart of accounts service with the provided options
func NewChartOfAccountsService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.ChartOfAccountsSvc {
	svc := &chartOfAccountsService{accountRepo: repo}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

// Ensure chartOfAccountsService implements the ChartOfAccountsSvc interface
var _ portssvc.ChartOfAccountsSvc = (*chartOfAccountsService)(nil)

func (s *chartOfAccountsService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.ChartOfAccount, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		s.LogDebug(ctx, "User not authorized to create account",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationFailedError("code", "account code is required")
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationFailedError("accountType", fmt.Sprintf("invalid account type '%s'", req.AccountType))
	}

	accountID := uuid.NewString()
	if req.ParentID != nil && *req.ParentID != "" {
		if err := s.checkParent(ctx, tenantID, accountID, *req.ParentID); err != nil {
			return nil, err
		}
	} else {
		req.ParentID = nil
	}

	account := domain.ChartOfAccount{
		AccountID:   accountID,
		TenantID:    tenantID,
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		AccountType: req.AccountType,
		ParentID:    req.ParentID,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.CurrentTime()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account",
				slog.String("account_id", account.AccountID),
				slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

func (s *chartOfAccountsService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.ChartOfAccount, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, apperrors.NewValidationFailedError("code", "account code cannot be empty")
		}
		if code != account.Code {
			usage, err := s.accountRepo.CountAccountUsage(ctx, tenantID, accountID)
			if err != nil {
				s.LogError(ctx, err, "Failed to count account usage", slog.String("account_id", accountID))
				return nil, fmt.Errorf("failed to check account usage: %w", err)
			}
			if usage > 0 {
				return nil, apperrors.NewValidationFailedError("code",
					fmt.Sprintf("account code cannot change, %d account lines reference it", usage))
			}
			account.Code = code
		}
	}
	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
	}
	switch {
	case req.ClearParent:
		account.ParentID = nil
	case req.ParentID != nil && *req.ParentID != "":
		if err := s.checkParent(ctx, tenantID, accountID, *req.ParentID); err != nil {
			return nil, err
		}
		parent := *req.ParentID
		account.ParentID = &parent
	}

	account.Touch(userID, s.CurrentTime())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", accountID),
		slog.String("tenant_id", tenantID))
	return account, nil
}

func (s *chartOfAccountsService) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}

	account.IsActive = false
	account.Touch(userID, s.CurrentTime())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("tenant_id", tenantID))
	return nil
}

func (s *chartOfAccountsService) GetAccount(ctx context.Context, tenantID, accountID, userID string) (*domain.ChartOfAccount, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *chartOfAccountsService) ListAccounts(ctx context.Context, tenantID, userID string, includeInactive bool) ([]domain.ChartOfAccount, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts for tenant %s: %w", tenantID, err)
	}
	if accounts == nil {
		return []domain.ChartOfAccount{}, nil
	}
	return accounts, nil
}

func (s *chartOfAccountsService) ResolveByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartOfAccount, error) {
	if len(codes) == 0 {
		return map[string]domain.ChartOfAccount{}, nil
	}
	return s.accountRepo.FindAccountsByCodes(ctx, tenantID, codes)
}

func (s *chartOfAccountsService) ResolveByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.ChartOfAccount{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

// checkParent verifies the parent exists in the tenant and that attaching accountID under it keeps the tree acyclic.
func (s *chartOfAccountsService) checkParent(ctx context.Context, tenantID, accountID, parentID string) error {
	if parentID == accountID {
		return apperrors.NewValidationFailedError("parentID", "an account cannot be its own parent")
	}
	current := parentID
	for depth := 0; current != ""; depth++ {
		if depth >= maxAccountDepth {
			return apperrors.NewValidationFailedError("parentID", "account hierarchy is too deep")
		}
		parent, err := s.accountRepo.FindAccountByID(ctx, tenantID, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				if current == parentID {
					return apperrors.NewValidationFailedError("parentID", "parent account not found in tenant")
				}
				return nil
			}
			return fmt.Errorf("failed to load parent account: %w", err)
		}
		if parent.AccountID == accountID {
			return apperrors.NewValidationFailedError("parentID", "parent change would create a cycle")
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return nil
}
