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

// costCenterService implements the CostCenterSvc interface
type costCenterService struct {
	BaseService
	costCenterRepo portsrepo.CostCenterRepositoryFacade
}

// NewCostCenterService creates a new cost center service with the provided options
func NewCostCenterService(repo portsrepo.CostCenterRepositoryFacade, options ...ServiceOption) portssvc.CostCenterSvc {
	svc := &costCenterService{costCenterRepo: repo}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.CostCenterSvc = (*costCenterService)(nil)

func (s *costCenterService) CreateCostCenter(ctx context.Context, tenantID string, req dto.CreateCostCenterRequest, userID string) (*domain.CostCenter, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationFailedError("code", "cost center code is required")
	}

	cc := domain.CostCenter{
		CostCenterID: uuid.NewString(),
		TenantID:     tenantID,
		Code:         code,
		Name:         strings.TrimSpace(req.Name),
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, s.CurrentTime()),
	}
	if err := s.costCenterRepo.SaveCostCenter(ctx, cc); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save cost center", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Cost center created successfully",
		slog.String("cost_center_id", cc.CostCenterID),
		slog.String("tenant_id", tenantID))
	return &cc, nil
}

func (s *costCenterService) UpdateCostCenter(ctx context.Context, tenantID, costCenterID string, req dto.UpdateCostCenterRequest, userID string) (*domain.CostCenter, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return nil, err
	}
	cc, err := s.costCenterRepo.FindCostCenterByID(ctx, tenantID, costCenterID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, apperrors.NewValidationFailedError("code", "cost center code cannot be empty")
		}
		if code != cc.Code {
			usage, err := s.costCenterRepo.CountCostCenterUsage(ctx, tenantID, costCenterID)
			if err != nil {
				return nil, fmt.Errorf("failed to check cost center usage: %w", err)
			}
			if usage > 0 {
				return nil, apperrors.NewValidationFailedError("code",
					fmt.Sprintf("cost center code cannot change, %d account lines reference it", usage))
			}
			cc.Code = code
		}
	}
	if req.Name != nil {
		cc.Name = strings.TrimSpace(*req.Name)
	}

	cc.Touch(userID, s.CurrentTime())
	if err := s.costCenterRepo.UpdateCostCenter(ctx, *cc); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update cost center", slog.String("cost_center_id", costCenterID))
		}
		return nil, err
	}
	return cc, nil
}

func (s *costCenterService) DeactivateCostCenter(ctx context.Context, tenantID, costCenterID, userID string) error {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return err
	}
	cc, err := s.costCenterRepo.FindCostCenterByID(ctx, tenantID, costCenterID)
	if err != nil {
		return err
	}
	if !cc.IsActive {
		return nil
	}
	cc.IsActive = false
	cc.Touch(userID, s.CurrentTime())
	if err := s.costCenterRepo.UpdateCostCenter(ctx, *cc); err != nil {
		s.LogError(ctx, err, "Failed to deactivate cost center", slog.String("cost_center_id", costCenterID))
		return err
	}
	return nil
}

func (s *costCenterService) GetCostCenter(ctx context.Context, tenantID, costCenterID, userID string) (*domain.CostCenter, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.costCenterRepo.FindCostCenterByID(ctx, tenantID, costCenterID)
}

func (s *costCenterService) ListCostCenters(ctx context.Context, tenantID, userID string, includeInactive bool) ([]domain.CostCenter, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	ccs, err := s.costCenterRepo.ListCostCenters(ctx, tenantID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cost centers", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if ccs == nil {
		return []domain.CostCenter{}, nil
	}
	return ccs, nil
}

func (s *costCenterService) ResolveCostCentersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]domain.CostCenter, error) {
	if len(ids) == 0 {
		return map[string]domain.CostCenter{}, nil
	}
	return s.costCenterRepo.FindCostCentersByIDs(ctx, tenantID, ids)
}
