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
)

// systemUser is recorded as the author of rows the engine creates on its own.
const systemUser = "system"

// numberingService implements the NumberingSvc interface
type numberingService struct {
	BaseService
	numberRepo   portsrepo.NumberSettingRepository
	padding      int
	periodFormat string
}

// NewNumberingService creates a numbering service. padding and periodFormat are the defaults of
// settings created on first use.
func NewNumberingService(repo portsrepo.NumberSettingRepository, padding int, periodFormat string, options ...ServiceOption) portssvc.NumberingSvc {
	svc := &numberingService{numberRepo: repo, padding: padding, periodFormat: periodFormat}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.NumberingSvc = (*numberingService)(nil)

func (s *numberingService) defaults(tenantID, documentKey string) domain.NumberSetting {
	setting := domain.NewNumberSetting(tenantID, documentKey, s.padding, s.periodFormat)
	setting.AuditFields = domain.NewAuditFields(systemUser, s.CurrentTime())
	return setting
}

// NextNumber advances the counter of (tenant, document key) under a row lock and formats the result.
func (s *numberingService) NextNumber(ctx context.Context, tenantID, documentKey string) (string, error) {
	now := s.CurrentTime()
	number, err := s.numberRepo.NextNumber(ctx, tenantID, documentKey, s.defaults(tenantID, documentKey),
		func(setting *domain.NumberSetting) string {
			setting.Touch(systemUser, now)
			return setting.Advance(now)
		})
	if err != nil {
		s.LogError(ctx, err, "Failed to advance document number",
			slog.String("tenant_id", tenantID),
			slog.String("document_key", documentKey))
		return "", err
	}
	s.LogDebug(ctx, "Document number generated",
		slog.String("document_key", documentKey),
		slog.String("number", number))
	return number, nil
}

// ListSettings returns the stored settings, completed with defaults for registered keys never used.
func (s *numberingService) ListSettings(ctx context.Context, tenantID, userID string) ([]domain.NumberSetting, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	stored, err := s.numberRepo.ListSettings(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list number settings", slog.String("tenant_id", tenantID))
		return nil, err
	}
	seen := make(map[string]struct{}, len(stored))
	for _, st := range stored {
		seen[st.DocumentKey] = struct{}{}
	}
	out := append([]domain.NumberSetting{}, stored...)
	for _, t := range domain.DocumentTypes() {
		if _, ok := seen[t.Key]; !ok {
			out = append(out, s.defaults(tenantID, t.Key))
		}
	}
	return out, nil
}

func (s *numberingService) UpdateSetting(ctx context.Context, tenantID, documentKey, userID string, req dto.UpdateNumberSettingRequest) (*domain.NumberSetting, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return nil, err
	}
	if _, ok := domain.LookupDocumentType(documentKey); !ok {
		return nil, apperrors.NewValidationFailedError("documentKey", fmt.Sprintf("unknown document key '%s'", documentKey))
	}

	setting, err := s.numberRepo.FindSetting(ctx, tenantID, documentKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		d := s.defaults(tenantID, documentKey)
		d.CreatedBy = userID
		setting = &d
	}

	if req.Prefix != nil {
		setting.Prefix = strings.TrimSpace(*req.Prefix)
	}
	if req.PaddingLength != nil {
		setting.PaddingLength = *req.PaddingLength
	}
	if req.IncludePeriod != nil {
		setting.IncludePeriod = *req.IncludePeriod
	}
	if req.PeriodFormat != nil {
		setting.PeriodFormat = *req.PeriodFormat
	}
	setting.Touch(userID, s.CurrentTime())

	if err := s.numberRepo.SaveSetting(ctx, *setting); err != nil {
		s.LogError(ctx, err, "Failed to save number setting",
			slog.String("tenant_id", tenantID),
			slog.String("document_key", documentKey))
		return nil, err
	}
	return setting, nil
}
