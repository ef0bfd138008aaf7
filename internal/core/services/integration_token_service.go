package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/utils"
	"github.com/google/uuid"
)

// Integration keys look like gde_<tokenID>_<secret>. Only the bcrypt hash of the secret is stored.
const secretBytes = 32

// integrationTokenService implements the IntegrationTokenSvc interface
type integrationTokenService struct {
	BaseService
	tokenRepo portsrepo.IntegrationTokenRepository
}

// NewIntegrationTokenService creates a new instance of integrationTokenService
func NewIntegrationTokenService(tokenRepo portsrepo.IntegrationTokenRepository, options ...ServiceOption) portssvc.IntegrationTokenSvc {
	svc := &integrationTokenService{tokenRepo: tokenRepo}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.IntegrationTokenSvc = (*integrationTokenService)(nil)

// CreateToken generates a new integration key for the tenant
func (s *integrationTokenService) CreateToken(ctx context.Context, tenantID, userID string, req dto.CreateTokenRequest) (string, *domain.IntegrationToken, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return "", nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", nil, apperrors.NewValidationFailedError("name", "token name is required")
	}

	tokenID := uuid.NewString()
	key, secret, err := utils.NewIntegrationKey(tokenID, secretBytes)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	hash, err := utils.HashSecret(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash token: %w", err)
	}

	now := s.CurrentTime()
	token := domain.IntegrationToken{
		TokenID:     tokenID,
		TenantID:    tenantID,
		Name:        name,
		TokenHash:   hash,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	if req.ExpiresInDays != nil {
		expiry := now.Add(time.Duration(*req.ExpiresInDays) * 24 * time.Hour)
		token.ExpiresAt = &expiry
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to save integration token", slog.String("tenant_id", tenantID))
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.LogInfo(ctx, "Integration token created",
		slog.String("token_id", token.TokenID),
		slog.String("tenant_id", tenantID))
	// The plaintext key is only available here
	return key, &token, nil
}

// ListTokens returns all live tokens of a tenant
func (s *integrationTokenService) ListTokens(ctx context.Context, tenantID, userID string) ([]domain.IntegrationToken, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	tokens, err := s.tokenRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	if tokens == nil {
		return []domain.IntegrationToken{}, nil
	}
	return tokens, nil
}

// RevokeToken disables a token of the tenant
func (s *integrationTokenService) RevokeToken(ctx context.Context, tenantID, tokenID, userID string) error {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.tokenRepo.Revoke(ctx, tenantID, tokenID, userID, s.CurrentTime()); err != nil {
		return err
	}
	s.LogInfo(ctx, "Integration token revoked", slog.String("token_id", tokenID))
	return nil
}

// ValidateToken checks a presented key and returns the token it belongs to
func (s *integrationTokenService) ValidateToken(ctx context.Context, rawKey string) (*domain.IntegrationToken, error) {
	invalid := apperrors.NewAppError(http.StatusUnauthorized, "invalid integration key", apperrors.ErrUnauthorized)

	tokenID, secret, ok := utils.SplitIntegrationKey(rawKey)
	if !ok {
		return nil, invalid
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return nil, invalid
	}
	if token.IsDeleted() || !utils.CheckSecretHash(secret, token.TokenHash) {
		return nil, invalid
	}
	now := s.CurrentTime()
	if token.IsExpired(now) {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "integration key has expired", apperrors.ErrUnauthorized)
	}

	if err := s.tokenRepo.TouchLastUsed(ctx, token.TokenID, now); err != nil {
		// Log the error but don't fail the validation
		s.LogError(ctx, err, "Failed to update token last used time", slog.String("token_id", token.TokenID))
	} else {
		token.LastUsedAt = &now
	}
	return token, nil
}
