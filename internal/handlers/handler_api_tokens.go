package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// APITokenHandler handles HTTP requests for integration key operations
type APITokenHandler struct {
	tokenSvc services.IntegrationTokenSvc
}

// NewAPITokenHandler creates a new APITokenHandler
func NewAPITokenHandler(tokenSvc services.IntegrationTokenSvc) *APITokenHandler {
	return &APITokenHandler{
		tokenSvc: tokenSvc,
	}
}

// RegisterAPITokenRoutes registers the integration key routes of a tenant
func RegisterAPITokenRoutes(router *gin.RouterGroup, tokenSvc services.IntegrationTokenSvc) {
	handler := NewAPITokenHandler(tokenSvc)

	tokensGroup := router.Group("/tokens")
	{
		tokensGroup.POST("", handler.CreateToken)
		tokensGroup.GET("", handler.ListTokens)
		tokensGroup.DELETE("/:token_id", handler.RevokeToken)
	}
}

// CreateToken handles the creation of a new integration key
// @Summary Create a new integration key
// @Description Creates a tenant-scoped key for external consumers. The key is shown only once.
// @Description Send it in the x-api-key header.
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Param request body dto.CreateTokenRequest true "Token creation details"
// @Success 201 {object} dto.CreateTokenResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Admins only"
// @Failure 500 {object} map[string]string "Failed to create token"
// @Router /tenants/{tenant_id}/tokens [post]
func (h *APITokenHandler) CreateToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	if _, viaKey := middleware.GetIntegrationTokenFromContext(c); viaKey {
		c.JSON(http.StatusForbidden, gin.H{"error": "Integration keys cannot issue keys"})
		return
	}
	var req dto.CreateTokenRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	key, token, err := h.tokenSvc.CreateToken(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create token")
		return
	}

	logger.Info("Integration key issued", slog.String("token_id", token.TokenID))
	c.JSON(http.StatusCreated, dto.CreateTokenResponse{Token: key, Info: dto.ToTokenResponse(token)})
}

// ListTokens handles listing integration keys
// @Summary List integration keys
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.TokenResponse
// @Failure 403 {object} map[string]string "Admins only"
// @Failure 500 {object} map[string]string "Failed to list tokens"
// @Router /tenants/{tenant_id}/tokens [get]
func (h *APITokenHandler) ListTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	tokens, err := h.tokenSvc.ListTokens(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list tokens")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTokenResponse(tokens))
}

// RevokeToken handles revoking an integration key
// @Summary Revoke an integration key
// @Tags tokens
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Param token_id path string true "Token ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Admins only"
// @Failure 404 {object} map[string]string "Token not found"
// @Failure 500 {object} map[string]string "Failed to revoke token"
// @Router /tenants/{tenant_id}/tokens/{token_id} [delete]
func (h *APITokenHandler) RevokeToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	tokenID := c.Param("token_id")

	if err := h.tokenSvc.RevokeToken(c.Request.Context(), tenantID, tokenID, userID); err != nil {
		respondError(c, logger, err, "Failed to revoke token")
		return
	}
	c.Status(http.StatusNoContent)
}
