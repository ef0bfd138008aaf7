package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries integration keys.
const APIKeyHeader = "x-api-key"

// APITokenAuth authenticates requests carrying an integration key. Requests without the
// header fall through to the JWT middleware; a presented but invalid key is rejected.
// A valid key acts as the user who issued it, restricted to the key's tenant.
func APITokenAuth(tokenSvc services.IntegrationTokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader(APIKeyHeader)
		if rawKey == "" {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		token, err := tokenSvc.ValidateToken(c.Request.Context(), rawKey)
		if err != nil {
			logger.Warn("Integration key rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		enriched := logger.With(
			slog.String("integration_token_id", token.TokenID),
			slog.String("tenant_id", token.TenantID),
			slog.String("user_id", token.CreatedBy),
		)
		ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, token.CreatedBy)
		c.Request = c.Request.WithContext(WithLogger(ctxWithUser, enriched))
		c.Set(string(integrationTokenKey), token)
		c.Set(authMethodKey, "api_token")
		c.Next()
	}
}
