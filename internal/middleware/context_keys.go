package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Context keys use a custom type to prevent collisions.
type contextKey string

const (
	userIDKey           = contextKey("userID")
	loggerCtxKey        = contextKey("logger")
	integrationTokenKey = contextKey("integrationToken")
	authMethodKey       = "authMethod"
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok && userID != ""
	}
	// check in the request context as well
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetIntegrationTokenFromContext returns the integration token that authenticated the request, if any.
func GetIntegrationTokenFromContext(c *gin.Context) (*domain.IntegrationToken, bool) {
	v, exists := c.Get(string(integrationTokenKey))
	if !exists {
		return nil, false
	}
	token, ok := v.(*domain.IntegrationToken)
	return token, ok
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger when none was injected.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// TenantAllowed reports whether the request may act on tenantID. Integration keys are bound
// to the tenant that issued them; JWT callers are checked by membership in the services.
func TenantAllowed(c *gin.Context, tenantID string) bool {
	token, ok := GetIntegrationTokenFromContext(c)
	if !ok {
		return true
	}
	return token.TenantID == tenantID
}
