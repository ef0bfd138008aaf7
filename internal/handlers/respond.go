package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code and a JSON body.
// Server-side failures hide the underlying message behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	body := gin.H{"error": err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		if appErr.ResourceID != "" {
			body["resourceID"] = appErr.ResourceID
		}
	}
	c.JSON(status, body)
}

// callerInTenant resolves the authenticated user and the tenant from the path.
// It writes the error response itself and returns ok=false when the request cannot go on.
func callerInTenant(c *gin.Context) (tenantID, userID string, ok bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	tenantID = c.Param("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant ID is required"})
		return "", "", false
	}
	if !middleware.TenantAllowed(c, tenantID) {
		logger.Warn("Integration key used outside its tenant", slog.String("tenant_id", tenantID))
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return "", "", false
	}
	return tenantID, userID, true
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}
