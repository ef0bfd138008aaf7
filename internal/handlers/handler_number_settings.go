package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// numberSettingHandler exposes document numbering settings.
type numberSettingHandler struct {
	numberingService portssvc.NumberingSvc
}

func registerNumberSettingRoutes(rg *gin.RouterGroup, numberingService portssvc.NumberingSvc) {
	h := &numberSettingHandler{numberingService: numberingService}

	settings := rg.Group("/number-settings")
	{
		settings.GET("", h.listSettings)
		settings.PUT("/:document_key", h.updateSetting)
	}
}

// listSettings godoc
// @Summary List numbering settings
// @Description Lists the numbering setting of every registered document key, defaults filled in
// @Tags number-settings
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} domain.NumberSetting
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/number-settings [get]
func (h *numberSettingHandler) listSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	settings, err := h.numberingService.ListSettings(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list number settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateSetting godoc
// @Summary Update a numbering setting
// @Tags number-settings
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_key path string true "Document key, e.g. sales.invoice"
// @Param   setting body dto.UpdateNumberSettingRequest true "Fields to change"
// @Success 200 {object} domain.NumberSetting
// @Failure 400 {object} map[string]string "Invalid input or unknown document key"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/number-settings/{document_key} [put]
func (h *numberSettingHandler) updateSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.UpdateNumberSettingRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	setting, err := h.numberingService.UpdateSetting(c.Request.Context(), tenantID, c.Param("document_key"), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update number setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}
