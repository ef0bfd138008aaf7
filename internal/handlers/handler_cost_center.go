package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// costCenterHandler handles HTTP requests related to cost centers.
type costCenterHandler struct {
	costCenterService portssvc.CostCenterSvc
}

func newCostCenterHandler(cs portssvc.CostCenterSvc) *costCenterHandler {
	return &costCenterHandler{
		costCenterService: cs,
	}
}

// registerCostCenterRoutes registers routes related to cost centers.
func registerCostCenterRoutes(rg *gin.RouterGroup, costCenterService portssvc.CostCenterSvc) {
	h := newCostCenterHandler(costCenterService)

	costCenters := rg.Group("/cost-centers")
	{
		costCenters.POST("", h.createCostCenter)
		costCenters.GET("", h.listCostCenters)
		costCenters.GET("/:cost_center_id", h.getCostCenter)
		costCenters.PATCH("/:cost_center_id", h.updateCostCenter)
		costCenters.POST("/:cost_center_id/deactivate", h.deactivateCostCenter)
	}
}

// createCostCenter godoc
// @Summary Create a cost center
// @Tags cost-centers
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   costCenter body dto.CreateCostCenterRequest true "Cost center details"
// @Success 201 {object} dto.CostCenterResponse
// @Failure 400 {object} map[string]string "Invalid input or duplicate code"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create cost center"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cost-centers [post]
func (h *costCenterHandler) createCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.CreateCostCenterRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	cc, err := h.costCenterService.CreateCostCenter(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create cost center")
		return
	}

	logger.Info("Cost center created", slog.String("cost_center_id", cc.CostCenterID))
	c.JSON(http.StatusCreated, dto.ToCostCenterResponse(cc))
}

// listCostCenters godoc
// @Summary List cost centers
// @Tags cost-centers
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   includeInactive query bool false "Include deactivated cost centers"
// @Success 200 {array} dto.CostCenterResponse
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to list cost centers"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cost-centers [get]
func (h *costCenterHandler) listCostCenters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ccs, err := h.costCenterService.ListCostCenters(c.Request.Context(), tenantID, userID, params.IncludeInactive)
	if err != nil {
		respondError(c, logger, err, "Failed to list cost centers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCostCenterResponse(ccs))
}

// getCostCenter godoc
// @Summary Get a cost center
// @Tags cost-centers
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   cost_center_id path string true "Cost center ID"
// @Success 200 {object} dto.CostCenterResponse
// @Failure 404 {object} map[string]string "Cost center not found"
// @Failure 500 {object} map[string]string "Failed to retrieve cost center"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cost-centers/{cost_center_id} [get]
func (h *costCenterHandler) getCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	cc, err := h.costCenterService.GetCostCenter(c.Request.Context(), tenantID, c.Param("cost_center_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve cost center")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostCenterResponse(cc))
}

// updateCostCenter godoc
// @Summary Update a cost center
// @Tags cost-centers
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   cost_center_id path string true "Cost center ID"
// @Param   costCenter body dto.UpdateCostCenterRequest true "Fields to change"
// @Success 200 {object} dto.CostCenterResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Cost center not found"
// @Failure 500 {object} map[string]string "Failed to update cost center"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cost-centers/{cost_center_id} [patch]
func (h *costCenterHandler) updateCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.UpdateCostCenterRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	cc, err := h.costCenterService.UpdateCostCenter(c.Request.Context(), tenantID, c.Param("cost_center_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update cost center")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostCenterResponse(cc))
}

// deactivateCostCenter godoc
// @Summary Deactivate a cost center
// @Tags cost-centers
// @Param   tenant_id path string true "Tenant ID"
// @Param   cost_center_id path string true "Cost center ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Already inactive"
// @Failure 404 {object} map[string]string "Cost center not found"
// @Failure 500 {object} map[string]string "Failed to deactivate cost center"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cost-centers/{cost_center_id}/deactivate [post]
func (h *costCenterHandler) deactivateCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	costCenterID := c.Param("cost_center_id")

	if err := h.costCenterService.DeactivateCostCenter(c.Request.Context(), tenantID, costCenterID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate cost center")
		return
	}
	c.Status(http.StatusNoContent)
}
