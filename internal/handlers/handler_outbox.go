package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// outboxHandler lets an external dispatcher poll and acknowledge events.
type outboxHandler struct {
	outboxService portssvc.OutboxSvc
}

func registerOutboxRoutes(rg *gin.RouterGroup, outboxService portssvc.OutboxSvc) {
	h := &outboxHandler{outboxService: outboxService}

	outbox := rg.Group("/outbox")
	{
		outbox.GET("/pending", h.listPending)
		outbox.POST("/:event_id/processing", h.markProcessing)
		outbox.POST("/:event_id/done", h.markDone)
		outbox.POST("/:event_id/failed", h.markFailed)
	}
}

// listPending godoc
// @Summary Poll pending outbox events
// @Description Returns PENDING events and FAILED events whose retry time has come, oldest first
// @Tags outbox
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Maximum events" default(50)
// @Success 200 {array} domain.OutboxEvent
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/outbox/pending [get]
func (h *outboxHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	events, err := h.outboxService.ListPending(c.Request.Context(), tenantID, userID, params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list pending events")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *outboxHandler) acknowledge(c *gin.Context, apply func(ctx context.Context, tenantID, eventID, userID string) (*domain.OutboxEvent, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	event, err := apply(c.Request.Context(), tenantID, c.Param("event_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update outbox event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// markProcessing godoc
// @Summary Claim an outbox event
// @Tags outbox
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   event_id path string true "Event ID"
// @Success 200 {object} domain.OutboxEvent
// @Failure 400 {object} map[string]string "Event not claimable"
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/outbox/{event_id}/processing [post]
func (h *outboxHandler) markProcessing(c *gin.Context) {
	h.acknowledge(c, h.outboxService.MarkProcessing)
}

// markDone godoc
// @Summary Mark an outbox event delivered
// @Tags outbox
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   event_id path string true "Event ID"
// @Success 200 {object} domain.OutboxEvent
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/outbox/{event_id}/done [post]
func (h *outboxHandler) markDone(c *gin.Context) {
	h.acknowledge(c, h.outboxService.MarkDone)
}

// markFailed godoc
// @Summary Record a failed delivery
// @Description Stores the error and schedules a retry with exponential backoff
// @Tags outbox
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   event_id path string true "Event ID"
// @Param   failure body dto.MarkFailedRequest true "Failure details"
// @Success 200 {object} domain.OutboxEvent
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/outbox/{event_id}/failed [post]
func (h *outboxHandler) markFailed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MarkFailedRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	h.acknowledge(c, func(ctx context.Context, tenantID, eventID, userID string) (*domain.OutboxEvent, error) {
		return h.outboxService.MarkFailed(ctx, tenantID, eventID, userID, req.Error)
	})
}
