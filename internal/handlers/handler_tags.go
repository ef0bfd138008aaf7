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

// tagHandler handles HTTP requests related to tags.
type tagHandler struct {
	tagService portssvc.TagSvc
}

func registerTagRoutes(rg *gin.RouterGroup, tagService portssvc.TagSvc) {
	h := &tagHandler{tagService: tagService}

	tags := rg.Group("/tags")
	{
		tags.GET("", h.listTags)
		tags.GET("/suggest", h.suggestTags)
		tags.POST("/assign", h.assignTags)
		tags.POST("/sync", h.syncTags)
		tags.POST("/remove", h.removeTags)
	}
	rg.GET("/documents/:document_id/tags", h.documentTags)
}

// listTags godoc
// @Summary List tags
// @Description Lists active tags, most used first, optionally filtered by a search string
// @Tags tags
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   search query string false "Substring of the tag name"
// @Param   limit query int false "Maximum results" default(50)
// @Success 200 {array} domain.Tag
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tags [get]
func (h *tagHandler) listTags(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var params dto.ListTagsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tags, err := h.tagService.List(c.Request.Context(), tenantID, userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// suggestTags godoc
// @Summary Suggest tags
// @Tags tags
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   q query string false "Typed prefix"
// @Success 200 {array} domain.Tag
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tags/suggest [get]
func (h *tagHandler) suggestTags(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	tags, err := h.tagService.Suggest(c.Request.Context(), tenantID, userID, c.Query("q"))
	if err != nil {
		respondError(c, logger, err, "Failed to suggest tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// assignTags godoc
// @Summary Assign tags to a resource
// @Description Creates missing tags and links them. Links of APPROVED or POSTED documents are frozen.
// @Tags tags
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   request body dto.TagRequest true "Resource and tag names"
// @Success 200 {array} domain.Tag
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 423 {object} map[string]string "Document locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tags/assign [post]
func (h *tagHandler) assignTags(c *gin.Context) {
	h.mutate(c, "assign", h.tagService.Assign)
}

// syncTags godoc
// @Summary Replace the tags of a resource
// @Tags tags
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   request body dto.TagRequest true "Resource and the complete tag set"
// @Success 200 {array} domain.Tag
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 423 {object} map[string]string "Document locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tags/sync [post]
func (h *tagHandler) syncTags(c *gin.Context) {
	h.mutate(c, "sync", h.tagService.Sync)
}

// removeTags godoc
// @Summary Remove tags from a resource
// @Tags tags
// @Accept  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   request body dto.TagRequest true "Resource and tag names"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 423 {object} map[string]string "Document locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tags/remove [post]
func (h *tagHandler) removeTags(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.TagRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	if err := h.tagService.Remove(c.Request.Context(), tenantID, userID, req); err != nil {
		respondError(c, logger, err, "Failed to remove tags")
		return
	}
	c.Status(http.StatusNoContent)
}

// mutate binds a TagRequest and applies assign or sync.
func (h *tagHandler) mutate(c *gin.Context, action string, apply func(ctx context.Context, tenantID, userID string, req dto.TagRequest) ([]domain.Tag, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.TagRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	tags, err := apply(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to "+action+" tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// documentTags godoc
// @Summary List the tags of a document
// @Tags tags
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {array} domain.Tag
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/tags [get]
func (h *tagHandler) documentTags(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	tags, err := h.tagService.TagsForResource(c.Request.Context(), tenantID, userID, domain.ResourceTypeDocument, c.Param("document_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list document tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}
