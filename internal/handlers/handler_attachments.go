package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// attachmentHandler handles attachment metadata of documents.
type attachmentHandler struct {
	attachmentService portssvc.AttachmentSvc
}

func registerAttachmentRoutes(rg *gin.RouterGroup, attachmentService portssvc.AttachmentSvc) {
	h := &attachmentHandler{attachmentService: attachmentService}

	attachments := rg.Group("/documents/:document_id/attachments")
	{
		attachments.GET("", h.listAttachments)
		attachments.POST("", h.addAttachment)
		attachments.DELETE("/:attachment_id", h.removeAttachment)
	}
}

// addAttachment godoc
// @Summary Attach a stored file to a document
// @Description Records metadata of a file already uploaded to storage. Locked documents reject new attachments.
// @Tags attachments
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   attachment body dto.AddAttachmentRequest true "File metadata"
// @Success 201 {object} domain.Attachment
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 423 {object} map[string]string "Document locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/attachments [post]
func (h *attachmentHandler) addAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.AddAttachmentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	attachment, err := h.attachmentService.AddAttachment(c.Request.Context(), tenantID, c.Param("document_id"), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to add attachment")
		return
	}

	logger.Info("Attachment added", slog.String("attachment_id", attachment.AttachmentID))
	c.JSON(http.StatusCreated, attachment)
}

// listAttachments godoc
// @Summary List the attachments of a document
// @Tags attachments
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {array} domain.Attachment
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/attachments [get]
func (h *attachmentHandler) listAttachments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	attachments, err := h.attachmentService.ListAttachments(c.Request.Context(), tenantID, c.Param("document_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list attachments")
		return
	}
	c.JSON(http.StatusOK, attachments)
}

// removeAttachment godoc
// @Summary Remove an attachment
// @Tags attachments
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   attachment_id path string true "Attachment ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Attachment not found"
// @Failure 423 {object} map[string]string "Document locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/attachments/{attachment_id} [delete]
func (h *attachmentHandler) removeAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	err := h.attachmentService.RemoveAttachment(c.Request.Context(), tenantID, c.Param("document_id"), c.Param("attachment_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to remove attachment")
		return
	}
	c.Status(http.StatusNoContent)
}
