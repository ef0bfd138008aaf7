package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests related to documents and their lifecycle.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	tenantService   portssvc.TenantAuthorizerSvc
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade, ts portssvc.TenantAuthorizerSvc) *documentHandler {
	return &documentHandler{
		documentService: ds,
		tenantService:   ts,
	}
}

// transitionFunc is the shape shared by every lifecycle method of the document service.
type transitionFunc func(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error)

// registerDocumentRoutes registers routes related to documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, tenantService portssvc.TenantAuthorizerSvc) {
	h := newDocumentHandler(documentService, tenantService)

	rg.GET("/document-types", h.listDocumentTypes)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:document_id", h.getDocument)
		documents.PUT("/:document_id/items", h.replaceItems)
		documents.GET("/:document_id/status", h.getDocumentStatus)
		documents.GET("/:document_id/history", h.listHistory)
		documents.GET("/:document_id/approvals", h.listApprovals)

		documents.POST("/:document_id/submit", h.submitDocument)
		documents.POST("/:document_id/approve", h.approveDocument)
		documents.POST("/:document_id/reject", h.rejectDocument)
		documents.POST("/:document_id/request-revision", h.requestRevision)
		documents.POST("/:document_id/post", h.postDocument)
		documents.POST("/:document_id/cancel", h.cancelDocument)
	}
}

// createDocument godoc
// @Summary Create a draft document
// @Description Creates a DRAFT with computed totals. The number is generated when omitted.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document body dto.CreateDocumentRequest true "Document header and items"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input or duplicate number"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("tenant_id", tenantID), slog.String("document_key", req.DocumentKey))
	logger.Info("Received request to create document", slog.Int("items", len(req.Items)))

	doc, err := h.documentService.CreateDraft(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("number", doc.Number))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents
// @Description Lists documents visible to the caller, newest document date first
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   module query string false "Module filter"
// @Param   documentKey query string false "Document key filter"
// @Param   status query string false "Status filter"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), tenantID, userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getDocument godoc
// @Summary Get a document
// @Description Returns a visible document with items, tax lines and account lines
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), tenantID, c.Param("document_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// replaceItems godoc
// @Summary Replace the items of an editable document
// @Description Swaps every item and tax line and recomputes totals. Only DRAFT and REVISION_REQUESTED documents are editable.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   items body dto.ReplaceItemsRequest true "New items"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input or transition"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale version"
// @Failure 423 {object} map[string]string "Document locked"
// @Failure 500 {object} map[string]string "Failed to replace items"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/items [put]
func (h *documentHandler) replaceItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.ReplaceItemsRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	doc, err := h.documentService.ReplaceDraftItems(c.Request.Context(), tenantID, c.Param("document_id"), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to replace items")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// getDocumentStatus godoc
// @Summary Check the lock state of a document
// @Description Returns the status of a document and whether tied resources are frozen. Status is null for unknown documents and for documents outside the caller's access scope.
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to check document status"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/status [get]
func (h *documentHandler) getDocumentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	if _, err := h.tenantService.AuthorizeUserAction(c.Request.Context(), userID, tenantID, domain.RoleReadOnly); err != nil {
		respondError(c, logger, err, "Failed to check document status")
		return
	}
	documentID := c.Param("document_id")

	status, err := h.documentService.GetVisibleDocumentStatus(c.Request.Context(), tenantID, documentID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to check document status")
		return
	}
	resp := dto.DocumentStatusResponse{DocumentID: documentID, Status: status}
	if status != nil {
		resp.Locked = domain.IsLocked(*status)
	}
	c.JSON(http.StatusOK, resp)
}

// listHistory godoc
// @Summary List the status history of a document
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {array} domain.StatusHistory
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to list history"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/history [get]
func (h *documentHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	history, err := h.documentService.ListHistory(c.Request.Context(), tenantID, c.Param("document_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// listApprovals godoc
// @Summary List the approval steps of a document
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {array} domain.DocumentApproval
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to list approvals"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/approvals [get]
func (h *documentHandler) listApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	approvals, err := h.documentService.ListApprovals(c.Request.Context(), tenantID, c.Param("document_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list approvals")
		return
	}
	c.JSON(http.StatusOK, approvals)
}

// listDocumentTypes godoc
// @Summary List document types
// @Description Returns the registry of document keys with their module, prefix and approval steps
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} domain.DocumentType
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/document-types [get]
func (h *documentHandler) listDocumentTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	if _, err := h.tenantService.AuthorizeUserAction(c.Request.Context(), userID, tenantID, domain.RoleReadOnly); err != nil {
		respondError(c, logger, err, "Failed to list document types")
		return
	}
	c.JSON(http.StatusOK, h.documentService.DocumentTypes())
}

// runTransition binds a TransitionRequest and applies one lifecycle step.
func (h *documentHandler) runTransition(c *gin.Context, action string, apply transitionFunc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	documentID := c.Param("document_id")
	logger = logger.With(
		slog.String("tenant_id", tenantID),
		slog.String("document_id", documentID),
		slog.String("action", action),
		slog.String("from_status", string(req.FromStatus)),
	)

	doc, err := apply(c.Request.Context(), tenantID, documentID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to "+action+" document")
		return
	}

	logger.Info("Document transitioned", slog.String("to_status", string(doc.Status)), slog.Int64("version", doc.Version))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// submitDocument godoc
// @Summary Submit a draft for approval
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Observed status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid transition"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale state"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/submit [post]
func (h *documentHandler) submitDocument(c *gin.Context) {
	h.runTransition(c, "submit", h.documentService.Submit)
}

// approveDocument godoc
// @Summary Approve the next pending step
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Observed status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid transition"
// @Failure 403 {object} map[string]string "Not allowed to approve"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale state"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/approve [post]
func (h *documentHandler) approveDocument(c *gin.Context) {
	h.runTransition(c, "approve", h.documentService.Approve)
}

// rejectDocument godoc
// @Summary Reject a submitted document
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Observed status and reason"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid transition or missing reason"
// @Failure 403 {object} map[string]string "Not allowed to approve"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale state"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/reject [post]
func (h *documentHandler) rejectDocument(c *gin.Context) {
	h.runTransition(c, "reject", h.documentService.Reject)
}

// requestRevision godoc
// @Summary Send a submitted document back for revision
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Observed status and reason"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid transition or missing reason"
// @Failure 403 {object} map[string]string "Not allowed to approve"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale state"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/request-revision [post]
func (h *documentHandler) requestRevision(c *gin.Context) {
	h.runTransition(c, "request revision of", h.documentService.RequestRevision)
}

// postDocument godoc
// @Summary Post an approved document to the ledger
// @Description Generates balanced account lines and a posted outbox event in one transaction
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Observed status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid transition or account"
// @Failure 403 {object} map[string]string "Not allowed to post"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale state"
// @Failure 422 {object} map[string]string "Unbalanced ledger"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	h.runTransition(c, "post", h.documentService.Post)
}

// cancelDocument godoc
// @Summary Cancel a document
// @Description Cancelling a POSTED document writes reversal lines and a cancelled outbox event
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document_id path string true "Document ID"
// @Param   transition body dto.TransitionRequest true "Observed status and optional reason"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid transition"
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Stale state"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{document_id}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	h.runTransition(c, "cancel", h.documentService.Cancel)
}
