package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantHandler handles HTTP requests related to tenants and their members.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

// newTenantHandler creates a new tenantHandler.
func newTenantHandler(ts portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{
		tenantService: ts,
	}
}

// registerTenantRoutes registers the top-level tenant routes and the member routes of one tenant.
func registerTenantRoutes(rg *gin.RouterGroup, tenantScoped *gin.RouterGroup, tenantService portssvc.TenantSvcFacade) {
	h := newTenantHandler(tenantService)

	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("", h.listUserTenants)
	}

	members := tenantScoped.Group("/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.addMember)
		members.PUT("/:user_id", h.updateMember)
	}
}

// createTenant godoc
// @Summary Create a new tenant
// @Description Creates a new tenant and makes the caller its first admin.
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create tenant"
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTenantRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if _, viaKey := middleware.GetIntegrationTokenFromContext(c); viaKey {
		c.JSON(http.StatusForbidden, gin.H{"error": "Integration keys cannot create tenants"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create tenant")
		return
	}

	logger.Info("Tenant created successfully", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listUserTenants godoc
// @Summary List the caller's tenants
// @Description Lists the tenants the caller is an active member of
// @Tags tenants
// @Produce  json
// @Success 200 {array} dto.TenantResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tenants"
// @Security BearerAuth
// @Router /tenants [get]
func (h *tenantHandler) listUserTenants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenants, err := h.tenantService.ListUserTenants(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list tenants")
		return
	}
	if token, viaKey := middleware.GetIntegrationTokenFromContext(c); viaKey {
		visible := tenants[:0]
		for _, t := range tenants {
			if t.TenantID == token.TenantID {
				visible = append(visible, t)
			}
		}
		tenants = visible
	}

	c.JSON(http.StatusOK, dto.ToListTenantResponse(tenants))
}

// listMembers godoc
// @Summary List tenant members
// @Description Lists every membership of the tenant
// @Tags tenants
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/members [get]
func (h *tenantHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// addMember godoc
// @Summary Add a member to a tenant
// @Description Adds a user with a role and optional business roles. Admins only.
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   member body dto.AddMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to add member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/members [post]
func (h *tenantHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	member, err := h.tenantService.AddMember(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to add member")
		return
	}

	logger.Info("Member added", slog.String("tenant_id", tenantID), slog.String("member_user_id", member.UserID))
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a tenant member
// @Description Changes a member's role or business roles. Admins only.
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   user_id path string true "Member user ID"
// @Param   member body dto.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to update member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/members/{user_id} [put]
func (h *tenantHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, userID, ok := callerInTenant(c)
	if !ok {
		return
	}
	var req dto.UpdateMemberRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	member, err := h.tenantService.UpdateMember(c.Request.Context(), tenantID, userID, c.Param("user_id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}
