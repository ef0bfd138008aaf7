package handlers

import (
	"log/slog"

	"github.com/SscSPs/gym_document_engine/cmd/docs"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/SscSPs/gym_document_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	ping Pinger,
) {
	RegisterValidators()

	// Add health check route
	r.GET("/health", getHealth(ping))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	handlers := []gin.HandlerFunc{}
	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		slog.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
	} else {
		handlers = append(handlers, middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
	}
	// Integration keys are checked first; requests without one fall through to JWT.
	handlers = append(handlers,
		middleware.APITokenAuth(services.Tokens),
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
	)

	v1 := r.Group("/api/v1", handlers...)
	RegisterTenantRoutes(v1, services)
}

// RegisterTenantRoutes registers every tenant route on an authenticated group.
func RegisterTenantRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	RegisterValidators()

	tenant := v1.Group("/tenants/:tenant_id")

	registerTenantRoutes(v1, tenant, services.Tenant)
	registerAccountRoutes(tenant, services.Accounts)
	registerCostCenterRoutes(tenant, services.CostCenters)
	registerDocumentRoutes(tenant, services.Documents, services.Tenant)
	registerTagRoutes(tenant, services.Tags)
	registerAttachmentRoutes(tenant, services.Attachments)
	registerNumberSettingRoutes(tenant, services.Numbering)
	registerOutboxRoutes(tenant, services.Outbox)
	RegisterAPITokenRoutes(tenant, services.Tokens)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
