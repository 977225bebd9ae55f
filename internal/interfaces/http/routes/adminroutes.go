package routes

import (
	"github.com/gin-gonic/gin"

	adminhandlers "github.com/samvyt/rifa/internal/interfaces/http/handlers/admin"
	"github.com/samvyt/rifa/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for operator routes.
type AdminRouteConfig struct {
	Handler        *adminhandlers.Handler
	AuthMiddleware *middleware.AdminAuthMiddleware
}

// SetupAdminRoutes configures admin-only routes.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.POST("/raffles", cfg.Handler.SetupRaffle)
		admin.PATCH("/raffles/:id", cfg.Handler.UpdateRaffle)

		admin.POST("/transactions/:id/confirm", cfg.Handler.ConfirmTransaction)
		admin.POST("/transactions/:id/cancel", cfg.Handler.CancelTransaction)

		admin.POST("/maintenance/expire", cfg.Handler.RunExpirySweep)
		admin.POST("/maintenance/sync", cfg.Handler.RunPaymentSync)
	}
}
