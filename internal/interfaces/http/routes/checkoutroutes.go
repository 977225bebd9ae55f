package routes

import (
	"github.com/gin-gonic/gin"

	checkouthandlers "github.com/samvyt/rifa/internal/interfaces/http/handlers/checkout"
)

// CheckoutRouteConfig holds dependencies for the buyer-facing purchase routes.
type CheckoutRouteConfig struct {
	Handler *checkouthandlers.Handler
	// RateLimit guards reads; CheckoutRateLimit guards reservations and history lookups.
	RateLimit         gin.HandlerFunc
	CheckoutRateLimit gin.HandlerFunc
}

func SetupCheckoutRoutes(engine *gin.Engine, cfg *CheckoutRouteConfig) {
	engine.POST("/checkout", cfg.CheckoutRateLimit, cfg.Handler.StartCheckout)

	transactions := engine.Group("/transactions")
	transactions.Use(cfg.RateLimit)
	{
		transactions.GET("/:id", cfg.Handler.GetTransaction)
		transactions.POST("/:id/check", cfg.Handler.CheckPayment)
		transactions.POST("/:id/cancel", cfg.Handler.CancelTransaction)
	}

	engine.GET("/buyers/history", cfg.CheckoutRateLimit, cfg.Handler.BuyerHistory)
}
