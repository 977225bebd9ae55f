package http

import (
	"github.com/gin-gonic/gin"

	"github.com/samvyt/rifa/internal/infrastructure/ratelimit"
	"github.com/samvyt/rifa/internal/interfaces/http/middleware"
	"github.com/samvyt/rifa/internal/interfaces/http/routes"
)

func (c *Container) setupRoutes() {
	engine := c.engine
	log := c.log

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/health", c.hdlrs.health.Health)
	engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	readLimit := middleware.RateLimit(c.rateLimiter, "read",
		ratelimit.RateLimitConfig{RequestsPerMinute: c.cfg.Server.RateLimit}, log)
	checkoutLimit := middleware.RateLimit(c.rateLimiter, "checkout",
		ratelimit.RateLimitConfig{RequestsPerMinute: c.cfg.Server.CheckoutRateLimit}, log)

	routes.SetupRaffleRoutes(engine, &routes.RaffleRouteConfig{
		Handler:   c.hdlrs.raffle,
		RateLimit: readLimit,
	})

	routes.SetupCheckoutRoutes(engine, &routes.CheckoutRouteConfig{
		Handler:           c.hdlrs.checkout,
		RateLimit:         readLimit,
		CheckoutRateLimit: checkoutLimit,
	})

	routes.SetupAdminRoutes(engine, &routes.AdminRouteConfig{
		Handler:        c.hdlrs.admin,
		AuthMiddleware: c.adminAuth,
	})
}
