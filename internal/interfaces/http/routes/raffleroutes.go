package routes

import (
	"github.com/gin-gonic/gin"

	rafflehandlers "github.com/samvyt/rifa/internal/interfaces/http/handlers/raffle"
)

// RaffleRouteConfig holds dependencies for the public raffle routes.
type RaffleRouteConfig struct {
	Handler   *rafflehandlers.Handler
	RateLimit gin.HandlerFunc
}

// SetupRaffleRoutes mounts the raffle endpoints twice: under /raffle for the
// active raffle and under /raffles/:id for a specific one.
func SetupRaffleRoutes(engine *gin.Engine, cfg *RaffleRouteConfig) {
	active := engine.Group("/raffle")
	active.Use(cfg.RateLimit)
	registerRaffleEndpoints(active, cfg.Handler)

	byID := engine.Group("/raffles/:id")
	byID.Use(cfg.RateLimit)
	registerRaffleEndpoints(byID, cfg.Handler)
}

func registerRaffleEndpoints(group *gin.RouterGroup, h *rafflehandlers.Handler) {
	group.GET("", h.GetRaffle)
	group.GET("/stats", h.GetStats)
	group.GET("/quotas", h.ListQuotas)
	group.GET("/random", h.PickRandom)
	group.GET("/events", h.StreamQuotaChanges)
}
