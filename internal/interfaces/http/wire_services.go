package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/samvyt/rifa/internal/infrastructure/auth"
	"github.com/samvyt/rifa/internal/infrastructure/cache"
	"github.com/samvyt/rifa/internal/infrastructure/config"
	"github.com/samvyt/rifa/internal/infrastructure/email"
	"github.com/samvyt/rifa/internal/infrastructure/metrics"
	"github.com/samvyt/rifa/internal/infrastructure/payment/pix"
	"github.com/samvyt/rifa/internal/infrastructure/pubsub"
	"github.com/samvyt/rifa/internal/infrastructure/ratelimit"
	"github.com/samvyt/rifa/internal/infrastructure/scheduler"
	"github.com/samvyt/rifa/internal/interfaces/http/middleware"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const redisPingTimeout = 3 * time.Second

// ============================================================
// Section 1: Infrastructure - Redis, repositories, basic services
// ============================================================

// initInfrastructure builds everything the use cases depend on. Redis is
// optional: when disabled or unreachable the in-process implementations
// of the stats cache, rate limiter and quota fan-out take over.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.metrics = metrics.NewRecorder()

	// Release mode is production: a misconfigured provider must stop startup, not become the mock.
	gateway, err := pix.NewGateway(cfg.Payment, cfg.Server.Mode == gin.ReleaseMode, c.metrics, log)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}
	c.gateway = gateway

	c.redis = initRedis(cfg, log)
	c.repos = newRepositories(c.db)

	if c.redis != nil {
		c.statsCache = cache.NewRedisStatsCache(c.redis, cfg.Raffle.StatsCacheTTL, log)
		c.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		c.statsCache = cache.NewMemoryStatsCache(cfg.Raffle.StatsCacheTTL)
		c.rateLimiter = ratelimit.NewMemoryRateLimiter()
	}

	// Every instance dispatches locally through the broadcaster. With Redis,
	// publishes go to the bus and come back through the relay, so changes made
	// on other instances reach this one's listeners too.
	c.broadcaster = pubsub.NewBroadcaster(log)
	if c.redis != nil {
		c.eventBus = pubsub.NewRedisQuotaEventBus(c.redis, log)
		c.publisher = c.eventBus
	} else {
		c.publisher = c.broadcaster
	}

	if cfg.Email.Enabled {
		c.notifier = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			BaseURL:     cfg.Server.BaseURL,
		})
		log.Infow("purchase emails enabled", "smtp_host", cfg.Email.SMTPHost)
	}

	c.adminAuth = middleware.NewAdminAuthMiddleware(initAdminJWT(cfg, log), log)

	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	c.schedulerManager = schedulerManager
	return nil
}

// initRedis returns nil when Redis is disabled or does not answer a ping.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, using in-process cache, rate limiter and fan-out")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to redis, falling back to in-process services",
			"error", err,
			"addr", cfg.Redis.GetAddr(),
		)
		_ = client.Close()
		return nil
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	return client
}

// initAdminJWT returns nil, disabling the admin API, when the secret is unusable.
func initAdminJWT(cfg *config.Config, log logger.Interface) *auth.JWTService {
	svc, err := auth.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	if err != nil {
		log.Warnw("admin API disabled", "error", err)
		return nil
	}
	return svc
}
