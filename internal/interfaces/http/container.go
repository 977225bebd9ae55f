package http

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	checkoutusecases "github.com/samvyt/rifa/internal/application/checkout/usecases"
	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	raffleusecases "github.com/samvyt/rifa/internal/application/raffle/usecases"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/infrastructure/config"
	"github.com/samvyt/rifa/internal/infrastructure/metrics"
	"github.com/samvyt/rifa/internal/infrastructure/pubsub"
	"github.com/samvyt/rifa/internal/infrastructure/ratelimit"
	"github.com/samvyt/rifa/internal/infrastructure/scheduler"
	"github.com/samvyt/rifa/internal/interfaces/http/middleware"
	"github.com/samvyt/rifa/internal/shared/goroutine"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// Container holds every infrastructure component, use case, handler and
// background service, and owns their startup and shutdown order.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	adminAuth   *middleware.AdminAuthMiddleware
	rateLimiter ratelimit.RateLimiter

	// Infrastructure services
	metrics     *metrics.Recorder
	gateway     pixgateway.Gateway
	statsCache  raffleusecases.StatsCache
	notifier    checkoutusecases.PurchaseNotifier
	broadcaster *pubsub.Broadcaster
	eventBus    *pubsub.RedisQuotaEventBus // nil without Redis
	publisher   checkoutusecases.QuotaChangePublisher

	// Background services
	watchdog         *scheduler.Watchdog
	expirer          *lateExpirer
	schedulerManager *scheduler.SchedulerManager
	bgCancel         context.CancelFunc
	bgWG             sync.WaitGroup
	shutdownOnce     sync.Once
}

// NewContainer wires the application. Nothing runs in the background until Start.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, caches, gateway
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases and the expiration watchdog
	c.initUseCases()

	// Section 3: Handlers and routes
	c.initHandlers()
	c.setupRoutes()

	return c, nil
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Start reclaims reservations that expired while the process was down, arms
// a timer for every pending transaction and launches the periodic jobs.
func (c *Container) Start(ctx context.Context) error {
	reclaimed, err := c.ucs.expireTransactions.Execute(ctx)
	if err != nil {
		return err
	}
	c.metrics.SweepReclaimed(reclaimed)

	if _, err := c.watchdog.Arm(ctx); err != nil {
		return err
	}

	sweepJob := scheduler.BatchJobFunc(c.ucs.expireTransactions.Execute)
	if err := c.schedulerManager.RegisterExpirySweep(sweepJob, c.cfg.Watchdog.SweepInterval, c.metrics.SweepReclaimed); err != nil {
		return err
	}
	pollJob := scheduler.BatchJobFunc(c.ucs.syncPaymentStatus.SyncPending)
	if err := c.schedulerManager.RegisterPaymentPoller(pollJob, c.cfg.Payment.PollInterval, c.metrics.PollerTransitioned); err != nil {
		return err
	}
	c.schedulerManager.Start()

	bgCtx, cancel := context.WithCancel(context.Background())
	c.bgCancel = cancel

	c.runBackground("stats-invalidation", func() {
		err := c.broadcaster.Subscribe(bgCtx, func(evt quota.ChangeEvent) {
			c.ucs.invalidateStats.Handle(bgCtx, evt)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.Warnw("stats invalidation stopped", "error", err)
		}
	})

	if c.eventBus != nil {
		c.runBackground("quota-event-relay", func() {
			err := c.eventBus.Relay(bgCtx, c.broadcaster.Dispatch)
			if err != nil && !errors.Is(err, context.Canceled) {
				c.log.Warnw("quota event relay stopped", "error", err)
			}
		})
	}

	c.log.Infow("background services started",
		"reclaimed_at_startup", reclaimed,
		"armed_timers", c.watchdog.Armed(),
		"redis", c.redis != nil,
	)
	return nil
}

func (c *Container) runBackground(name string, fn func()) {
	c.bgWG.Add(1)
	goroutine.SafeGo(c.log, name, func() {
		defer c.bgWG.Done()
		fn()
	})
}

// Shutdown stops schedulers and timers, then closes Redis. Safe to call more than once.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(func() {
		if c.schedulerManager != nil {
			if err := c.schedulerManager.Stop(); err != nil {
				c.log.Warnw("failed to stop scheduler", "error", err)
			}
		}
		if c.watchdog != nil {
			c.watchdog.Stop()
		}
		if c.bgCancel != nil {
			c.bgCancel()
		}
		c.bgWG.Wait()

		if c.redis != nil {
			if err := c.redis.Close(); err != nil {
				c.log.Warnw("failed to close redis client", "error", err)
			}
		}
		c.log.Infow("container shut down")
	})
}
