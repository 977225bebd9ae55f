// Package scheduler runs the background jobs behind checkout: the periodic
// expiry sweep, the payment status poller and the per-transaction expiry timers.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of items it moved.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

const (
	defaultSweepInterval = time.Minute
	defaultPollInterval  = 5 * time.Second
)

// SchedulerManager owns the gocron scheduler for interval jobs.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterExpirySweep runs the overdue sweep on an interval. It backs up the
// per-transaction timers, which do not survive a restart or a lost callback.
func (m *SchedulerManager) RegisterExpirySweep(job BatchJob, interval time.Duration, onReclaimed func(int)) error {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return m.registerBatch("expiry-sweep", job, interval, interval, onReclaimed, "checkout", "expire")
}

// RegisterPaymentPoller asks the provider about every pending transaction on an
// interval. onMoved receives how many left pending in one run.
func (m *SchedulerManager) RegisterPaymentPoller(job BatchJob, interval time.Duration, onMoved func(int)) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	// Bounded to a few intervals so a slow provider cannot stall the job forever.
	timeout := 4 * interval
	if timeout < 30*time.Second {
		timeout = 30 * time.Second
	}
	return m.registerBatch("payment-poller", job, interval, timeout, onMoved, "checkout", "poll")
}

func (m *SchedulerManager) registerBatch(name string, job BatchJob, interval, timeout time.Duration, onDone func(int), tags ...string) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runBatch(ctx, name, job, onDone)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered scheduled job", "job", name, "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob, onDone func(int)) {
	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("scheduled job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
		if onDone != nil {
			onDone(count)
		}
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
