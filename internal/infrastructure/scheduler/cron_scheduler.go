package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

const minInterval = time.Second

// CronScheduler runs housekeeping tasks on fixed intervals. A run that is
// still going when the next tick fires is skipped.
type CronScheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  logger.Logger

	mu      sync.Mutex
	entries map[cron.EntryID]context.CancelFunc
	started bool
}

func NewCronScheduler(timeout time.Duration, log logger.Logger) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
		logger:  logger.Component(log, "cron_scheduler"),
		entries: make(map[cron.EntryID]context.CancelFunc),
	}
}

func (s *CronScheduler) Schedule(ctx context.Context, interval time.Duration, task ports.Task) error {
	if interval < minInterval {
		return fmt.Errorf("interval %v is below the minimum of %v", interval, minInterval)
	}

	spec := intervalToCron(interval)
	s.logger.Debugf("Converted interval %v to cron expression: %s", interval, spec)

	taskCtx, cancel := context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(spec, s.wrapTask(taskCtx, task))
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule task: %w", err)
	}

	s.mu.Lock()
	s.entries[entryID] = cancel
	if !s.started {
		s.cron.Start()
		s.started = true
		s.logger.Info("Cron scheduler started")
	}
	s.mu.Unlock()

	s.logger.Infof("Task scheduled every %v (timeout %v) with entry ID: %d", interval, s.Timeout(), entryID)
	return nil
}

func (s *CronScheduler) wrapTask(ctx context.Context, task ports.Task) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}

		startTime := time.Now()
		taskCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		if err := task(taskCtx); err != nil {
			s.logger.Errorf("Task failed: %v", err)
			return
		}
		s.logger.Debugf("Task completed in %v", time.Since(startTime))
	}
}

// Timeout is the per-run deadline; zero means runs are bounded only by the
// parent context.
func (s *CronScheduler) Timeout() time.Duration {
	return s.timeout
}

// Stop cancels every scheduled task and waits for running ones to return.
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	for entryID, cancel := range s.entries {
		cancel()
		delete(s.entries, entryID)
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

func intervalToCron(interval time.Duration) string {
	return "@every " + interval.Truncate(time.Second).String()
}
