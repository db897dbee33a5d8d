package discounts

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"goflare.io/discounts/config"
)

const (
	reclaimWorkTimeout = 3 * time.Minute
	reclaimRetryWait   = time.Minute
	reclaimMaxRetries  = 3
)

// Reclaimer strips discount state from abandoned carts: any cart untouched
// for longer than the staleness window loses its entire billing list and has
// its discount aggregate reset. The sweep is bulk and best-effort; it does
// not distinguish discount entries from other billing records.
type Reclaimer struct {
	carts  CartStore
	window time.Duration
	logger *zap.Logger
}

func NewReclaimer(carts CartStore, appConfig *config.Config, logger *zap.Logger) *Reclaimer {
	return &Reclaimer{
		carts:  carts,
		window: appConfig.Reclaimer.StalenessWindow,
		logger: logger,
	}
}

func (r *Reclaimer) Reclaim(ctx context.Context) error {
	r.logger.Debug("reclaiming stale discounts from carts")
	start := time.Now()

	reclaimed, err := r.carts.ReclaimStale(ctx, start.Add(-r.window))
	if err != nil {
		return err
	}

	r.logger.Debug("reclaimed stale discounts from carts",
		zap.Int64("carts", reclaimed),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Scheduler runs the reclaimer once at startup and thereafter daily at the
// configured hour. Each run is retried with exponential backoff; failures
// are logged and never stop the schedule.
type Scheduler struct {
	reclaimer *Reclaimer
	hour      int
	logger    *zap.Logger
}

func NewScheduler(reclaimer *Reclaimer, appConfig *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reclaimer: reclaimer,
		hour:      appConfig.Reclaimer.ScheduleHour,
		logger:    logger,
	}
}

// Run blocks until ctx is canceled. Rescheduling always stops the previous
// timer first, so at most one sweep timer exists at a time.
func (s *Scheduler) Run(ctx context.Context) error {
	s.runOnce(ctx)

	timer := time.NewTimer(time.Until(nextRunAt(time.Now(), s.hour)))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			s.runOnce(ctx)
			timer.Stop()
			timer.Reset(time.Until(nextRunAt(time.Now(), s.hour)))
		}
	}
}

// runOnce gives every attempt its own work timeout; the backoff waits
// between attempts do not count against it, so the full retry budget is
// always available.
func (s *Scheduler) runOnce(ctx context.Context) {
	backoff := retry.WithMaxRetries(reclaimMaxRetries, retry.NewExponential(reclaimRetryWait))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, reclaimWorkTimeout)
		defer cancel()

		if err := s.reclaimer.Reclaim(attemptCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("stale discount sweep failed", zap.Error(err))
	}
}

// nextRunAt is the next occurrence of the given local hour strictly after
// now.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
