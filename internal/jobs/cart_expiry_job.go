package jobs

import (
	"context"
	"log/slog"
	"time"

	"coffeeshop/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultCartExpirySchedule runs the purge at the start of every hour.
const DefaultCartExpirySchedule = "0 0 * * * *"

type PurgeExpiredCartsHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeExpiredCartsCommand) (int64, error)
}

// CartExpiryJob deletes carts that were not touched for longer than ttl.
type CartExpiryJob struct {
	handler  PurgeExpiredCartsHandler
	ttl      time.Duration
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCartExpiryJob creates the job. schedule is a cron expression with a
// seconds field; an empty schedule means DefaultCartExpirySchedule.
func NewCartExpiryJob(
	handler PurgeExpiredCartsHandler,
	ttl time.Duration,
	schedule string,
	timeout time.Duration,
	logger *slog.Logger,
) *CartExpiryJob {
	if schedule == "" {
		schedule = DefaultCartExpirySchedule
	}
	return &CartExpiryJob{
		handler:  handler,
		ttl:      ttl,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "cart_expiry_job"),
	}
}

// Start schedules the purge. It fails on an invalid schedule or ttl.
func (j *CartExpiryJob) Start() error {
	if _, err := commands.NewPurgeExpiredCartsCommand(j.ttl); err != nil {
		return err
	}

	if _, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cart expiry job started",
		"schedule", j.schedule, "ttl", j.ttl.String())
	return nil
}

// RunOnce purges expired carts now.
func (j *CartExpiryJob) RunOnce(ctx context.Context) (int64, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	cmd, err := commands.NewPurgeExpiredCartsCommand(j.ttl)
	if err != nil {
		return 0, err
	}

	removed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Cart expiry job failed", "error", err)
		return 0, err
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "Expired carts removed", "count", removed)
	}
	return removed, nil
}

// Stop stops scheduling and waits for a running purge to finish.
func (j *CartExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Cart expiry job stopped")
}
