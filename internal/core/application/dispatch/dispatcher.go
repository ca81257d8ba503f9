// Package dispatch delivers notifications for committed order facts.
//
// Command handlers announce a fact and return at once; a fixed pool of workers
// drains bounded queues and performs the sends. Every order is pinned to one
// worker, so its notifications go out in the order they were announced while
// different orders are delivered in parallel. Delivery is best effort:
// failures are logged and counted, never reported back to the business
// operation that produced the fact.
package dispatch

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"coffeeshop/internal/core/domain/model/notification"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/domain/services"
	"coffeeshop/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

var ErrDispatcherClosed = errors.New("dispatcher is closed")

// Config tunes the dispatcher. Zero values fall back to the defaults below.
// QueueSize bounds the waiting jobs across all workers; each worker queues an
// equal share of it.
type Config struct {
	StaffRecipients []string
	Workers         int
	QueueSize       int
	FanoutLimit     int
	SendTimeout     time.Duration
}

const (
	DefaultWorkers     = 4
	DefaultQueueSize   = 256
	DefaultFanoutLimit = 8
	DefaultSendTimeout = 5 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.FanoutLimit <= 0 {
		c.FanoutLimit = DefaultFanoutLimit
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = DefaultSendTimeout
	}
	return c
}

// Report summarises one fan-out. Attempted counts recipients, Failed those
// whose send returned an error or timed out.
type Report struct {
	Attempted int
	Failed    int
}

// Delivered is the number of recipients that got the message.
func (r Report) Delivered() int {
	return r.Attempted - r.Failed
}

type job struct {
	ctx  context.Context
	key  string
	name string
	run  func(ctx context.Context) Report
}

// creation is everything a creation fan-out needs, rendered while the order is
// still owned by the announcing caller.
type creation struct {
	event      order.StatusEvent
	staff      notification.Message
	staffErr   error
	receipt    notification.Message
	customerID string
}

// Dispatcher is the asynchronous notification fan-out.
//
// Example:
//
//	d := dispatch.New(messenger, publisher, services.NewMessageComposer(loc), dispatch.Config{
//	    StaffRecipients: []string{"1001", "1002"},
//	}, logger)
//	d.Start()
//	defer d.Close(shutdownCtx)
//
//	d.AnnounceCreation(ctx, o) // returns immediately
type Dispatcher struct {
	messenger ports.Messenger
	publisher ports.EventPublisher
	composer  services.MessageComposer
	cfg       Config
	logger    *slog.Logger

	queues    []chan job
	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	workers   sync.WaitGroup
	dropped   atomic.Int64
}

// New builds a dispatcher. publisher may be nil when no event bus is configured.
func New(
	messenger ports.Messenger,
	publisher ports.EventPublisher,
	composer services.MessageComposer,
	cfg Config,
	logger *slog.Logger,
) *Dispatcher {
	cfg = cfg.withDefaults()

	perWorker := max((cfg.QueueSize+cfg.Workers-1)/cfg.Workers, 1)
	queues := make([]chan job, cfg.Workers)
	for i := range queues {
		queues[i] = make(chan job, perWorker)
	}

	return &Dispatcher{
		messenger: messenger,
		publisher: publisher,
		composer:  composer,
		cfg:       cfg,
		logger:    logger.With("component", "dispatcher"),
		queues:    queues,
	}
}

// Start launches the workers. Calling it more than once has no further effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for _, q := range d.queues {
			d.workers.Add(1)
			go d.work(q)
		}
		d.logger.Info("dispatcher started",
			"workers", d.cfg.Workers,
			"queue_size", d.cfg.QueueSize,
			"staff_recipients", len(d.cfg.StaffRecipients),
		)
	})
}

// Close stops accepting jobs and waits until queued jobs are delivered or ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher stopped", "dropped", d.dropped.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped is the number of jobs rejected because the queue was full or closed.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// AnnounceCreation schedules the staff fan-out, the customer receipt and the
// creation event for a freshly committed order. Messages are rendered before
// it returns; the caller may keep changing o afterwards.
func (d *Dispatcher) AnnounceCreation(ctx context.Context, o *order.Order) {
	c := d.prepareCreation(o)
	d.enqueue(ctx, job{
		key:  c.event.OrderID.String(),
		name: "creation " + c.event.OrderNumber.String(),
		run: func(ctx context.Context) Report {
			return d.deliverCreation(ctx, c)
		},
	})
}

// AnnounceStatus schedules the customer notification and the event for a committed transition.
func (d *Dispatcher) AnnounceStatus(ctx context.Context, event order.StatusEvent) {
	d.enqueue(ctx, job{
		key:  event.OrderID.String(),
		name: "status " + event.OrderNumber.String() + " " + event.To.String(),
		run: func(ctx context.Context) Report {
			return d.DeliverStatus(ctx, event)
		},
	})
}

// DeliverCreation sends the staff message to every staff recipient with
// bounded concurrency and returns the staff report. It blocks until every
// send finished or timed out.
func (d *Dispatcher) DeliverCreation(ctx context.Context, o *order.Order) Report {
	return d.deliverCreation(ctx, d.prepareCreation(o))
}

func (d *Dispatcher) prepareCreation(o *order.Order) creation {
	staff, err := d.composer.StaffOrderMessage(o)
	return creation{
		event:      o.CreationEvent(),
		staff:      staff,
		staffErr:   err,
		receipt:    d.composer.CustomerReceiptMessage(o),
		customerID: o.CustomerID(),
	}
}

func (d *Dispatcher) deliverCreation(ctx context.Context, c creation) Report {
	number := c.event.OrderNumber.String()
	d.publish(ctx, c.event)

	var report Report
	if c.staffErr != nil {
		d.logger.ErrorContext(ctx, "render staff message", "order_number", number, "error", c.staffErr)
	} else {
		report = d.fanOut(ctx, d.cfg.StaffRecipients, c.staff)
	}
	if report.Failed > 0 {
		d.logger.WarnContext(ctx, "staff notification partially failed",
			"order_number", number,
			"attempted", report.Attempted,
			"failed", report.Failed,
		)
	}

	if err := d.send(ctx, c.customerID, c.receipt); err != nil {
		d.logger.WarnContext(ctx, "customer receipt not delivered",
			"order_number", number,
			"customer_id", c.customerID,
			"error", err,
		)
	}

	return report
}

// DeliverStatus sends the customer its status text. Statuses without a text
// (Pending) produce an empty report.
func (d *Dispatcher) DeliverStatus(ctx context.Context, event order.StatusEvent) Report {
	d.publish(ctx, event)

	msg, ok := d.composer.CustomerStatusMessage(event)
	if !ok {
		return Report{}
	}

	if err := d.send(ctx, event.CustomerID, msg); err != nil {
		d.logger.WarnContext(ctx, "customer notification not delivered",
			"order_number", event.OrderNumber.String(),
			"customer_id", event.CustomerID,
			"status", event.To.String(),
			"error", err,
		)
		return Report{Attempted: 1, Failed: 1}
	}
	return Report{Attempted: 1}
}

func (d *Dispatcher) enqueue(ctx context.Context, j job) {
	j.ctx = context.WithoutCancel(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.logger.ErrorContext(ctx, "notification dropped", "job", j.name, "error", ErrDispatcherClosed)
		return
	}

	select {
	case d.queues[d.shard(j.key)] <- j:
	default:
		d.dropped.Add(1)
		d.logger.ErrorContext(ctx, "notification queue full, dropping", "job", j.name)
	}
}

// shard pins key to one worker queue.
func (d *Dispatcher) shard(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.queues)))
}

func (d *Dispatcher) work(jobs <-chan job) {
	defer d.workers.Done()
	for j := range jobs {
		report := j.run(j.ctx)
		d.logger.DebugContext(j.ctx, "notification delivered",
			"job", j.name,
			"attempted", report.Attempted,
			"failed", report.Failed,
		)
	}
}

func (d *Dispatcher) fanOut(ctx context.Context, recipients []string, msg notification.Message) Report {
	var failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.cfg.FanoutLimit)
	for _, recipient := range recipients {
		g.Go(func() error {
			if err := d.send(ctx, recipient, msg); err != nil {
				failed.Add(1)
				d.logger.WarnContext(ctx, "staff recipient unreachable", "recipient", recipient, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Report{Attempted: len(recipients), Failed: int(failed.Load())}
}

// send bounds one delivery by the send timeout even when the messenger ignores ctx.
func (d *Dispatcher) send(ctx context.Context, recipient string, msg notification.Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- d.messenger.Send(ctx, recipient, msg)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) publish(ctx context.Context, event order.StatusEvent) {
	if d.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.WarnContext(ctx, "status event not published",
			"order_number", event.OrderNumber.String(),
			"to", event.To.String(),
			"error", err,
		)
	}
}
