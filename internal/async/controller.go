// Package async owns the case lifecycle: one queue, one consumer, strict
// FIFO. Every submitted case ends in completed or failed; a failing case
// never takes the consumer down with it.
package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
	"github.com/nishant-rao/legal-summarizer/internal/repository"
)

// Processor runs one case through the pipeline; satisfied by
// *pipeline.Processor.
type Processor interface {
	Process(ctx context.Context, item entity.QueueItem) (*entity.Summary, error)
}

type Controller struct {
	store  repository.CaseStore
	proc   Processor
	logger *slog.Logger
	idle   time.Duration

	ch   chan entity.QueueItem
	wg   sync.WaitGroup
	once sync.Once

	// mu is held shared by producers for the whole send and exclusively by
	// Shutdown; close(ch) can never overlap an in-flight send.
	mu     sync.RWMutex
	closed bool
}

type Option func(*Controller)

func WithQueueSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.ch = make(chan entity.QueueItem, n)
		}
	}
}

// WithIdleDelay sets the pause between finishing one case and picking the
// next. Zero disables it.
func WithIdleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.idle = d
		}
	}
}

func NewController(store repository.CaseStore, proc Processor, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		store:  store,
		proc:   proc,
		logger: logger,
		idle:   500 * time.Millisecond,
		ch:     make(chan entity.QueueItem, 256),
	}
	for _, o := range opts {
		o(c)
	}
	c.start()
	return c
}

func (c *Controller) start() {
	c.once.Do(func() {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.logger.Info("lifecycle consumer started")

			// Single consumer: submission order is completion order.
			for item := range c.ch {
				c.handle(item)
				if c.idle > 0 {
					time.Sleep(c.idle)
				}
			}

			c.logger.Info("lifecycle consumer stopped")
		}()
	})
}

// Submit registers a new pending case and queues it for processing.
func (c *Controller) Submit(ctx context.Context, filename, sourcePath string, media constants.MediaType) (*entity.Case, error) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("controller is shutting down")
	}

	cs := &entity.Case{
		CaseID:     entity.NewCaseID(),
		Filename:   filename,
		MediaType:  media,
		SourcePath: sourcePath,
		Status:     constants.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.store.CreateCase(ctx, cs); err != nil {
		return nil, fmt.Errorf("register case: %w", err)
	}

	item := entity.QueueItem{CaseID: cs.CaseID, SourceLocation: cs.SourcePath, MediaType: cs.MediaType}

	// A read lock, not exclusive: a producer parked on a full queue must not
	// serialize the other producers behind it.
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.Warn("cannot enqueue: controller is shutting down", "case_id", cs.CaseID)
		return nil, fmt.Errorf("controller is shutting down")
	}
	select {
	case c.ch <- item:
		c.logger.Info("case queued", "case_id", cs.CaseID, "media_type", media)
	default:
		c.logger.Warn("queue full, applying backpressure", "case_id", cs.CaseID)
		c.ch <- item
	}
	return cs, nil
}

// handle walks one case through processing to its terminal status. Panics in
// the pipeline are contained here so the consumer survives a poisoned case.
func (c *Controller) handle(item entity.QueueItem) {
	ctx := context.Background()
	log := c.logger.With("case_id", item.CaseID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", "panic", r)
			c.markFailed(ctx, item.CaseID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := c.store.UpdateStatus(ctx, item.CaseID, constants.StatusProcessing, ""); err != nil {
		log.Error("cannot mark processing", "error", err)
		return
	}

	sum, err := c.proc.Process(ctx, item)
	if err != nil {
		log.Error("processing failed", "error", err)
		c.markFailed(ctx, item.CaseID, err.Error())
		return
	}

	// The summary row lands before the completed status; a completed case
	// without its summary is never observable.
	if err := c.store.SaveSummary(ctx, sum); err != nil {
		log.Error("cannot persist summary", "error", err)
		c.markFailed(ctx, item.CaseID, fmt.Sprintf("persist summary: %v", err))
		return
	}
	if err := c.store.UpdateStatus(ctx, item.CaseID, constants.StatusCompleted, ""); err != nil {
		log.Error("cannot mark completed", "error", err)
		return
	}
	if err := c.store.LogMetric(ctx, "processing_seconds", sum.ProcessingTime, item.CaseID); err != nil {
		log.Warn("cannot log metric", "error", err)
	}
	log.Info("case completed", "confidence", sum.ConfidenceScore, "duration_s", sum.ProcessingTime)
}

func (c *Controller) markFailed(ctx context.Context, caseID, msg string) {
	if err := c.store.UpdateStatus(ctx, caseID, constants.StatusFailed, msg); err != nil {
		c.logger.Error("cannot mark failed", "case_id", caseID, "error", err)
	}
}

// Shutdown stops intake and drains already-queued cases, bounded by ctx.
func (c *Controller) Shutdown(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.ch)
	c.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); c.wg.Wait() }()

	select {
	case <-ctx.Done():
		c.logger.Warn("shutdown interrupted by context")
	case <-done:
		c.logger.Info("queue drained, shutdown complete")
	}
}
