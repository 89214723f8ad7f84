package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/reposter/repost/pkg/pipeline"
)

// Scheduler drives the three pipeline sweeps on their configured
// intervals. Sweeps are independent; canceling the scheduler cancels
// in-flight sweeps but already committed item transitions stay committed.
type Scheduler struct {
	ingester    Ingester
	transformer Transformer
	publisher   Publisher

	ingestInterval    time.Duration
	transformInterval time.Duration
	publishInterval   time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Ingester runs an ingest sweep
type Ingester interface {
	IngestAll(ctx context.Context) (pipeline.IngestStats, error)
}

// Transformer runs a transform sweep
type Transformer interface {
	TransformAll(ctx context.Context) (pipeline.TransformStats, error)
}

// Publisher runs a publish sweep
type Publisher interface {
	PublishAll(ctx context.Context) (pipeline.PublishStats, error)
}

// Config holds scheduler configuration
type Config struct {
	Ingester    Ingester
	Transformer Transformer
	Publisher   Publisher

	IngestInterval    time.Duration
	TransformInterval time.Duration
	PublishInterval   time.Duration
}

// NewScheduler creates a scheduler instance
func NewScheduler(cfg Config) *Scheduler {
	if cfg.IngestInterval == 0 {
		cfg.IngestInterval = time.Hour
	}
	if cfg.TransformInterval == 0 {
		cfg.TransformInterval = time.Hour
	}
	if cfg.PublishInterval == 0 {
		cfg.PublishInterval = time.Hour
	}
	return &Scheduler{
		ingester:          cfg.Ingester,
		transformer:       cfg.Transformer,
		publisher:         cfg.Publisher,
		ingestInterval:    cfg.IngestInterval,
		transformInterval: cfg.TransformInterval,
		publishInterval:   cfg.PublishInterval,
	}
}

// Start begins the sweep workers
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(3)
	go s.worker(ctx, "ingest", s.ingestInterval, func(ctx context.Context) {
		if _, err := s.ingester.IngestAll(ctx); err != nil {
			lgr.Printf("[ERROR] ingest sweep failed: %v", err)
		}
	})
	go s.worker(ctx, "transform", s.transformInterval, func(ctx context.Context) {
		if _, err := s.transformer.TransformAll(ctx); err != nil {
			lgr.Printf("[ERROR] transform sweep failed: %v", err)
		}
	})
	go s.worker(ctx, "publish", s.publishInterval, func(ctx context.Context) {
		if _, err := s.publisher.PublishAll(ctx); err != nil {
			lgr.Printf("[ERROR] publish sweep failed: %v", err)
		}
	})

	lgr.Printf("[INFO] scheduler started with ingest %v, transform %v, publish %v",
		s.ingestInterval, s.transformInterval, s.publishInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// worker runs a sweep immediately and then on every tick
func (s *Scheduler) worker(ctx context.Context, name string, interval time.Duration, sweep func(context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[DEBUG] %s worker stopped", name)
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

// IngestNow triggers an immediate ingest sweep
func (s *Scheduler) IngestNow(ctx context.Context) (pipeline.IngestStats, error) {
	return s.ingester.IngestAll(ctx)
}

// TransformNow triggers an immediate transform sweep
func (s *Scheduler) TransformNow(ctx context.Context) (pipeline.TransformStats, error) {
	return s.transformer.TransformAll(ctx)
}

// PublishNow triggers an immediate publish sweep
func (s *Scheduler) PublishNow(ctx context.Context) (pipeline.PublishStats, error) {
	return s.publisher.PublishAll(ctx)
}
