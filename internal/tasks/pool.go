package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Pool runs worker goroutines that poll for due task instances. Each worker
// claims a batch inside its own transaction; the row locks taken by the
// claim keep two workers off the same instance.
type Pool struct {
	uowFactory   ports.UnitOfWorkFactory
	executor     *Executor
	logger       *slog.Logger
	concurrency  int
	pollInterval time.Duration
	batchSize    int

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithConcurrency sets the number of worker goroutines.
func WithConcurrency(n int) PoolOption {
	return func(p *Pool) { p.concurrency = n }
}

// WithPollInterval sets how often an idle worker polls for due tasks.
func WithPollInterval(d time.Duration) PoolOption {
	return func(p *Pool) { p.pollInterval = d }
}

// WithBatchSize caps how many instances one worker claims per poll.
func WithBatchSize(n int) PoolOption {
	return func(p *Pool) { p.batchSize = n }
}

// NewPool creates a worker pool.
func NewPool(uowFactory ports.UnitOfWorkFactory, executor *Executor, logger *slog.Logger, opts ...PoolOption) (*Pool, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if executor == nil {
		return nil, errs.NewValueIsRequiredError("executor")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	p := &Pool{
		uowFactory:   uowFactory,
		executor:     executor,
		logger:       logger.With("component", "task_pool"),
		concurrency:  2,
		pollInterval: time.Second,
		batchSize:    10,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Start launches the worker goroutines and returns immediately.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true

	p.logger.InfoContext(ctx, "Task pool starting",
		"concurrency", p.concurrency, "poll_interval", p.pollInterval)

	for range p.concurrency {
		p.wg.Add(1)
		go p.workLoop(ctx)
	}
}

// Stop signals the workers to stop and waits for them, bounded by ctx.
func (p *Pool) Stop(ctx context.Context) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Task pool stopped")
	case <-ctx.Done():
		p.logger.Warn("Task pool shutdown timed out")
	}
}

func (p *Pool) workLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		processed, err := p.ProcessDue(ctx)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to process due tasks", "error", err)
		}

		// Poll again immediately only after a full batch; otherwise idle.
		if err != nil || processed < p.batchSize {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case <-time.After(p.pollInterval):
			}
		}
	}
}

// ProcessDue claims and executes one batch of due task instances. Returns
// how many instances were claimed.
func (p *Pool) ProcessDue(ctx context.Context) (int, error) {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback(ctx)

	instances, err := uow.TaskRepository().ClaimDue(ctx, time.Now().UTC(), p.batchSize)
	if err != nil {
		return 0, err
	}
	if len(instances) == 0 {
		return 0, nil
	}

	for _, instance := range instances {
		if err := p.executor.ExecuteAttempt(ctx, uow, instance); err != nil {
			return 0, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}
	return len(instances), nil
}
