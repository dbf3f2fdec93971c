package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/config"
	"event-notifier/internal/usecase/jobs"
)

// Pool polls the job queue and fans claimed jobs out to a fixed number of
// goroutines. Jobs still leased when the pool stops are redelivered once
// their lease expires.
type Pool struct {
	runner jobs.Runner
	cfg    config.WorkerConfig
	logger *slog.Logger

	jobs   chan *notification.Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(runner jobs.Runner, cfg config.WorkerConfig, logger *slog.Logger) *Pool {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = cfg.Concurrency
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Pool{
		runner: runner,
		cfg:    cfg,
		logger: logger,
		jobs:   make(chan *notification.Job),
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}

	p.wg.Add(1)
	go p.poll(ctx)

	p.logger.Info("worker pool started",
		"concurrency", p.cfg.Concurrency,
		"poll_interval", p.cfg.PollInterval.String(),
		"batch_size", p.cfg.BatchSize)
}

// Stop waits for in-flight jobs to finish or ctx to expire.
func (p *Pool) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool stop timed out")
		return ctx.Err()
	}
}

func (p *Pool) poll(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		// A full batch suggests more are due; poll again without waiting.
		for p.pollOnce(ctx) == p.cfg.BatchSize {
			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Pool) pollOnce(ctx context.Context) int {
	claimed, err := p.runner.ClaimBatch(ctx, p.cfg.BatchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("failed to claim jobs", "error", err.Error())
		}
		return 0
	}

	for _, job := range claimed {
		select {
		case p.jobs <- job:
		case <-ctx.Done():
			return 0
		}
	}
	return len(claimed)
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		// Finish the job even if shutdown begins mid-send; the outcome must be saved.
		jobCtx := context.WithoutCancel(ctx)
		if _, err := p.runner.Process(jobCtx, job); err != nil {
			p.logger.Error("job processing failed",
				"worker", id,
				"job_id", job.ID.String(),
				"error", err.Error())
		}
	}
}
