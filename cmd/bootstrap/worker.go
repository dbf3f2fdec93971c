package bootstrap

import (
	"context"
	"log/slog"

	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/pkg/config"
	"event-notifier/internal/usecase/dispatch"
	"event-notifier/internal/usecase/jobs"
	"event-notifier/internal/usecase/shared"
	"event-notifier/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewRunner,
		NewPool,
		worker.NewSweepTrigger,
	),
	fx.Invoke(startWorkers),
)

func NewRunner(
	uow shared.UnitOfWork,
	dispatcher dispatch.Dispatcher,
	clk clock.Clock,
	policy notification.Policy,
	cfg config.Config,
	logger *slog.Logger,
) jobs.Runner {
	return jobs.NewRunner(uow, dispatcher, clk, policy, cfg.Worker.Lease, logger)
}

func NewPool(runner jobs.Runner, cfg config.Config, logger *slog.Logger) *worker.Pool {
	return worker.NewPool(runner, cfg.Worker, logger)
}

func startWorkers(lc fx.Lifecycle, pool *worker.Pool, trigger *worker.SweepTrigger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// The start context expires once startup completes; workers need their own.
			pool.Start(context.Background())
			trigger.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := trigger.Stop(ctx); err != nil {
				return err
			}
			return pool.Stop(ctx)
		},
	})
}
