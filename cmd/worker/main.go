package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"event-notifier/cmd/bootstrap"
	"event-notifier/internal/pkg/config"

	"go.uber.org/fx"
)

const stopTimeout = 60 * time.Second

func announce(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting notification worker",
				"concurrency", cfg.Worker.Concurrency,
				"poll_interval", cfg.Worker.PollInterval,
				"sweep_time", cfg.Schedule.SweepTime.String(),
				"timezone", cfg.Schedule.TimeZone,
			)
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopping notification worker")
			return nil
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.WorkerProcessModule,
		fx.StopTimeout(stopTimeout),
		fx.Invoke(announce),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		slog.Error("failed to stop worker", "error", err)
	}

	slog.Info("worker stopped")
}
