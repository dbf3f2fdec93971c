package bootstrap

import (
	"event-notifier/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// coreModule is everything both processes share.
var coreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	MailerModule,
	components.PersistenceModule,
	components.UseCaseModule,
)

// Module assembles the API process: enqueue-only HTTP boundary.
var Module = fx.Options(
	coreModule,
	JWTModule,
	components.HandlerModule,
)

// WorkerProcessModule assembles the worker process: job pool and daily sweep.
var WorkerProcessModule = fx.Options(
	coreModule,
	WorkerModule,
)
