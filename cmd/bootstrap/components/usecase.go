package components

import (
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/usecase/commands"
	"event-notifier/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReminderCommands,
		commands.NewEventUpdateCommands,
		commands.NewSweepCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUpdateQueries,
	),
)
