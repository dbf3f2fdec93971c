package components

import (
	"event-notifier/internal/handler"
	"event-notifier/internal/handler/api"
	"event-notifier/internal/handler/middleware"
	"event-notifier/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReminderHandler,
		api.NewEventHandler,
		api.NewSweepHandler,
		NewHandlers,
		NewTokenValidator,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(reminders *api.ReminderHandler, events *api.EventHandler, sweeps *api.SweepHandler) handler.Handlers {
	return handler.Handlers{Reminders: reminders, Events: events, Sweeps: sweeps}
}

func NewTokenValidator(s *jwt.Service) middleware.TokenValidator {
	return s
}
