package bootstrap

import (
	"log/slog"

	"event-notifier/internal/infra/mailer"
	"event-notifier/internal/pkg/config"
	"event-notifier/internal/usecase/dispatch"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		NewTransport,
		fx.Annotate(
			dispatch.NewEmailDispatcher,
			fx.As(new(dispatch.Dispatcher)),
		),
	),
)

func NewTransport(cfg config.Config, logger *slog.Logger) (dispatch.Transport, error) {
	return mailer.NewSMTPTransport(cfg.SMTP, logger)
}
