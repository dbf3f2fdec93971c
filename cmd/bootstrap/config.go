package bootstrap

import (
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewPolicy,
	),
)

func NewPolicy(cfg config.Config) (notification.Policy, error) {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return notification.Policy{}, err
	}
	return notification.Policy{
		Location:            loc,
		ReminderFireTime:    cfg.Schedule.ReminderFireTime,
		SweepTime:           cfg.Schedule.SweepTime,
		ReminderMaxAttempts: cfg.Schedule.ReminderMaxAttempts,
		UpdateMaxAttempts:   cfg.Schedule.UpdateMaxAttempts,
		RetryBaseDelay:      cfg.Schedule.RetryBaseDelay,
	}, nil
}
