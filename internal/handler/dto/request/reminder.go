package request

import (
	"strings"

	"event-notifier/internal/domain/notification"

	"github.com/google/uuid"
)

type ScheduleReminderRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Email  string    `json:"email" binding:"required,email,max=254"`
}

func (r ScheduleReminderRequest) ToContact() notification.Contact {
	return notification.Contact{UserID: r.UserID, Email: strings.TrimSpace(r.Email)}
}
