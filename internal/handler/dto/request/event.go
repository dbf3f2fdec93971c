package request

import (
	"time"

	"event-notifier/internal/domain/event"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// UpdateEventRequest: absent fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"event_name,omitempty" binding:"omitempty,min=1,max=200"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Address     *string    `json:"address,omitempty" binding:"omitempty,max=255"`
	City        *string    `json:"city,omitempty" binding:"omitempty,max=100"`
	State       *string    `json:"state,omitempty" binding:"omitempty,max=100"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=5000"`
}

func (r UpdateEventRequest) ToDomain() (event.EditRequest, error) {
	var out event.EditRequest
	if err := copier.Copy(&out, &r); err != nil {
		return event.EditRequest{}, err
	}
	return out, nil
}

type NotifyUpdateRequest struct {
	ChangeRecordID uuid.UUID `json:"change_record_id" binding:"required"`
}
