//go:build unit || e2e

package builder

import (
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/handler/dto/request"

	"github.com/google/uuid"
)

type EventBuilder struct {
	ID          uuid.UUID
	Name        string
	StartDate   *time.Time
	Address     string
	City        string
	State       string
	Description string
	IsAccepted  bool
	IsFlagged   bool
	OrganizerID *uuid.UUID
}

func NewEventBuilder() *EventBuilder {
	start := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	return &EventBuilder{
		ID:          uuid.New(),
		Name:        "Spring Meetup",
		StartDate:   &start,
		Address:     "1 Main St",
		City:        "Springfield",
		State:       "IL",
		Description: "Quarterly community meetup",
		IsAccepted:  true,
	}
}

func (b *EventBuilder) With(mutate func(*EventBuilder)) *EventBuilder {
	mutate(b)
	return b
}

func (b *EventBuilder) BuildDomain() *event.Snapshot {
	var start *time.Time
	if b.StartDate != nil {
		t := *b.StartDate
		start = &t
	}
	return &event.Snapshot{
		ID:          b.ID,
		Name:        b.Name,
		StartDate:   start,
		Address:     b.Address,
		City:        b.City,
		State:       b.State,
		Description: b.Description,
		IsAccepted:  b.IsAccepted,
		IsFlagged:   b.IsFlagged,
		OrganizerID: b.OrganizerID,
	}
}

// Fluent builder methods
func (b *EventBuilder) WithID(id uuid.UUID) *EventBuilder {
	b.ID = id
	return b
}

func (b *EventBuilder) WithName(name string) *EventBuilder {
	b.Name = name
	return b
}

func (b *EventBuilder) WithStartDate(t time.Time) *EventBuilder {
	b.StartDate = &t
	return b
}

func (b *EventBuilder) WithoutStartDate() *EventBuilder {
	b.StartDate = nil
	return b
}

func (b *EventBuilder) AsFlagged() *EventBuilder {
	b.IsFlagged = true
	return b
}

func (b *EventBuilder) AsPending() *EventBuilder {
	b.IsAccepted = false
	return b
}

type UpdateRequestBuilder struct {
	req request.UpdateEventRequest
}

func NewUpdateRequestBuilder() *UpdateRequestBuilder {
	return &UpdateRequestBuilder{}
}

func (b *UpdateRequestBuilder) WithName(name string) *UpdateRequestBuilder {
	b.req.Name = &name
	return b
}

func (b *UpdateRequestBuilder) WithStartDate(t time.Time) *UpdateRequestBuilder {
	b.req.StartDate = &t
	return b
}

func (b *UpdateRequestBuilder) WithCity(city string) *UpdateRequestBuilder {
	b.req.City = &city
	return b
}

func (b *UpdateRequestBuilder) WithDescription(d string) *UpdateRequestBuilder {
	b.req.Description = &d
	return b
}

func (b *UpdateRequestBuilder) BuildRequestDTO() request.UpdateEventRequest {
	return b.req
}

func (b *UpdateRequestBuilder) BuildDomain() event.EditRequest {
	edit, _ := b.req.ToDomain()
	return edit
}
