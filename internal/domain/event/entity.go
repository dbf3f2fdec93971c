package event

import (
	"time"

	"event-notifier/internal/pkg/patch"

	"github.com/google/uuid"
)

// Notifiable field names. The order here is the order of a ChangeRecord's changes.
const (
	FieldName        = "event_name"
	FieldStartDate   = "start_date"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldDescription = "description"
)

const DisplayDateTimeLayout = "2006-01-02 15:04:05"

// Snapshot is the read-only projection of an event's notifiable fields.
// It is always fetched fresh; nothing holds one across a job delay.
type Snapshot struct {
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

// EditRequest carries only the fields present in an edit; nil means "not sent".
type EditRequest struct {
	Name        *string
	StartDate   *time.Time
	Address     *string
	City        *string
	State       *string
	Description *string
}

func (r EditRequest) IsEmpty() bool {
	return r.Name == nil && r.StartDate == nil && r.Address == nil &&
		r.City == nil && r.State == nil && r.Description == nil
}

// Apply returns a copy of s with every field present in req overwritten.
func (s *Snapshot) Apply(req EditRequest) *Snapshot {
	out := *s
	out.Name = patch.Coalesce(req.Name, s.Name)
	out.Address = patch.Coalesce(req.Address, s.Address)
	out.City = patch.Coalesce(req.City, s.City)
	out.State = patch.Coalesce(req.State, s.State)
	out.Description = patch.Coalesce(req.Description, s.Description)
	if req.StartDate != nil {
		t := *req.StartDate
		out.StartDate = &t
	}
	return &out
}

// IsRemindable reports whether the event may be announced to its audience.
func (s *Snapshot) IsRemindable() bool {
	return s.IsAccepted && !s.IsFlagged
}

// FormatDateTime renders t in loc, or UTC when loc is nil.
func FormatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayDateTimeLayout)
}
