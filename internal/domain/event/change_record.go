package event

import (
	"encoding/json"
	"fmt"
	"time"

	"event-notifier/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNoChanges      = errs.New("change record requires at least one change")
	ErrInvalidPayload = errs.New("invalid update format")
)

type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Payload is the persisted diff shape read back by the updates feed.
type Payload struct {
	Changes []FieldChange `json:"changes"`
	Summary []string      `json:"summary"`
}

// ChangeRecord is immutable once created.
type ChangeRecord struct {
	id        uuid.UUID
	eventID   uuid.UUID
	editorID  uuid.UUID
	changes   []FieldChange
	summary   []string
	createdAt time.Time
}

func NewChangeRecord(eventID, editorID uuid.UUID, changes []FieldChange, now time.Time) (*ChangeRecord, error) {
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}

	copied := make([]FieldChange, len(changes))
	copy(copied, changes)

	summary := make([]string, len(copied))
	for i, c := range copied {
		summary[i] = SummaryLine(c)
	}

	return &ChangeRecord{
		id:        uuid.New(),
		eventID:   eventID,
		editorID:  editorID,
		changes:   copied,
		summary:   summary,
		createdAt: now,
	}, nil
}

// ReconstructChangeRecord rebuilds a record from its persisted payload.
func ReconstructChangeRecord(id, eventID, editorID uuid.UUID, raw []byte, createdAt time.Time) (*ChangeRecord, error) {
	p, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	return &ChangeRecord{
		id:        id,
		eventID:   eventID,
		editorID:  editorID,
		changes:   p.Changes,
		summary:   p.Summary,
		createdAt: createdAt,
	}, nil
}

func SummaryLine(c FieldChange) string {
	return fmt.Sprintf("%s changed from '%s' to '%s'", c.Field, c.From, c.To)
}

func (r *ChangeRecord) ID() uuid.UUID          { return r.id }
func (r *ChangeRecord) EventID() uuid.UUID     { return r.eventID }
func (r *ChangeRecord) EditorID() uuid.UUID    { return r.editorID }
func (r *ChangeRecord) CreatedAt() time.Time   { return r.createdAt }
func (r *ChangeRecord) Changes() []FieldChange { return append([]FieldChange(nil), r.changes...) }
func (r *ChangeRecord) Summary() []string      { return append([]string(nil), r.summary...) }

func (r *ChangeRecord) Payload() Payload {
	return Payload{Changes: r.Changes(), Summary: r.Summary()}
}

func EncodePayload(p Payload) ([]byte, error) {
	if p.Changes == nil {
		p.Changes = []FieldChange{}
	}
	if p.Summary == nil {
		p.Summary = []string{}
	}
	return json.Marshal(p)
}

// DecodePayload rejects anything that is not the documented shape.
func DecodePayload(raw []byte) (Payload, error) {
	var shape struct {
		Changes *[]FieldChange `json:"changes"`
		Summary *[]string      `json:"summary"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Payload{}, errs.Mark(err, ErrInvalidPayload)
	}
	if shape.Changes == nil || shape.Summary == nil {
		return Payload{}, ErrInvalidPayload
	}
	for _, c := range *shape.Changes {
		if c.Field == "" {
			return Payload{}, ErrInvalidPayload
		}
	}
	return Payload{Changes: *shape.Changes, Summary: *shape.Summary}, nil
}
