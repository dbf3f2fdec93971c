package response

import (
	"event-notifier/internal/domain/event"
	"event-notifier/internal/usecase/commands"
	"event-notifier/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type FieldChangeResponse struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

type UpdateEventResponse struct {
	Changed        bool                  `json:"changed"`
	ChangeRecordID *string               `json:"change_record_id,omitempty"`
	Changes        []FieldChangeResponse `json:"changes"`
	Enqueued       int                   `json:"enqueued"`
}

func FromUpdateEventResult(r *commands.UpdateEventResult) (*UpdateEventResponse, error) {
	res := &UpdateEventResponse{
		Changed:  r.Changed,
		Enqueued: r.Enqueued,
	}
	if r.ChangeRecordID != nil {
		id := r.ChangeRecordID.String()
		res.ChangeRecordID = &id
	}
	changes, err := fromFieldChanges(r.Changes)
	if err != nil {
		return nil, err
	}
	res.Changes = changes
	return res, nil
}

type NotifyUpdateResponse struct {
	Enqueued int `json:"enqueued"`
}

// UpdateItemResponse carries either the decoded diff or an error marker.
type UpdateItemResponse struct {
	ID        string                `json:"id"`
	EditorID  string                `json:"editor_id"`
	Changes   []FieldChangeResponse `json:"changes,omitempty"`
	Summary   []string              `json:"summary,omitempty"`
	Error     string                `json:"error,omitempty"`
	CreatedAt int64                 `json:"created_at"`
}

type UpdateListResponse struct {
	Items      []*UpdateItemResponse `json:"items"`
	NextCursor *string               `json:"next_cursor,omitempty"`
}

func FromUpdateViews(views []*queries.UpdateView, next *queries.Cursor) (*UpdateListResponse, error) {
	res := &UpdateListResponse{Items: make([]*UpdateItemResponse, len(views))}
	for i, v := range views {
		changes, err := fromFieldChanges(v.Changes)
		if err != nil {
			return nil, err
		}
		res.Items[i] = &UpdateItemResponse{
			ID:        v.ID.String(),
			EditorID:  v.EditorID.String(),
			Changes:   changes,
			Summary:   v.Summary,
			Error:     v.Error,
			CreatedAt: v.CreatedAt.Unix(),
		}
	}
	if next != nil && next.After != "" {
		after := next.After
		res.NextCursor = &after
	}
	return res, nil
}

func fromFieldChanges(changes []event.FieldChange) ([]FieldChangeResponse, error) {
	out := make([]FieldChangeResponse, 0, len(changes))
	if err := copier.Copy(&out, &changes); err != nil {
		return nil, err
	}
	return out, nil
}
