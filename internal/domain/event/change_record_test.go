//go:build unit

package event_test

import (
	"testing"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/pkg/errs"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	eventID, editorID := uuid.New(), uuid.New()

	t.Run("success: summary is derived from changes", func(t *testing.T) {
		changes := []event.FieldChange{
			{Field: event.FieldName, From: "Old", To: "New"},
			{Field: event.FieldCity, From: "A", To: "B"},
		}

		rec, err := event.NewChangeRecord(eventID, editorID, changes, now)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, rec.ID())
		assert.Equal(t, eventID, rec.EventID())
		assert.Equal(t, editorID, rec.EditorID())
		assert.Equal(t, now, rec.CreatedAt())
		assert.Equal(t, []string{
			"event_name changed from 'Old' to 'New'",
			"city changed from 'A' to 'B'",
		}, rec.Summary())
	})

	t.Run("error: no changes", func(t *testing.T) {
		_, err := event.NewChangeRecord(eventID, editorID, nil, now)
		assert.ErrorIs(t, err, event.ErrNoChanges)
	})

	t.Run("record does not alias the caller's slice", func(t *testing.T) {
		changes := []event.FieldChange{{Field: event.FieldState, From: "IL", To: "WI"}}
		rec, err := event.NewChangeRecord(eventID, editorID, changes, now)
		require.NoError(t, err)

		changes[0].To = "MN"

		assert.Equal(t, "WI", rec.Changes()[0].To)
	})
}

func TestChangeRecordPayload(t *testing.T) {
	rec, err := event.NewChangeRecord(uuid.New(), uuid.New(),
		[]event.FieldChange{{Field: event.FieldDescription, From: "", To: "Bring water"}},
		time.Now())
	require.NoError(t, err)

	raw, err := event.EncodePayload(rec.Payload())
	require.NoError(t, err)

	restored, err := event.ReconstructChangeRecord(rec.ID(), rec.EventID(), rec.EditorID(), raw, rec.CreatedAt())
	require.NoError(t, err)
	if diff := cmp.Diff(rec.Payload(), restored.Payload()); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid payload", raw: `{"changes":[{"field":"city","from":"a","to":"b"}],"summary":["x"]}`},
		{name: "empty lists are valid", raw: `{"changes":[],"summary":[]}`},
		{name: "not json", raw: `not json`, wantErr: true},
		{name: "changes has wrong type", raw: `{"changes":"oops","summary":[]}`, wantErr: true},
		{name: "missing summary", raw: `{"changes":[]}`, wantErr: true},
		{name: "change without field name", raw: `{"changes":[{"from":"a","to":"b"}],"summary":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := event.DecodePayload([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, event.ErrInvalidPayload))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
