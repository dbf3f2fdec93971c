//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/clock"
	"event-notifier/internal/pkg/errs"
	"event-notifier/internal/usecase/commands"
	"event-notifier/internal/usecase/dispatch"
	"event-notifier/tests/common/builder"
	"event-notifier/tests/common/memstore"
	dispatchmock "event-notifier/tests/mock/dispatch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSweepCommands_RunDailySweep(t *testing.T) {
	// testNow is 2025-06-05 09:00 UTC; tomorrow is 2025-06-06.
	tomorrow := time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)
	alice := contact("alice@example.com")
	bob := contact("bob@example.com")

	setup := func(t *testing.T) (*memstore.Store, *dispatchmock.MockDispatcher, commands.SweepCommands) {
		ctrl := gomock.NewController(t)
		store := memstore.New()
		dispatcher := dispatchmock.NewMockDispatcher(ctrl)
		uc := commands.NewSweepCommands(store, dispatcher, clock.NewMockClock(testNow), testPolicy(), discardLogger())
		return store, dispatcher, uc
	}
	ok := dispatch.Result{Outcome: notification.OutcomeSuccess}

	t.Run("success: reminds the deduplicated audience of tomorrow's remindable events", func(t *testing.T) {
		store, dispatcher, uc := setup(t)
		ev := builder.NewEventBuilder().WithStartDate(tomorrow).BuildDomain()
		store.PutEvent(ev)
		store.AddRegistrant(ev.ID, alice)
		store.AddFollower(ev.ID, alice)
		store.AddFollower(ev.ID, bob)
		flagged := builder.NewEventBuilder().WithStartDate(tomorrow).AsFlagged().BuildDomain()
		store.PutEvent(flagged)
		store.AddRegistrant(flagged.ID, alice)
		later := builder.NewEventBuilder().WithStartDate(tomorrow.Add(24 * time.Hour)).BuildDomain()
		store.PutEvent(later)
		store.AddRegistrant(later.ID, alice)

		dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(ok).Times(2)

		res, err := uc.RunDailySweep(context.Background())

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), res.Window.Start)
		assert.Equal(t, 1, res.EventsProcessed)
		assert.Equal(t, 2, res.Sent)
		assert.Equal(t, 0, res.Failed)
	})

	t.Run("window covers exactly the next calendar day", func(t *testing.T) {
		store, dispatcher, uc := setup(t)
		justAfterMidnight := builder.NewEventBuilder().WithStartDate(time.Date(2025, 6, 6, 0, 0, 1, 0, time.UTC)).BuildDomain()
		justBeforeMidnight := builder.NewEventBuilder().WithStartDate(time.Date(2025, 6, 6, 23, 59, 59, 0, time.UTC)).BuildDomain()
		dayAfter := builder.NewEventBuilder().WithStartDate(time.Date(2025, 6, 7, 0, 0, 1, 0, time.UTC)).BuildDomain()
		for _, ev := range []*event.Snapshot{justAfterMidnight, justBeforeMidnight, dayAfter} {
			store.PutEvent(ev)
			store.AddRegistrant(ev.ID, alice)
		}

		reminded := map[uuid.UUID]bool{}
		dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg dispatch.Message) dispatch.Result {
				reminded[msg.Event.ID] = true
				return ok
			}).Times(2)

		res, err := uc.RunDailySweep(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, res.EventsProcessed)
		assert.Equal(t, map[uuid.UUID]bool{justAfterMidnight.ID: true, justBeforeMidnight.ID: true}, reminded)
	})

	t.Run("second run the same day sends nothing", func(t *testing.T) {
		store, dispatcher, uc := setup(t)
		ev := builder.NewEventBuilder().WithStartDate(tomorrow).BuildDomain()
		store.PutEvent(ev)
		store.AddRegistrant(ev.ID, alice)

		dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(ok).Times(1)

		_, err := uc.RunDailySweep(context.Background())
		require.NoError(t, err)
		res, err := uc.RunDailySweep(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, res.Sent)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("failed delivery is released for a later run", func(t *testing.T) {
		store, dispatcher, uc := setup(t)
		ev := builder.NewEventBuilder().WithStartDate(tomorrow).BuildDomain()
		store.PutEvent(ev)
		store.AddRegistrant(ev.ID, alice)
		store.AddRegistrant(ev.ID, bob)

		gomock.InOrder(
			dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).
				Return(dispatch.Result{Outcome: notification.OutcomeTransientFailure, Err: errors.New("451")}),
			dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(ok),
			dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(ok),
		)

		first, err := uc.RunDailySweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, first.Failed)
		assert.Equal(t, 1, first.Sent)
		assert.Equal(t, 1, store.MarkCount())

		second, err := uc.RunDailySweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, second.Sent)
		assert.Equal(t, 1, second.Skipped)
	})

	t.Run("addressless recipients are skipped without a send", func(t *testing.T) {
		store, _, uc := setup(t)
		ev := builder.NewEventBuilder().WithStartDate(tomorrow).BuildDomain()
		store.PutEvent(ev)
		store.AddRegistrant(ev.ID, notification.Contact{UserID: alice.UserID})

		res, err := uc.RunDailySweep(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, res.EventsProcessed)
		assert.Equal(t, 0, res.Sent)
	})

	t.Run("error: event selection failure aborts the run", func(t *testing.T) {
		store, _, uc := setup(t)
		store.ReadErr = errors.New("connection refused")

		_, err := uc.RunDailySweep(context.Background())

		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})

	t.Run("cancelled context stops between events", func(t *testing.T) {
		store, _, uc := setup(t)
		ev := builder.NewEventBuilder().WithStartDate(tomorrow).BuildDomain()
		store.PutEvent(ev)
		store.AddRegistrant(ev.ID, alice)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := uc.RunDailySweep(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, res)
		assert.Equal(t, 0, res.EventsProcessed)
	})
}
