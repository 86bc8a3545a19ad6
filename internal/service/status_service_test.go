package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
)

func statusFixture(t *testing.T) (*StatusService, *reservationFixture) {
	t.Helper()
	f := newReservationFixture(
		model.Room{ID: 1, Name: "101"},
		model.Room{ID: 2, Name: "102"},
		model.Room{ID: 3, Name: "103", OperationalStatus: model.OpCleaningInProgress},
	)
	_, err := f.svc.Create(context.Background(), nightlyInput(1, "2024-01-09", "2024-01-11"))
	require.NoError(t, err)
	in := nightlyInput(2, "2024-01-10", "2024-01-10")
	in.StayType = "hourly"
	_, err = f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), nightlyInput(3, "2024-01-10", "2024-01-11"))
	require.NoError(t, err)

	svc := NewStatusService(memRooms{f.store}, f.store, f.settings, fixedClock{t: jan10}, time.UTC)
	return svc, f
}

func TestStatusAll(t *testing.T) {
	svc, _ := statusFixture(t)

	list, err := svc.All(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.Equal(t, model.StatusOvernightStay, list[0].Status)
	require.NotNil(t, list[0].ReservationID)
	require.False(t, list[0].Delay.IsDelayed)

	require.Equal(t, model.StatusHourlyStay, list[1].Status)

	require.Equal(t, model.Status(model.OpCleaningInProgress), list[2].Status)
	require.Nil(t, list[2].ReservationID)

	for _, st := range list {
		require.True(t, st.EvaluatedAt.Equal(jan10), "one clock read for the whole batch")
	}
}

func TestStatusRoomAt(t *testing.T) {
	svc, _ := statusFixture(t)
	ctx := context.Background()

	st, err := svc.Room(ctx, 2, time.Date(2024, 1, 10, 19, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, model.StatusHourlyStay, st.Status)
	require.Equal(t, model.Delay{IsDelayed: true, Kind: model.DelayCheckOut}, st.Delay)

	st, err = svc.Room(ctx, 1, time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, model.StatusVacant, st.Status)

	_, err = svc.Room(ctx, 9, time.Time{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatusFollowsCancellation(t *testing.T) {
	svc, f := statusFixture(t)
	ctx := context.Background()

	list, err := f.svc.ListByRoom(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, list[0].ID))

	st, err := svc.Room(ctx, 1, time.Time{})
	require.NoError(t, err)
	require.Equal(t, model.StatusVacant, st.Status)
	require.Equal(t, model.NoDelay, st.Delay)
}
