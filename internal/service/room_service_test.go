package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
)

func TestRoomCreateDefaults(t *testing.T) {
	svc := NewRoomService(memRooms{newMemStore()})

	rm, err := svc.Create(context.Background(), RoomInput{
		Name:      " 301 ",
		Floor:     "3",
		Overrides: map[string]RateInput{"nightly": {WeekendRate: 88000}},
	})
	require.NoError(t, err)
	require.NotZero(t, rm.ID)
	require.Equal(t, "301", rm.Name)
	require.True(t, rm.Display.ShowFloor && rm.Display.ShowBuilding && rm.Display.ShowName && rm.Display.ShowType)
	require.Equal(t, model.OpNone, rm.OperationalStatus)
	require.Equal(t, int64(88000), rm.Override(model.StayNightly, model.TierWeekend))
}

func TestRoomCreateValidation(t *testing.T) {
	svc := NewRoomService(memRooms{newMemStore()})

	_, err := svc.Create(context.Background(), RoomInput{
		Blocked:   map[string]bool{"weekly": true},
		Overrides: map[string]RateInput{"nightly": {FridayRate: -5}},
	})
	names := fieldNames(t, err)
	require.Contains(t, names, "name")
	require.Greater(t, len(names), 1)
}

func TestRoomRejectsBlankName(t *testing.T) {
	store := newMemStore(model.Room{ID: 7, Name: "701"})
	svc := NewRoomService(memRooms{store})

	_, err := svc.Create(context.Background(), RoomInput{Name: "   "})
	require.Equal(t, []string{"name"}, fieldNames(t, err))

	_, err = svc.Patch(context.Background(), 7, RoomPatchInput{Name: ptr(" ")})
	require.Equal(t, []string{"name"}, fieldNames(t, err))
	require.Equal(t, "701", store.rooms[7].Name)
}

func TestRoomPatch(t *testing.T) {
	store := newMemStore(model.Room{
		ID:        7,
		Name:      "701",
		Floor:     "7",
		Blocked:   map[model.StayType]bool{model.StayHourly: true},
		Overrides: map[model.StayType]model.RateTable{model.StayNightly: {Weekday: 1}},
		Memo:      "sea view",
	})
	svc := NewRoomService(memRooms{store})

	rm, err := svc.Patch(context.Background(), 7, RoomPatchInput{
		Building: ptr("Annex"),
		Blocked:  map[string]bool{"nightly": true},
	})
	require.NoError(t, err)
	require.Equal(t, "Annex", rm.Building)
	require.Equal(t, "701", rm.Name)
	require.Equal(t, "sea view", rm.Memo)
	require.True(t, rm.IsBlocked(model.StayHourly))
	require.True(t, rm.IsBlocked(model.StayNightly))
	require.Equal(t, int64(1), rm.Override(model.StayNightly, model.TierWeekday))

	_, err = svc.Patch(context.Background(), 8, RoomPatchInput{Memo: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRoomPatchMergesOverrideTiers(t *testing.T) {
	store := newMemStore(model.Room{
		ID:        7,
		Name:      "701",
		Overrides: map[model.StayType]model.RateTable{model.StayNightly: {Weekday: 90, Friday: 110}},
	})
	svc := NewRoomService(memRooms{store})

	rm, err := svc.Patch(context.Background(), 7, RoomPatchInput{
		Overrides: map[string]RatePatchInput{
			"nightly": {WeekendRate: ptr(int64(150))},
			"hourly":  {FridayRate: ptr(int64(40))},
		},
	})
	require.NoError(t, err)
	require.Equal(t, model.RateTable{Weekday: 90, Friday: 110, Weekend: 150}, rm.Overrides[model.StayNightly])
	require.Equal(t, model.RateTable{Friday: 40}, rm.Overrides[model.StayHourly])

	_, err = svc.Patch(context.Background(), 7, RoomPatchInput{
		Overrides: map[string]RatePatchInput{"nightly": {FridayRate: ptr(int64(-1))}},
	})
	require.NotEmpty(t, fieldNames(t, err))
	require.Equal(t, int64(110), store.rooms[7].Overrides[model.StayNightly].Friday)
}

func TestRoomSetOperationalStatus(t *testing.T) {
	store := newMemStore(model.Room{ID: 1, Name: "101"})
	svc := NewRoomService(memRooms{store})
	ctx := context.Background()

	rm, err := svc.SetOperationalStatus(ctx, 1, OperationalStatusInput{Status: "cleaning_requested"})
	require.NoError(t, err)
	require.Equal(t, model.OpCleaningRequested, rm.OperationalStatus)

	rm, err = svc.SetOperationalStatus(ctx, 1, OperationalStatusInput{})
	require.NoError(t, err)
	require.Equal(t, model.OpNone, rm.OperationalStatus)

	_, err = svc.SetOperationalStatus(ctx, 1, OperationalStatusInput{Status: "on_fire"})
	require.Equal(t, []string{"status"}, fieldNames(t, err))
}

func TestRoomGetAndList(t *testing.T) {
	svc := NewRoomService(memRooms{newMemStore(model.Room{ID: 2}, model.Room{ID: 1})})
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, uint64(1), list[0].ID)

	_, err = svc.Get(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)
}
