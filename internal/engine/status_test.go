package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
)

func allSettings() model.Settings {
	out := model.Settings{}
	for _, st := range model.AllStayTypes {
		out[st] = model.DefaultSetting(st)
	}
	return out
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func hourly(id, roomID uint64, day model.Date) model.Reservation {
	return model.Reservation{
		ID: id, RoomID: roomID, StayType: model.StayHourly,
		CheckInDate: day, CheckOutDate: day,
		CheckInTime: 14 * 60, CheckOutTime: 18 * 60,
	}
}

func TestResolveVacant(t *testing.T) {
	room := model.Room{ID: 7}
	got := Resolve(room, nil, allSettings(), at(10, 12, 0), time.UTC)
	require.Equal(t, model.StatusVacant, got.Status)
	require.Equal(t, model.NoDelay, got.Delay)
	require.Nil(t, got.ReservationID)
	require.Equal(t, uint64(7), got.RoomID)
}

func TestResolveOccupancyByStayType(t *testing.T) {
	room := model.Room{ID: 7}
	settings := allSettings()

	got := Resolve(room, []model.Reservation{hourly(1, 7, d(10))}, settings, at(10, 15, 0), time.UTC)
	require.Equal(t, model.StatusHourlyStay, got.Status)
	require.NotNil(t, got.ReservationID)
	require.Equal(t, uint64(1), *got.ReservationID)

	got = Resolve(room, []model.Reservation{nightly(2, 7, d(10), d(12))}, settings, at(11, 12, 0), time.UTC)
	require.Equal(t, model.StatusOvernightStay, got.Status)

	long := nightly(3, 7, d(1), d(31))
	long.StayType = model.StayLongTerm
	got = Resolve(room, []model.Reservation{long}, settings, at(15, 12, 0), time.UTC)
	require.Equal(t, model.StatusLongStay, got.Status)
}

func TestResolveIgnoresOtherRooms(t *testing.T) {
	got := Resolve(model.Room{ID: 7}, []model.Reservation{nightly(1, 8, d(10), d(12))}, allSettings(), at(11, 12, 0), time.UTC)
	require.Equal(t, model.StatusVacant, got.Status)
}

func TestResolveOperationalOverrideWins(t *testing.T) {
	room := model.Room{ID: 7, OperationalStatus: model.OpSalesStopped}
	res := []model.Reservation{nightly(1, 7, d(10), d(12))}

	got := Resolve(room, res, allSettings(), at(11, 12, 0), time.UTC)
	require.Equal(t, model.Status("sales_stopped"), got.Status)
	require.Equal(t, model.NoDelay, got.Delay)
	require.Nil(t, got.ReservationID)
}

func TestResolveTurnoverDayShowsEarlierStay(t *testing.T) {
	room := model.Room{ID: 7}
	res := []model.Reservation{
		nightly(2, 7, d(12), d(14)),
		nightly(1, 7, d(10), d(12)),
	}
	got := Resolve(room, res, allSettings(), at(12, 10, 0), time.UTC)
	require.Equal(t, uint64(1), *got.ReservationID)
}

func TestResolveAfterCancellationFallsBack(t *testing.T) {
	room := model.Room{ID: 7}
	res := []model.Reservation{nightly(1, 7, d(10), d(12))}
	require.Equal(t, model.StatusOvernightStay, Resolve(room, res, allSettings(), at(11, 9, 0), time.UTC).Status)
	require.Equal(t, model.StatusVacant, Resolve(room, nil, allSettings(), at(11, 9, 0), time.UTC).Status)
}

func TestHourlyCheckoutDelay(t *testing.T) {
	room := model.Room{ID: 7}
	res := []model.Reservation{hourly(1, 7, d(10))}

	got := Resolve(room, res, allSettings(), at(10, 19, 0), time.UTC)
	require.Equal(t, model.StatusHourlyStay, got.Status)
	require.Equal(t, model.Delay{IsDelayed: true, Kind: model.DelayCheckOut}, got.Delay)
}

func TestHourlyDelayKinds(t *testing.T) {
	r := hourly(1, 7, d(10))
	settings := allSettings()

	require.Equal(t, model.NoDelay, DetectDelay(r, settings, at(10, 13, 0), time.UTC))
	require.Equal(t, model.DelayCheckIn, DetectDelay(r, settings, at(10, 14, 1), time.UTC).Kind)
	require.Equal(t, model.DelayCheckIn, DetectDelay(r, settings, at(10, 18, 0), time.UTC).Kind)
	require.Equal(t, model.DelayCheckOut, DetectDelay(r, settings, at(10, 18, 1), time.UTC).Kind)
}

func TestNightlyDelayKinds(t *testing.T) {
	r := nightly(1, 7, d(10), d(11))
	settings := allSettings()

	require.Equal(t, model.NoDelay, DetectDelay(r, settings, at(10, 14, 0), time.UTC))
	require.Equal(t, model.Delay{IsDelayed: true, Kind: model.DelayCheckIn}, DetectDelay(r, settings, at(10, 16, 0), time.UTC))
	require.Equal(t, model.NoDelay, DetectDelay(r, settings, at(11, 10, 0), time.UTC))
	require.Equal(t, model.Delay{IsDelayed: true, Kind: model.DelayCheckOut}, DetectDelay(r, settings, at(11, 11, 30), time.UTC))
}

func TestNightlySameDayDatesCheckOutNextDay(t *testing.T) {
	r := nightly(1, 7, d(10), d(10))
	require.Equal(t, model.DelayCheckIn, DetectDelay(r, allSettings(), at(10, 23, 0), time.UTC).Kind)
	require.Equal(t, model.DelayCheckOut, DetectDelay(r, allSettings(), at(11, 12, 0), time.UTC).Kind)
}

func TestMultiNightCheckoutDelayOnDepartureDate(t *testing.T) {
	r := nightly(1, 7, d(10), d(13))
	settings := allSettings()

	require.Equal(t, model.NoDelay, DetectDelay(r, settings, at(11, 12, 0), time.UTC), "second night")
	require.Equal(t, model.NoDelay, DetectDelay(r, settings, at(12, 20, 0), time.UTC))
	require.Equal(t, model.NoDelay, DetectDelay(r, settings, at(13, 10, 59), time.UTC))
	require.Equal(t, model.Delay{IsDelayed: true, Kind: model.DelayCheckOut}, DetectDelay(r, settings, at(13, 11, 1), time.UTC))
}

func TestDelayUsesLiveSettings(t *testing.T) {
	r := hourly(1, 7, d(10))
	settings := allSettings()
	s := settings[model.StayHourly]
	s.CheckOutTime = 20 * 60
	settings[model.StayHourly] = s

	require.Equal(t, model.DelayCheckIn, DetectDelay(r, settings, at(10, 19, 0), time.UTC).Kind)
	require.Equal(t, model.DelayCheckOut, DetectDelay(r, nil, at(10, 19, 0), time.UTC).Kind)
}

func TestResolveUsesLocationForToday(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	room := model.Room{ID: 7}
	res := []model.Reservation{nightly(1, 7, d(11), d(12))}

	// 2024-01-10 20:00 UTC is already the 11th in KST.
	got := Resolve(room, res, allSettings(), at(10, 20, 0), seoul)
	require.Equal(t, model.StatusOvernightStay, got.Status)

	got = Resolve(room, res, allSettings(), at(10, 20, 0), time.UTC)
	require.Equal(t, model.StatusVacant, got.Status)
}
