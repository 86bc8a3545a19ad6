package engine

import (
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

var occupancyStatus = map[model.StayType]model.Status{
	model.StayHourly:   model.StatusHourlyStay,
	model.StayNightly:  model.StatusOvernightStay,
	model.StayLongTerm: model.StatusLongStay,
}

// Resolve derives the status of room at now.  The staff override wins;
// otherwise the reservation whose inclusive date range covers today makes
// the room occupied; otherwise it is vacant.  When two reservations cover
// today (checkout and checkin on the same day) the earlier one is shown
// until staff clears it.
func Resolve(room model.Room, reservations []model.Reservation, settings model.Settings, now time.Time, loc *time.Location) model.RoomStatus {
	now = now.In(loc)
	out := model.RoomStatus{RoomID: room.ID, Status: model.StatusVacant, Delay: model.NoDelay, EvaluatedAt: now}

	if room.OperationalStatus != model.OpNone {
		out.Status = model.Status(room.OperationalStatus)
		return out
	}

	cur, ok := Current(reservations, room.ID, now, loc)
	if !ok {
		return out
	}
	id := cur.ID
	out.ReservationID = &id
	out.Status = occupancyStatus[cur.StayType]
	out.Delay = DetectDelay(cur, settings, now, loc)
	return out
}

// Current returns the reservation of roomID occupying the room on the
// date of now, preferring the earliest check-in.
func Current(reservations []model.Reservation, roomID uint64, now time.Time, loc *time.Location) (model.Reservation, bool) {
	today := model.DateOf(now.In(loc))
	var (
		best      model.Reservation
		bestStart time.Time
		found     bool
	)
	for _, r := range reservations {
		if r.RoomID != roomID || !r.CoversDate(today) {
			continue
		}
		start, _ := r.Interval(loc)
		if !found || start.Before(bestStart) || (start.Equal(bestStart) && r.ID < best.ID) {
			best, bestStart, found = r, start, true
		}
	}
	return best, found
}

// DetectDelay reports whether the guest of r is late to check in or out at
// now.  Scheduled times come from the live setting of the stay type and
// fall back to the reservation's snapshot when the setting is missing.
func DetectDelay(r model.Reservation, settings model.Settings, now time.Time, loc *time.Location) model.Delay {
	now = now.In(loc)
	in, out := r.CheckInTime, r.CheckOutTime
	if s, ok := settings.Get(r.StayType); ok {
		in, out = s.CheckInTime, s.CheckOutTime
	}
	today := model.DateOf(now)

	if r.StayType == model.StayHourly {
		switch {
		case now.After(out.On(today, loc)):
			return model.Delay{IsDelayed: true, Kind: model.DelayCheckOut}
		case now.After(in.On(today, loc)):
			return model.Delay{IsDelayed: true, Kind: model.DelayCheckIn}
		}
		return model.NoDelay
	}

	// Departure date; a stay booked in and out on one date leaves the next day.
	checkoutDay := r.CheckOutDate
	if !checkoutDay.After(r.CheckInDate) {
		checkoutDay = r.CheckInDate.AddDays(1)
	}
	switch {
	case !today.Before(checkoutDay) && now.After(out.On(checkoutDay, loc)):
		return model.Delay{IsDelayed: true, Kind: model.DelayCheckOut}
	case today.Equal(r.CheckInDate) && now.After(in.On(today, loc)):
		return model.Delay{IsDelayed: true, Kind: model.DelayCheckIn}
	}
	return model.NoDelay
}
