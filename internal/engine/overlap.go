package engine

import (
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// HasConflict reports whether proposed overlaps any reservation of its
// room.  Stays hold the half-open date range [CheckInDate, CheckOutDate),
// so a stay starting on another's check-out date does not conflict
// whatever the scheduled times are.  A stay that starts and ends on the
// same date holds that one date.  Two hourly stays on the same date are
// compared by their scheduled times instead.  The reservation with id
// exclude is skipped; pass 0 to check against all of them.
func HasConflict(reservations []model.Reservation, proposed model.Reservation, exclude uint64, loc *time.Location) bool {
	return len(Conflicts(reservations, proposed, exclude, loc)) > 0
}

// Conflicts returns every reservation HasConflict would trip on.
func Conflicts(reservations []model.Reservation, proposed model.Reservation, exclude uint64, loc *time.Location) []model.Reservation {
	var out []model.Reservation
	for _, r := range reservations {
		if r.RoomID != proposed.RoomID || (exclude != 0 && r.ID == exclude) {
			continue
		}
		if overlaps(r, proposed, loc) {
			out = append(out, r)
		}
	}
	return out
}

func overlaps(a, b model.Reservation, loc *time.Location) bool {
	if a.StayType == model.StayHourly && b.StayType == model.StayHourly {
		aIn, aOut := a.Interval(loc)
		bIn, bOut := b.Interval(loc)
		return aOut.After(bIn) && aIn.Before(bOut)
	}
	aIn, aOut := a.DateSpan()
	bIn, bOut := b.DateSpan()
	return aOut.After(bIn) && aIn.Before(bOut)
}
