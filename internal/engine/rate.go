package engine

import (
	"errors"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ErrUnavailable is returned by PriceFor when the stay type cannot be sold
// on the requested date.
var ErrUnavailable = errors.New("stay type not available on date")

// PriceFor returns the rate charged for one booking of stayType starting
// on date in room.  Room overrides shadow the global rate tier by tier; a
// zero override falls through.  Zero is returned when neither is set.
func PriceFor(settings model.Settings, room model.Room, stayType model.StayType, date model.Date) (int64, error) {
	if !IsBookable(settings, stayType, date) {
		return 0, ErrUnavailable
	}
	tier := RateTierOf(date)
	if amount := room.Override(stayType, tier); amount > 0 {
		return amount, nil
	}
	s, _ := settings.Get(stayType)
	return s.For(tier), nil
}
