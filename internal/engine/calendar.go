// Package engine holds the pure booking rules: which dates a stay type can
// be sold on, what a night costs, whether two stays collide and what a
// room currently looks like.  Nothing here touches storage or the clock;
// callers pass the settings snapshot and "now" in.
package engine

import (
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// IsBookable reports whether stayType may be sold on date.  A stay type
// missing from the snapshot is never bookable.
func IsBookable(settings model.Settings, stayType model.StayType, date model.Date) bool {
	s, ok := settings.Get(stayType)
	if !ok {
		return false
	}
	return s.AvailableDays.Has(date.Weekday())
}

// RateTierOf classifies date: Friday is its own tier, Saturday and Sunday
// are weekend, everything else is weekday.
func RateTierOf(date model.Date) model.RateTier {
	switch date.Weekday() {
	case time.Friday:
		return model.TierFriday
	case time.Saturday, time.Sunday:
		return model.TierWeekend
	}
	return model.TierWeekday
}

// SetDayBit returns s with one weekday toggled.
func SetDayBit(s model.AvailabilitySetting, day time.Weekday, value bool) model.AvailabilitySetting {
	s.AvailableDays = s.AvailableDays.With(day, value)
	return s
}

// SetRate returns s with the global rate of tier replaced.
func SetRate(s model.AvailabilitySetting, tier model.RateTier, amount int64) model.AvailabilitySetting {
	s.RateTable = s.RateTable.With(tier, amount)
	return s
}

// ApplyPatch returns s with every non-nil field of p applied.
func ApplyPatch(s model.AvailabilitySetting, p model.SettingPatch) model.AvailabilitySetting {
	if p.AvailableDays != nil {
		s.AvailableDays = *p.AvailableDays
	}
	if p.CheckInTime != nil {
		s.CheckInTime = *p.CheckInTime
	}
	if p.CheckOutTime != nil {
		s.CheckOutTime = *p.CheckOutTime
	}
	if p.WeekdayRate != nil {
		s = SetRate(s, model.TierWeekday, *p.WeekdayRate)
	}
	if p.FridayRate != nil {
		s = SetRate(s, model.TierFriday, *p.FridayRate)
	}
	if p.WeekendRate != nil {
		s = SetRate(s, model.TierWeekend, *p.WeekendRate)
	}
	return s
}
