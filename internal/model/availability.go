package model

import "time"

// RateTier is the pricing bucket a calendar date falls into.
type RateTier string

const (
	TierWeekday RateTier = "weekday"
	TierFriday  RateTier = "friday"
	TierWeekend RateTier = "weekend"
)

// RateTable holds one amount per tier.  Amounts are non-negative whole
// currency units; zero means "not configured".
type RateTable struct {
	Weekday int64 `json:"weekdayRate"`
	Friday  int64 `json:"fridayRate"`
	Weekend int64 `json:"weekendRate"`
}

// For returns the amount configured for tier.
func (r RateTable) For(tier RateTier) int64 {
	switch tier {
	case TierFriday:
		return r.Friday
	case TierWeekend:
		return r.Weekend
	}
	return r.Weekday
}

// With returns a copy of r with the tier amount replaced.
func (r RateTable) With(tier RateTier, amount int64) RateTable {
	switch tier {
	case TierFriday:
		r.Friday = amount
	case TierWeekend:
		r.Weekend = amount
	default:
		r.Weekday = amount
	}
	return r
}

// IsZero reports whether no tier has an amount.
func (r RateTable) IsZero() bool { return r == RateTable{} }

// AvailabilitySetting is the booking policy of one stay type.  There is
// exactly one row per stay type in the `availability_settings` table.
//
// Fields:
//	StayType      – availability_settings.stay_type (primary key).
//	AvailableDays – weekly bookable mask.
//	CheckInTime   – scheduled check-in time of day.
//	CheckOutTime  – scheduled check-out time of day.
//	RateTable     – global weekday/friday/weekend rates.
//	UpdatedAt     – last modification.
type AvailabilitySetting struct {
	StayType      StayType  `json:"stayType"`
	AvailableDays WeekMask  `json:"availableDays"`
	CheckInTime   TimeOfDay `json:"checkInTime"`
	CheckOutTime  TimeOfDay `json:"checkOutTime"`
	RateTable
	UpdatedAt time.Time `json:"-"`
}

// Settings is a read-only snapshot of every stay type's setting.  It is
// loaded once per operation and passed explicitly to the pricing and
// status functions.
type Settings map[StayType]AvailabilitySetting

// Get returns the setting for st and whether it exists.
func (s Settings) Get(st StayType) (AvailabilitySetting, bool) {
	v, ok := s[st]
	return v, ok
}

// List returns the settings in AllStayTypes order, skipping missing ones.
func (s Settings) List() []AvailabilitySetting {
	out := make([]AvailabilitySetting, 0, len(s))
	for _, st := range AllStayTypes {
		if v, ok := s[st]; ok {
			out = append(out, v)
		}
	}
	return out
}

// SettingPatch carries the fields of an AvailabilitySetting an operator
// wants to change.  Nil fields are left untouched.
type SettingPatch struct {
	AvailableDays *WeekMask
	CheckInTime   *TimeOfDay
	CheckOutTime  *TimeOfDay
	WeekdayRate   *int64
	FridayRate    *int64
	WeekendRate   *int64
}

// Empty reports whether the patch changes nothing.
func (p SettingPatch) Empty() bool {
	return p.AvailableDays == nil && p.CheckInTime == nil && p.CheckOutTime == nil &&
		p.WeekdayRate == nil && p.FridayRate == nil && p.WeekendRate == nil
}

// DefaultSetting is the row inserted when a stay type is bootstrapped.
func DefaultSetting(st StayType) AvailabilitySetting {
	s := AvailabilitySetting{StayType: st, AvailableDays: AllDays}
	switch st {
	case StayHourly:
		s.CheckInTime, s.CheckOutTime = 14*60, 18*60
	default:
		s.CheckInTime, s.CheckOutTime = 15*60, 11*60
	}
	return s
}
