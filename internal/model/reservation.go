package model

import "time"

// Reservation records a guest's booking of one room for a date range.
// CheckInTime, CheckOutTime and RateAmount are snapshots taken when the
// reservation was made; later settings changes do not alter them.
//
// Fields:
//	ID                – primary key identifier.
//	ReservationNumber – unique human-facing number.
//	RoomID            – room being reserved.
//	GuestName, Phone  – guest contact.
//	CheckInDate       – first day of the stay.
//	CheckOutDate      – departure day (equal to CheckInDate for hourly stays).
//	CheckInTime       – scheduled check-in time (snapshot).
//	CheckOutTime      – scheduled check-out time (snapshot).
//	StayType          – hourly, nightly or long_term.
//	BookingSource     – external channel.
//	RateAmount        – price at booking time.
//	Memo              – free text.
type Reservation struct {
	ID                uint64        `json:"id"`                // reservations.id
	ReservationNumber string        `json:"reservationNumber"` // reservations.reservation_number
	RoomID            uint64        `json:"roomId"`            // reservations.room_id
	GuestName         string        `json:"guestName"`         // reservations.guest_name
	Phone             string        `json:"phone"`             // reservations.phone
	CheckInDate       Date          `json:"checkInDate"`       // reservations.check_in_date
	CheckOutDate      Date          `json:"checkOutDate"`      // reservations.check_out_date
	CheckInTime       TimeOfDay     `json:"checkInTime"`       // reservations.check_in_time
	CheckOutTime      TimeOfDay     `json:"checkOutTime"`      // reservations.check_out_time
	StayType          StayType      `json:"stayType"`          // reservations.stay_type
	BookingSource     BookingSource `json:"bookingSource"`     // reservations.booking_source
	RateAmount        int64         `json:"rateAmount"`        // reservations.rate_amount
	Memo              string        `json:"memo"`              // reservations.memo
	CreatedAt         time.Time     `json:"createdAt"`         // reservations.created_at
	UpdatedAt         time.Time     `json:"updatedAt"`         // reservations.updated_at
}

// Interval returns the scheduled stay [check-in, check-out) as instants
// in loc.  When the scheduled check-out does not fall after
// the check-in (a same-day nightly booking, an hourly stay past midnight)
// the check-out moves to the following day.
func (r Reservation) Interval(loc *time.Location) (time.Time, time.Time) {
	start := r.CheckInTime.On(r.CheckInDate, loc)
	end := r.CheckOutTime.On(r.CheckOutDate, loc)
	if !end.After(start) {
		end = r.CheckOutTime.On(r.CheckOutDate.AddDays(1), loc)
	}
	return start, end
}

// DateSpan returns the half-open date range [start, end) the reservation
// holds the room for.  A stay that checks out on its check-in date holds
// that date alone.
func (r Reservation) DateSpan() (Date, Date) {
	if r.CheckOutDate.After(r.CheckInDate) {
		return r.CheckInDate, r.CheckOutDate
	}
	return r.CheckInDate, r.CheckInDate.AddDays(1)
}

// CoversDate reports whether d lies within [CheckInDate, CheckOutDate],
// both ends inclusive.
func (r Reservation) CoversDate(d Date) bool {
	return !d.Before(r.CheckInDate) && !d.After(r.CheckOutDate)
}
