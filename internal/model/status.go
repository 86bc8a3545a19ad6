package model

import "time"

// Status is the displayed state of a room.  It is derived on every read
// and never stored.
type Status string

const (
	StatusVacant        Status = "vacant"
	StatusHourlyStay    Status = "hourly_stay"
	StatusOvernightStay Status = "overnight_stay"
	StatusLongStay      Status = "long_stay"
)

// DelayKind tells which scheduled event is overdue.
type DelayKind string

const (
	DelayNone     DelayKind = "none"
	DelayCheckIn  DelayKind = "checkin"
	DelayCheckOut DelayKind = "checkout"
)

// Delay is attached to an occupied status.
type Delay struct {
	IsDelayed bool      `json:"isDelayed"`
	Kind      DelayKind `json:"kind"`
}

// NoDelay is the delay of vacant and overridden rooms.
var NoDelay = Delay{Kind: DelayNone}

// RoomStatus is the evaluated status of one room at EvaluatedAt.
type RoomStatus struct {
	RoomID        uint64    `json:"roomId"`
	Status        Status    `json:"status"`
	Delay         Delay     `json:"delay"`
	ReservationID *uint64   `json:"reservationId,omitempty"`
	EvaluatedAt   time.Time `json:"evaluatedAt"`
}
