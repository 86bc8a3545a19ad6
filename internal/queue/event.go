// Package queue defines the reservation events exchanged over RabbitMQ and
// the publisher and consumer that move them.
package queue

import (
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ReservationEventsQueue is the durable queue every reservation event is
// routed to.
const ReservationEventsQueue = "reservation.events"

// Event types.
const (
	EventCreated   = "reservation.created"
	EventUpdated   = "reservation.updated"
	EventCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation write commits.  It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationEvent struct {
	Type              string `json:"type"`
	ReservationID     uint64 `json:"reservation_id"`
	ReservationNumber string `json:"reservation_number"`
	RoomID            uint64 `json:"room_id"`
	GuestName         string `json:"guest_name"`
	StayType          string `json:"stay_type"`
	BookingSource     string `json:"booking_source"`
	CheckInDate       string `json:"check_in_date"`
	CheckOutDate      string `json:"check_out_date"`
	RateAmount        int64  `json:"rate_amount"`
	OccurredAt        string `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type for res.
func NewReservationEvent(eventType string, res model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:              eventType,
		ReservationID:     res.ID,
		ReservationNumber: res.ReservationNumber,
		RoomID:            res.RoomID,
		GuestName:         res.GuestName,
		StayType:          string(res.StayType),
		BookingSource:     string(res.BookingSource),
		CheckInDate:       res.CheckInDate.String(),
		CheckOutDate:      res.CheckOutDate.String(),
		RateAmount:        res.RateAmount,
		OccurredAt:        at.UTC().Format(time.RFC3339),
	}
}
