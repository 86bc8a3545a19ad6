// Package service implements the reservation lifecycle and the room,
// settings and status operations on top of the pure rules in engine.
// Services own transactions and error classification; handlers only
// translate HTTP.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/room-reservation/internal/queue"
)

// Clock is read once per operation so that every comparison in one status
// evaluation or booking uses the same "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// EventPublisher delivers reservation events after a write commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// NopPublisher drops every event.  It is used when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ReservationEvent) error { return nil }

func publish(ctx context.Context, p EventPublisher, ev queue.ReservationEvent) {
	if err := p.Publish(ctx, ev); err != nil {
		slog.Warn("reservation event not published", "type", ev.Type, "reservation_id", ev.ReservationID, "err", err)
	}
}
