package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/room-reservation/internal/engine"
	"github.com/iliyamo/room-reservation/internal/model"
)

// StatusRooms reads rooms for status evaluation.
type StatusRooms interface {
	Get(ctx context.Context, id uint64) (model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
}

// StatusReservations reads the reservations status evaluation looks at.
type StatusReservations interface {
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
	ListCovering(ctx context.Context, date model.Date) ([]model.Reservation, error)
}

// StatusService evaluates room status at a point in time.  Nothing is
// stored; every call derives the status from the current rows.
type StatusService struct {
	rooms        StatusRooms
	reservations StatusReservations
	settings     SettingsProvider
	clock        Clock
	loc          *time.Location
}

// NewStatusService returns a StatusService evaluating in loc.
func NewStatusService(rooms StatusRooms, reservations StatusReservations, settings SettingsProvider, clock Clock, loc *time.Location) *StatusService {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatusService{rooms: rooms, reservations: reservations, settings: settings, clock: clock, loc: loc}
}

// Room evaluates one room at at, or at the current time when at is zero.
func (s *StatusService) Room(ctx context.Context, roomID uint64, at time.Time) (model.RoomStatus, error) {
	now := s.instant(at)
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return model.RoomStatus{}, storageErr(fmt.Sprintf("room %d", roomID), err)
	}
	list, err := s.reservations.ListByRoom(ctx, roomID)
	if err != nil {
		return model.RoomStatus{}, storageErr(fmt.Sprintf("reservations of room %d", roomID), err)
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return model.RoomStatus{}, storageErr("load settings", err)
	}
	return engine.Resolve(room, list, settings, now, s.loc), nil
}

// All evaluates every room at the same instant.
func (s *StatusService) All(ctx context.Context, at time.Time) ([]model.RoomStatus, error) {
	now := s.instant(at)
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, storageErr("list rooms", err)
	}
	covering, err := s.reservations.ListCovering(ctx, model.DateOf(now.In(s.loc)))
	if err != nil {
		return nil, storageErr("list current reservations", err)
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, storageErr("load settings", err)
	}

	byRoom := make(map[uint64][]model.Reservation, len(rooms))
	for _, r := range covering {
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}
	out := make([]model.RoomStatus, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, engine.Resolve(room, byRoom[room.ID], settings, now, s.loc))
	}
	return out, nil
}

func (s *StatusService) instant(at time.Time) time.Time {
	if at.IsZero() {
		return s.clock.Now()
	}
	return at
}
