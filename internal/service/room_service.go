package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/room-reservation/internal/model"
)

// RoomStore persists rooms and their rate overrides.
type RoomStore interface {
	Create(ctx context.Context, rm *model.Room) error
	Get(ctx context.Context, id uint64) (model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Update(ctx context.Context, id uint64, apply func(model.Room) (model.Room, error)) (model.Room, error)
}

// RateInput is one per-room override row.  Zero means "use the global
// rate" for that tier.
type RateInput struct {
	WeekdayRate int64 `json:"weekdayRate" validate:"min=0"`
	FridayRate  int64 `json:"fridayRate" validate:"min=0"`
	WeekendRate int64 `json:"weekendRate" validate:"min=0"`
}

func (r RateInput) table() model.RateTable {
	return model.RateTable{Weekday: r.WeekdayRate, Friday: r.FridayRate, Weekend: r.WeekendRate}
}

// RoomInput is the body of a create room request.  Display defaults to
// showing everything.
type RoomInput struct {
	Floor     string               `json:"floor" validate:"max=32"`
	Building  string               `json:"building" validate:"max=64"`
	Name      string               `json:"name" validate:"required,notblank,max=64"`
	Type      string               `json:"type" validate:"max=64"`
	Display   *model.Display       `json:"display"`
	Blocked   map[string]bool      `json:"blocked" validate:"omitempty,dive,keys,oneof=hourly nightly long_term,endkeys"`
	Overrides map[string]RateInput `json:"overrides" validate:"omitempty,dive,keys,oneof=hourly nightly long_term,endkeys"`
	Memo      string               `json:"memo" validate:"max=2000"`
}

// RatePatchInput changes single tiers of a per-room override.  Omitted
// tiers keep their value; zero falls back to the global rate.
type RatePatchInput struct {
	WeekdayRate *int64 `json:"weekdayRate" validate:"omitnil,min=0"`
	FridayRate  *int64 `json:"fridayRate" validate:"omitnil,min=0"`
	WeekendRate *int64 `json:"weekendRate" validate:"omitnil,min=0"`
}

// RoomPatchInput is the body of a patch room request.
type RoomPatchInput struct {
	Floor     *string                   `json:"floor" validate:"omitnil,max=32"`
	Building  *string                   `json:"building" validate:"omitnil,max=64"`
	Name      *string                   `json:"name" validate:"omitnil,notblank,max=64"`
	Type      *string                   `json:"type" validate:"omitnil,max=64"`
	Display   *model.Display            `json:"display"`
	Blocked   map[string]bool           `json:"blocked" validate:"omitempty,dive,keys,oneof=hourly nightly long_term,endkeys"`
	Overrides map[string]RatePatchInput `json:"overrides" validate:"omitempty,dive,keys,oneof=hourly nightly long_term,endkeys"`
	Memo      *string                   `json:"memo" validate:"omitnil,max=2000"`
}

// OperationalStatusInput sets or, when Status is empty, clears the staff
// override of a room.
type OperationalStatusInput struct {
	Status string `json:"status" validate:"omitempty,oneof=cleaning_requested cleaning_in_progress cleaning_complete inspection_requested under_inspection inspection_complete sales_stopped reservation_complete"`
}

// RoomService manages rooms.
type RoomService struct {
	store RoomStore
}

// NewRoomService returns a RoomService.
func NewRoomService(store RoomStore) *RoomService { return &RoomService{store: store} }

// Create adds a room.  A new room has no operational override, so it
// reads as vacant.
func (s *RoomService) Create(ctx context.Context, in RoomInput) (model.Room, error) {
	if err := check(in); err != nil {
		return model.Room{}, err
	}
	rm := model.Room{
		Floor:     strings.TrimSpace(in.Floor),
		Building:  strings.TrimSpace(in.Building),
		Name:      strings.TrimSpace(in.Name),
		Type:      strings.TrimSpace(in.Type),
		Display:   model.Display{ShowFloor: true, ShowBuilding: true, ShowName: true, ShowType: true},
		Blocked:   stayMap(in.Blocked),
		Overrides: rateMap(in.Overrides),
		Memo:      in.Memo,
	}
	if in.Display != nil {
		rm.Display = *in.Display
	}
	if err := s.store.Create(ctx, &rm); err != nil {
		return model.Room{}, storageErr("create room", err)
	}
	return rm, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id uint64) (model.Room, error) {
	rm, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Room{}, storageErr(fmt.Sprintf("room %d", id), err)
	}
	return rm, nil
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.store.List(ctx)
	if err != nil {
		return nil, storageErr("list rooms", err)
	}
	return rooms, nil
}

// Patch changes only the supplied room fields.
func (s *RoomService) Patch(ctx context.Context, id uint64, in RoomPatchInput) (model.Room, error) {
	if err := check(in); err != nil {
		return model.Room{}, err
	}
	patch := model.RoomPatch{
		Floor:     trimmed(in.Floor),
		Building:  trimmed(in.Building),
		Name:      trimmed(in.Name),
		Type:      trimmed(in.Type),
		Display:   in.Display,
		Blocked:   stayMap(in.Blocked),
		Overrides: ratePatchMap(in.Overrides),
		Memo:      in.Memo,
	}
	rm, err := s.store.Update(ctx, id, func(cur model.Room) (model.Room, error) {
		return patch.Apply(cur), nil
	})
	if err != nil {
		return model.Room{}, storageErr(fmt.Sprintf("patch room %d", id), err)
	}
	return rm, nil
}

// SetOperationalStatus sets or clears the room's override.
func (s *RoomService) SetOperationalStatus(ctx context.Context, id uint64, in OperationalStatusInput) (model.Room, error) {
	if err := check(in); err != nil {
		return model.Room{}, err
	}
	status := model.OperationalStatus(in.Status)
	rm, err := s.store.Update(ctx, id, func(cur model.Room) (model.Room, error) {
		cur.OperationalStatus = status
		return cur, nil
	})
	if err != nil {
		return model.Room{}, storageErr(fmt.Sprintf("set status of room %d", id), err)
	}
	return rm, nil
}

func stayMap(in map[string]bool) map[model.StayType]bool {
	out := make(map[model.StayType]bool, len(in))
	for k, v := range in {
		out[model.StayType(k)] = v
	}
	return out
}

func rateMap(in map[string]RateInput) map[model.StayType]model.RateTable {
	out := make(map[model.StayType]model.RateTable, len(in))
	for k, v := range in {
		out[model.StayType(k)] = v.table()
	}
	return out
}

func ratePatchMap(in map[string]RatePatchInput) map[model.StayType]model.RatePatch {
	out := make(map[model.StayType]model.RatePatch, len(in))
	for k, v := range in {
		out[model.StayType(k)] = model.RatePatch{Weekday: v.WeekdayRate, Friday: v.FridayRate, Weekend: v.WeekendRate}
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
