package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

type memStore struct {
	rooms        map[uint64]model.Room
	reservations map[uint64]model.Reservation
	nextID       uint64
	locks        [][]uint64
}

func newMemStore(rooms ...model.Room) *memStore {
	m := &memStore{rooms: map[uint64]model.Room{}, reservations: map[uint64]model.Reservation{}, nextID: 100}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *memStore) Room(_ context.Context, id uint64) (model.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memStore) Reservation(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memStore) ListByRoom(_ context.Context, roomID uint64) ([]model.Reservation, error) {
	return m.byRoom(roomID), nil
}

func (m *memStore) ListCovering(_ context.Context, date model.Date) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range m.sorted() {
		if r.CoversDate(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) byRoom(roomID uint64) []model.Reservation {
	out := []model.Reservation{}
	for _, r := range m.sorted() {
		if r.RoomID == roomID {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) sorted() []model.Reservation {
	out := slices.Collect(maps.Values(m.reservations))
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) WithRoomsLocked(_ context.Context, ids []uint64, fn func(repository.RoomTx) error) error {
	locked := slices.Sorted(slices.Values(ids))
	locked = slices.Compact(locked)
	m.locks = append(m.locks, locked)
	for _, id := range locked {
		if _, ok := m.rooms[id]; !ok {
			return fmt.Errorf("room %d: %w", id, repository.ErrNotFound)
		}
	}
	saved := maps.Clone(m.reservations)
	savedID := m.nextID
	if err := fn(&memTx{m: m, locked: locked}); err != nil {
		m.reservations, m.nextID = saved, savedID
		return err
	}
	return nil
}

type memTx struct {
	m      *memStore
	locked []uint64
}

func (t *memTx) guard(roomID uint64) error {
	if !slices.Contains(t.locked, roomID) {
		return repository.ErrConflict
	}
	return nil
}

func (t *memTx) Room(roomID uint64) (model.Room, error) {
	if err := t.guard(roomID); err != nil {
		return model.Room{}, err
	}
	return t.m.Room(context.Background(), roomID)
}

func (t *memTx) ListByRoom(roomID uint64) ([]model.Reservation, error) {
	if err := t.guard(roomID); err != nil {
		return nil, err
	}
	return t.m.byRoom(roomID), nil
}

func (t *memTx) Reservation(id uint64) (model.Reservation, error) {
	r, err := t.m.Reservation(context.Background(), id)
	if err != nil {
		return r, err
	}
	return r, t.guard(r.RoomID)
}

func (t *memTx) duplicate(res *model.Reservation) bool {
	for _, r := range t.m.reservations {
		if r.ID != res.ID && r.ReservationNumber == res.ReservationNumber {
			return true
		}
	}
	return false
}

func (t *memTx) Insert(res *model.Reservation) error {
	if err := t.guard(res.RoomID); err != nil {
		return err
	}
	if t.duplicate(res) {
		return repository.ErrDuplicate
	}
	t.m.nextID++
	res.ID = t.m.nextID
	t.m.reservations[res.ID] = *res
	return nil
}

func (t *memTx) Update(res *model.Reservation) error {
	if err := t.guard(res.RoomID); err != nil {
		return err
	}
	if t.duplicate(res) {
		return repository.ErrDuplicate
	}
	t.m.reservations[res.ID] = *res
	return nil
}

func (t *memTx) Delete(id uint64) error {
	if _, ok := t.m.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.m.reservations, id)
	return nil
}

// memSettings is both the settings store and the snapshot provider.
type memSettings struct {
	data        model.Settings
	invalidated int
	err         error
}

func newMemSettings() *memSettings {
	s := model.Settings{}
	for _, st := range model.AllStayTypes {
		s[st] = model.DefaultSetting(st)
	}
	nightly := s[model.StayNightly]
	nightly.RateTable = model.RateTable{Weekday: 50000, Friday: 60000, Weekend: 70000}
	s[model.StayNightly] = nightly
	hourly := s[model.StayHourly]
	hourly.RateTable = model.RateTable{Weekday: 20000, Friday: 25000, Weekend: 30000}
	s[model.StayHourly] = hourly
	return &memSettings{data: s}
}

func (s *memSettings) Snapshot(context.Context) (model.Settings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return maps.Clone(s.data), nil
}

func (s *memSettings) Invalidate(context.Context) error {
	s.invalidated++
	return nil
}

func (s *memSettings) Update(_ context.Context, apply func(model.Settings) (model.Settings, error)) (model.Settings, error) {
	next, err := apply(maps.Clone(s.data))
	if err != nil {
		return nil, err
	}
	s.data = next
	return maps.Clone(next), nil
}

func (s *memSettings) set(st model.StayType, fn func(*model.AvailabilitySetting)) {
	v := s.data[st]
	fn(&v)
	s.data[st] = v
}

type recordingPublisher struct {
	events []queue.ReservationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// memRooms adapts memStore to RoomStore.
type memRooms struct {
	*memStore
}

func (r memRooms) Create(_ context.Context, rm *model.Room) error {
	r.nextID++
	rm.ID = r.nextID
	r.rooms[rm.ID] = *rm
	return nil
}

func (r memRooms) Get(ctx context.Context, id uint64) (model.Room, error) { return r.Room(ctx, id) }

func (r memRooms) List(context.Context) ([]model.Room, error) {
	out := slices.Collect(maps.Values(r.rooms))
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memRooms) Update(_ context.Context, id uint64, apply func(model.Room) (model.Room, error)) (model.Room, error) {
	cur, ok := r.rooms[id]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	next, err := apply(cur)
	if err != nil {
		return model.Room{}, err
	}
	next.ID = id
	r.rooms[id] = next
	return next, nil
}
