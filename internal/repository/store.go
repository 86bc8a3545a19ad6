package repository

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/iliyamo/room-reservation/internal/model"
)

// RoomTx is the view of the database a reservation write gets while it
// holds the locks of one or more rooms.  Reads of locked rooms and their
// reservations cannot change until the callback returns.
type RoomTx interface {
	Room(roomID uint64) (model.Room, error)
	ListByRoom(roomID uint64) ([]model.Reservation, error)
	Reservation(id uint64) (model.Reservation, error)
	Insert(res *model.Reservation) error
	Update(res *model.Reservation) error
	Delete(id uint64) error
}

// Store runs reservation writes in a transaction that first locks the
// affected room rows.  Two writers touching the same room are serialized
// on the row lock, so the overlap check and the insert see the same data.
type Store struct {
	db           *sql.DB
	rooms        *RoomRepo
	reservations *ReservationRepo
}

// NewStore returns a Store over db.
func NewStore(db *sql.DB, rooms *RoomRepo, reservations *ReservationRepo) *Store {
	return &Store{db: db, rooms: rooms, reservations: reservations}
}

// Reservation reads a reservation without taking any lock.
func (s *Store) Reservation(ctx context.Context, id uint64) (model.Reservation, error) {
	return s.reservations.Get(ctx, id)
}

// Room reads a room without taking any lock.
func (s *Store) Room(ctx context.Context, id uint64) (model.Room, error) {
	return s.rooms.Get(ctx, id)
}

// ListByRoom reads a room's reservations without taking any lock.
func (s *Store) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByRoom(ctx, roomID)
}

// WithRoomsLocked begins a transaction, locks the rooms in roomIDs in
// ascending order and calls fn.  The transaction commits when fn returns
// nil and rolls back otherwise.  ErrNotFound is returned without calling
// fn when one of the rooms does not exist.
func (s *Store) WithRoomsLocked(ctx context.Context, roomIDs []uint64, fn func(RoomTx) error) error {
	ids := slices.Clone(roomIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := s.rooms.LockTx(ctx, tx, ids)
	if err != nil {
		return err
	}
	if len(locked) != len(ids) {
		for _, id := range ids {
			if !slices.Contains(locked, id) {
				return fmt.Errorf("room %d: %w", id, ErrNotFound)
			}
		}
	}

	if err := fn(&roomTx{ctx: ctx, tx: tx, store: s, locked: ids}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type roomTx struct {
	ctx    context.Context
	tx     *sql.Tx
	store  *Store
	locked []uint64
}

func (t *roomTx) requireLocked(roomID uint64) error {
	if !slices.Contains(t.locked, roomID) {
		return fmt.Errorf("room %d is not locked by this transaction: %w", roomID, ErrConflict)
	}
	return nil
}

func (t *roomTx) Room(roomID uint64) (model.Room, error) {
	if err := t.requireLocked(roomID); err != nil {
		return model.Room{}, err
	}
	return getRoom(t.ctx, t.tx, roomID, false)
}

func (t *roomTx) ListByRoom(roomID uint64) ([]model.Reservation, error) {
	if err := t.requireLocked(roomID); err != nil {
		return nil, err
	}
	return t.store.reservations.ListByRoomTx(t.ctx, t.tx, roomID)
}

// Reservation re-reads a reservation inside the transaction.  If it has
// moved to a room this transaction did not lock, ErrConflict is returned
// so the caller can retry.
func (t *roomTx) Reservation(id uint64) (model.Reservation, error) {
	res, err := t.store.reservations.GetTx(t.ctx, t.tx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := t.requireLocked(res.RoomID); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (t *roomTx) Insert(res *model.Reservation) error {
	if err := t.requireLocked(res.RoomID); err != nil {
		return err
	}
	return t.store.reservations.CreateTx(t.ctx, t.tx, res)
}

func (t *roomTx) Update(res *model.Reservation) error {
	if err := t.requireLocked(res.RoomID); err != nil {
		return err
	}
	return t.store.reservations.UpdateTx(t.ctx, t.tx, res)
}

func (t *roomTx) Delete(id uint64) error {
	return t.store.reservations.DeleteTx(t.ctx, t.tx, id)
}
