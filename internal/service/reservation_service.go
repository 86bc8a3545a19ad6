package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-reservation/internal/engine"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// ReservationStore is the storage the lifecycle needs.  Writes happen only
// inside WithRoomsLocked.
type ReservationStore interface {
	Room(ctx context.Context, id uint64) (model.Room, error)
	Reservation(ctx context.Context, id uint64) (model.Reservation, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
	WithRoomsLocked(ctx context.Context, roomIDs []uint64, fn func(repository.RoomTx) error) error
}

// SettingsProvider hands out settings snapshots.
type SettingsProvider interface {
	Snapshot(ctx context.Context) (model.Settings, error)
	Invalidate(ctx context.Context) error
}

// ReservationInput is the body of a create request.  The server fills in
// the scheduled times and the rate.
type ReservationInput struct {
	ReservationNumber string `json:"reservationNumber" validate:"max=32"`
	RoomID            uint64 `json:"roomId" validate:"required"`
	GuestName         string `json:"guestName" validate:"required,notblank,max=128"`
	Phone             string `json:"phone" validate:"max=32"`
	CheckInDate       string `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate      string `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	StayType          string `json:"stayType" validate:"required,oneof=hourly nightly long_term"`
	BookingSource     string `json:"bookingSource" validate:"required,oneof=walk_in phone website ota agency other"`
	Memo              string `json:"memo" validate:"max=2000"`
}

// ReservationPatch is the body of an update request.  Absent fields keep
// their stored value.  RateAmount lets an operator set the price by hand.
type ReservationPatch struct {
	ReservationNumber *string `json:"reservationNumber" validate:"omitnil,notblank,max=32"`
	RoomID            *uint64 `json:"roomId" validate:"omitnil,min=1"`
	GuestName         *string `json:"guestName" validate:"omitnil,notblank,max=128"`
	Phone             *string `json:"phone" validate:"omitnil,max=32"`
	CheckInDate       *string `json:"checkInDate" validate:"omitnil,datetime=2006-01-02"`
	CheckOutDate      *string `json:"checkOutDate" validate:"omitnil,datetime=2006-01-02"`
	StayType          *string `json:"stayType" validate:"omitnil,oneof=hourly nightly long_term"`
	BookingSource     *string `json:"bookingSource" validate:"omitnil,oneof=walk_in phone website ota agency other"`
	RateAmount        *int64  `json:"rateAmount" validate:"omitnil,min=0"`
	Memo              *string `json:"memo" validate:"omitnil,max=2000"`
}

// QuoteInput asks what a booking would cost.
type QuoteInput struct {
	StayType string `query:"stay_type" json:"stayType" validate:"required,oneof=hourly nightly long_term"`
	Date     string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
}

// Quote is the price of a draft reservation and the times it would be
// booked with.
type Quote struct {
	RoomID       uint64          `json:"roomId"`
	StayType     model.StayType  `json:"stayType"`
	Date         model.Date      `json:"date"`
	Tier         model.RateTier  `json:"tier"`
	Amount       int64           `json:"amount"`
	CheckInTime  model.TimeOfDay `json:"checkInTime"`
	CheckOutTime model.TimeOfDay `json:"checkOutTime"`
}

// lockRetries bounds how often an update or cancel re-locks after the
// reservation moved to another room under it.
const lockRetries = 3

// ReservationService creates, updates and cancels reservations.  Every
// write validates and commits while holding the affected rooms' locks.
type ReservationService struct {
	store    ReservationStore
	settings SettingsProvider
	events   EventPublisher
	clock    Clock
	loc      *time.Location
}

// NewReservationService wires the lifecycle.  loc is the property's time
// zone; dates and scheduled times are interpreted in it.
func NewReservationService(store ReservationStore, settings SettingsProvider, events EventPublisher, clock Clock, loc *time.Location) *ReservationService {
	if events == nil {
		events = NopPublisher{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{store: store, settings: settings, events: events, clock: clock, loc: loc}
}

// Create books a room.  Checks run in this order: field validation, date
// range, room existence, sales limit, weekday availability, overlap.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (model.Reservation, error) {
	if err := check(in); err != nil {
		return model.Reservation{}, err
	}
	inDate, _ := model.ParseDate(in.CheckInDate)
	outDate, _ := model.ParseDate(in.CheckOutDate)
	if outDate.Before(inDate) {
		return model.Reservation{}, ErrInvalidDateRange
	}
	stayType := model.StayType(in.StayType)

	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return model.Reservation{}, storageErr("load settings", err)
	}

	number := strings.TrimSpace(in.ReservationNumber)
	if number == "" {
		number = newReservationNumber()
	}
	res := model.Reservation{
		ReservationNumber: number,
		RoomID:            in.RoomID,
		GuestName:         strings.TrimSpace(in.GuestName),
		Phone:             strings.TrimSpace(in.Phone),
		CheckInDate:       inDate,
		CheckOutDate:      outDate,
		StayType:          stayType,
		BookingSource:     model.BookingSource(in.BookingSource),
		Memo:              in.Memo,
	}

	err = s.store.WithRoomsLocked(ctx, []uint64{in.RoomID}, func(tx repository.RoomTx) error {
		room, err := tx.Room(res.RoomID)
		if err != nil {
			return err
		}
		if err := admit(settings, room, res.StayType, res.CheckInDate); err != nil {
			return err
		}
		snapshotTimes(settings, &res)
		if err := s.checkOverlap(tx, res, 0); err != nil {
			return err
		}
		res.RateAmount, err = s.price(settings, room, res.StayType, res.CheckInDate)
		if err != nil {
			return err
		}
		return insertOrDuplicate(tx.Insert, &res)
	})
	if err != nil {
		return model.Reservation{}, storageErr(fmt.Sprintf("create reservation for room %d", in.RoomID), err)
	}
	publish(ctx, s.events, queue.NewReservationEvent(queue.EventCreated, res, s.clock.Now()))
	return res, nil
}

// Update applies patch to reservation id.  The same checks as Create run
// against the patched values, and the overlap check ignores the
// reservation itself.  The rate is recomputed only when the check-in date
// or the stay type changed, unless the patch sets it explicitly.
func (s *ReservationService) Update(ctx context.Context, id uint64, patch ReservationPatch) (model.Reservation, error) {
	if err := check(patch); err != nil {
		return model.Reservation{}, err
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return model.Reservation{}, storageErr("load settings", err)
	}

	var out model.Reservation
	err = s.withReservationLocked(ctx, id, patch.RoomID, func(tx repository.RoomTx, cur model.Reservation) error {
		next := applyReservationPatch(cur, patch)
		if next.CheckOutDate.Before(next.CheckInDate) {
			return ErrInvalidDateRange
		}
		room, err := tx.Room(next.RoomID)
		if err != nil {
			return err
		}

		stayChanged := next.StayType != cur.StayType
		dateChanged := !next.CheckInDate.Equal(cur.CheckInDate)
		roomChanged := next.RoomID != cur.RoomID
		if stayChanged || dateChanged || roomChanged {
			if err := admit(settings, room, next.StayType, next.CheckInDate); err != nil {
				return err
			}
		}
		if stayChanged {
			snapshotTimes(settings, &next)
		}
		if err := s.checkOverlap(tx, next, id); err != nil {
			return err
		}

		switch {
		case patch.RateAmount != nil:
			next.RateAmount = *patch.RateAmount
		case stayChanged || dateChanged:
			next.RateAmount, err = s.price(settings, room, next.StayType, next.CheckInDate)
			if err != nil {
				return err
			}
		}
		if err := insertOrDuplicate(tx.Update, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return model.Reservation{}, storageErr(fmt.Sprintf("update reservation %d", id), err)
	}
	publish(ctx, s.events, queue.NewReservationEvent(queue.EventUpdated, out, s.clock.Now()))
	return out, nil
}

// Cancel deletes reservation id.  The room's status falls back to
// whatever the next rule yields on the next read.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) error {
	var gone model.Reservation
	err := s.withReservationLocked(ctx, id, nil, func(tx repository.RoomTx, cur model.Reservation) error {
		if err := tx.Delete(id); err != nil {
			return err
		}
		gone = cur
		return nil
	})
	if err != nil {
		return storageErr(fmt.Sprintf("cancel reservation %d", id), err)
	}
	publish(ctx, s.events, queue.NewReservationEvent(queue.EventCancelled, gone, s.clock.Now()))
	return nil
}

// Get returns one reservation.
func (s *ReservationService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := s.store.Reservation(ctx, id)
	if err != nil {
		return model.Reservation{}, storageErr(fmt.Sprintf("reservation %d", id), err)
	}
	return res, nil
}

// ListByRoom returns the reservations of a room.  An unknown room is
// NotFound rather than an empty list.
func (s *ReservationService) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	if _, err := s.store.Room(ctx, roomID); err != nil {
		return nil, storageErr(fmt.Sprintf("room %d", roomID), err)
	}
	list, err := s.store.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("list reservations of room %d", roomID), err)
	}
	return list, nil
}

// Quote prices a draft reservation without writing anything.
func (s *ReservationService) Quote(ctx context.Context, roomID uint64, in QuoteInput) (Quote, error) {
	if err := check(in); err != nil {
		return Quote{}, err
	}
	date, _ := model.ParseDate(in.Date)
	stayType := model.StayType(in.StayType)

	room, err := s.store.Room(ctx, roomID)
	if err != nil {
		return Quote{}, storageErr(fmt.Sprintf("room %d", roomID), err)
	}
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return Quote{}, storageErr("load settings", err)
	}
	if room.IsBlocked(stayType) {
		return Quote{}, ErrSalesBlocked
	}
	amount, err := s.price(settings, room, stayType, date)
	if err != nil {
		return Quote{}, err
	}
	setting, _ := settings.Get(stayType)
	return Quote{
		RoomID:       roomID,
		StayType:     stayType,
		Date:         date,
		Tier:         engine.RateTierOf(date),
		Amount:       amount,
		CheckInTime:  setting.CheckInTime,
		CheckOutTime: setting.CheckOutTime,
	}, nil
}

// admit runs the sales limit and weekday availability checks.
func admit(settings model.Settings, room model.Room, st model.StayType, date model.Date) error {
	if room.IsBlocked(st) {
		return ErrSalesBlocked
	}
	if !engine.IsBookable(settings, st, date) {
		return ErrDateUnavailable
	}
	return nil
}

// snapshotTimes copies the stay type's current scheduled times onto res.
func snapshotTimes(settings model.Settings, res *model.Reservation) {
	setting, _ := settings.Get(res.StayType)
	res.CheckInTime, res.CheckOutTime = setting.CheckInTime, setting.CheckOutTime
}

func (s *ReservationService) checkOverlap(tx repository.RoomTx, res model.Reservation, exclude uint64) error {
	existing, err := tx.ListByRoom(res.RoomID)
	if err != nil {
		return err
	}
	hits := engine.Conflicts(existing, res, exclude, s.loc)
	if len(hits) == 0 {
		return nil
	}
	ids := make([]uint64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return &ConflictError{RoomID: res.RoomID, With: ids}
}

func (s *ReservationService) price(settings model.Settings, room model.Room, st model.StayType, date model.Date) (int64, error) {
	amount, err := engine.PriceFor(settings, room, st, date)
	if errors.Is(err, engine.ErrUnavailable) {
		return 0, ErrDateUnavailable
	}
	return amount, err
}

// withReservationLocked locks the reservation's current room (and
// newRoom when set), re-reads the reservation under the lock and calls
// fn.  When the reservation moved between the unlocked read and the lock,
// it starts over.
func (s *ReservationService) withReservationLocked(ctx context.Context, id uint64, newRoom *uint64, fn func(repository.RoomTx, model.Reservation) error) error {
	var err error
	for attempt := 0; attempt < lockRetries; attempt++ {
		var cur model.Reservation
		cur, err = s.store.Reservation(ctx, id)
		if err != nil {
			return err
		}
		rooms := []uint64{cur.RoomID}
		if newRoom != nil {
			rooms = append(rooms, *newRoom)
		}
		err = s.store.WithRoomsLocked(ctx, rooms, func(tx repository.RoomTx) error {
			locked, err := tx.Reservation(id)
			if err != nil {
				return err
			}
			return fn(tx, locked)
		})
		if !errors.Is(err, repository.ErrConflict) {
			return err
		}
	}
	return err
}

func applyReservationPatch(cur model.Reservation, p ReservationPatch) model.Reservation {
	next := cur
	if p.ReservationNumber != nil {
		next.ReservationNumber = strings.TrimSpace(*p.ReservationNumber)
	}
	if p.RoomID != nil {
		next.RoomID = *p.RoomID
	}
	if p.GuestName != nil {
		next.GuestName = strings.TrimSpace(*p.GuestName)
	}
	if p.Phone != nil {
		next.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.CheckInDate != nil {
		next.CheckInDate, _ = model.ParseDate(*p.CheckInDate)
	}
	if p.CheckOutDate != nil {
		next.CheckOutDate, _ = model.ParseDate(*p.CheckOutDate)
	}
	if p.StayType != nil {
		next.StayType = model.StayType(*p.StayType)
	}
	if p.BookingSource != nil {
		next.BookingSource = model.BookingSource(*p.BookingSource)
	}
	if p.Memo != nil {
		next.Memo = *p.Memo
	}
	return next
}

func insertOrDuplicate(write func(*model.Reservation) error, res *model.Reservation) error {
	err := write(res)
	if errors.Is(err, repository.ErrDuplicate) {
		return invalid("reservationNumber", "already exists")
	}
	return err
}

// newReservationNumber returns "R-" and eight upper-case hex digits.
func newReservationNumber() string {
	id := uuid.New()
	return "R-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
