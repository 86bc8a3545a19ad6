package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for the reservations table.
// Writes are only exposed in their *Tx form; callers run them inside the
// room-locked transaction opened by Store.WithRoomsLocked.  Dates are
// stored as DATE and the snapshot times as TIME.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, reservation_number, room_id, guest_name, phone,
       check_in_date, check_out_date, check_in_time, check_out_time,
       stay_type, booking_source, rate_amount, memo, created_at, updated_at`

// Get returns one reservation or ErrNotFound.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	return getReservation(ctx, r.db, id)
}

// ListByRoom returns every reservation of a room ordered by check-in.
func (r *ReservationRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	return listByRoom(ctx, r.db, roomID)
}

// ListCovering returns the reservations of all rooms whose inclusive date
// range contains date.  It feeds status evaluation for the whole property.
func (r *ReservationRepo) ListCovering(ctx context.Context, date model.Date) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE check_in_date <= ? AND check_out_date >= ?
               ORDER BY room_id, check_in_date, id`
	return queryReservations(ctx, r.db, q, date, date)
}

// GetTx reads one reservation inside tx.
func (r *ReservationRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	return getReservation(ctx, tx, id)
}

// ListByRoomTx reads a room's reservations inside tx.  With the room row
// locked the result cannot change until tx ends.
func (r *ReservationRepo) ListByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
	return listByRoom(ctx, tx, roomID)
}

// CreateTx inserts res and populates its ID and timestamps.  A duplicate
// reservation number yields ErrDuplicate.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (reservation_number, room_id, guest_name, phone,
               check_in_date, check_out_date, check_in_time, check_out_time,
               stay_type, booking_source, rate_amount, memo)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.ReservationNumber, res.RoomID, res.GuestName, res.Phone,
		res.CheckInDate, res.CheckOutDate, res.CheckInTime, res.CheckOutTime,
		res.StayType, res.BookingSource, res.RateAmount, nullableString(res.Memo))
	if err != nil {
		return translate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	// Query back the full row to populate timestamps.
	created, err := getReservation(ctx, tx, uint64(id))
	if err != nil {
		return err
	}
	*res = created
	return nil
}

// UpdateTx overwrites every mutable column of res.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations SET reservation_number = ?, room_id = ?, guest_name = ?, phone = ?,
               check_in_date = ?, check_out_date = ?, check_in_time = ?, check_out_time = ?,
               stay_type = ?, booking_source = ?, rate_amount = ?, memo = ?
               WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, res.ReservationNumber, res.RoomID, res.GuestName, res.Phone,
		res.CheckInDate, res.CheckOutDate, res.CheckInTime, res.CheckOutTime,
		res.StayType, res.BookingSource, res.RateAmount, nullableString(res.Memo), res.ID); err != nil {
		return translate(err)
	}
	updated, err := getReservation(ctx, tx, res.ID)
	if err != nil {
		return err
	}
	*res = updated
	return nil
}

// DeleteTx removes the reservation.  ErrNotFound is returned when no row
// was deleted.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func getReservation(ctx context.Context, q queryer, id uint64) (model.Reservation, error) {
	row := q.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		return model.Reservation{}, translate(err)
	}
	return res, nil
}

func listByRoom(ctx context.Context, q queryer, roomID uint64) ([]model.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations
                   WHERE room_id = ? ORDER BY check_in_date, id`
	return queryReservations(ctx, q, query, roomID)
}

func queryReservations(ctx context.Context, q queryer, query string, args ...any) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res  model.Reservation
		memo sql.NullString
	)
	if err := s.Scan(&res.ID, &res.ReservationNumber, &res.RoomID, &res.GuestName, &res.Phone,
		&res.CheckInDate, &res.CheckOutDate, &res.CheckInTime, &res.CheckOutTime,
		&res.StayType, &res.BookingSource, &res.RateAmount, &memo, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return model.Reservation{}, err
	}
	res.Memo = memo.String
	return res, nil
}
