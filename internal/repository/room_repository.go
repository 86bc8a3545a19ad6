package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/room-reservation/internal/model"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RoomRepo provides access to the rooms table and its per stay type rate
// overrides stored in room_rate_overrides.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, floor, building, name, room_type,
       show_floor, show_building, show_name, show_type,
       hourly_blocked, nightly_blocked, long_term_blocked,
       operational_status, memo, created_at, updated_at`

// Create inserts the room and its overrides and populates the generated
// ID and timestamps on rm.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO rooms (floor, building, name, room_type,
               show_floor, show_building, show_name, show_type,
               hourly_blocked, nightly_blocked, long_term_blocked, operational_status, memo)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rm.Floor, rm.Building, rm.Name, rm.Type,
		rm.Display.ShowFloor, rm.Display.ShowBuilding, rm.Display.ShowName, rm.Display.ShowType,
		rm.IsBlocked(model.StayHourly), rm.IsBlocked(model.StayNightly), rm.IsBlocked(model.StayLongTerm),
		nullableStatus(rm.OperationalStatus), nullableString(rm.Memo))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := writeOverrides(ctx, tx, uint64(id), rm.Overrides); err != nil {
		return err
	}
	created, err := getRoom(ctx, tx, uint64(id), false)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*rm = created
	return nil
}

// Get returns one room.  ErrNotFound is returned for an unknown id.
func (r *RoomRepo) Get(ctx context.Context, id uint64) (model.Room, error) {
	return getRoom(ctx, r.db, id, false)
}

// List returns every room ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var rooms []model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []model.Room{}, nil
	}

	overrides, err := loadOverrides(ctx, r.db, nil)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if ov, ok := overrides[rooms[i].ID]; ok {
			rooms[i].Overrides = ov
		}
	}
	return rooms, nil
}

// Update locks the room row, passes the current room to apply and stores
// what apply returns.  Overrides present in the result are upserted.
func (r *RoomRepo) Update(ctx context.Context, id uint64, apply func(model.Room) (model.Room, error)) (model.Room, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Room{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cur, err := r.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return model.Room{}, err
	}
	next, err := apply(cur)
	if err != nil {
		return model.Room{}, err
	}
	next.ID = cur.ID

	const q = `UPDATE rooms SET floor = ?, building = ?, name = ?, room_type = ?,
               show_floor = ?, show_building = ?, show_name = ?, show_type = ?,
               hourly_blocked = ?, nightly_blocked = ?, long_term_blocked = ?,
               operational_status = ?, memo = ?
               WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, next.Floor, next.Building, next.Name, next.Type,
		next.Display.ShowFloor, next.Display.ShowBuilding, next.Display.ShowName, next.Display.ShowType,
		next.IsBlocked(model.StayHourly), next.IsBlocked(model.StayNightly), next.IsBlocked(model.StayLongTerm),
		nullableStatus(next.OperationalStatus), nullableString(next.Memo), id); err != nil {
		return model.Room{}, err
	}
	if err := writeOverrides(ctx, tx, id, next.Overrides); err != nil {
		return model.Room{}, err
	}
	updated, err := getRoom(ctx, tx, id, false)
	if err != nil {
		return model.Room{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Room{}, err
	}
	committed = true
	return updated, nil
}

// GetForUpdateTx loads the room with an exclusive row lock held until tx
// ends.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Room, error) {
	return getRoom(ctx, tx, id, true)
}

// LockTx takes exclusive locks on the given room rows in ascending id
// order and returns the ids that exist.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT id FROM rooms WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locked []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		locked = append(locked, id)
	}
	return locked, rows.Err()
}

func getRoom(ctx context.Context, q queryer, id uint64, lock bool) (model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	rm, err := scanRoom(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return model.Room{}, translate(err)
	}
	overrides, err := loadOverrides(ctx, q, []uint64{id})
	if err != nil {
		return model.Room{}, err
	}
	if ov, ok := overrides[id]; ok {
		rm.Overrides = ov
	}
	return rm, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (model.Room, error) {
	var (
		rm                    model.Room
		hourly, nightly, long bool
		opStatus, memo        sql.NullString
	)
	if err := s.Scan(&rm.ID, &rm.Floor, &rm.Building, &rm.Name, &rm.Type,
		&rm.Display.ShowFloor, &rm.Display.ShowBuilding, &rm.Display.ShowName, &rm.Display.ShowType,
		&hourly, &nightly, &long, &opStatus, &memo, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return model.Room{}, err
	}
	rm.Blocked = map[model.StayType]bool{
		model.StayHourly:   hourly,
		model.StayNightly:  nightly,
		model.StayLongTerm: long,
	}
	if opStatus.Valid {
		rm.OperationalStatus = model.OperationalStatus(opStatus.String)
	}
	rm.Memo = memo.String
	rm.Overrides = map[model.StayType]model.RateTable{}
	return rm, nil
}

// loadOverrides returns overrides keyed by room id.  A nil ids slice loads
// every room.
func loadOverrides(ctx context.Context, q queryer, ids []uint64) (map[uint64]map[model.StayType]model.RateTable, error) {
	query := `SELECT room_id, stay_type, weekday_rate, friday_rate, weekend_rate FROM room_rate_overrides`
	var args []any
	if ids != nil {
		query += ` WHERE room_id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[uint64]map[model.StayType]model.RateTable{}
	for rows.Next() {
		var (
			roomID uint64
			st     model.StayType
			rt     model.RateTable
		)
		if err := rows.Scan(&roomID, &st, &rt.Weekday, &rt.Friday, &rt.Weekend); err != nil {
			return nil, err
		}
		if out[roomID] == nil {
			out[roomID] = map[model.StayType]model.RateTable{}
		}
		out[roomID][st] = rt
	}
	return out, rows.Err()
}

func writeOverrides(ctx context.Context, tx *sql.Tx, roomID uint64, overrides map[model.StayType]model.RateTable) error {
	const upsert = `INSERT INTO room_rate_overrides (room_id, stay_type, weekday_rate, friday_rate, weekend_rate)
                    VALUES (?, ?, ?, ?, ?)
                    ON DUPLICATE KEY UPDATE weekday_rate = VALUES(weekday_rate),
                        friday_rate = VALUES(friday_rate), weekend_rate = VALUES(weekend_rate)`
	for _, st := range model.AllStayTypes {
		rt, ok := overrides[st]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, upsert, roomID, st, rt.Weekday, rt.Friday, rt.Weekend); err != nil {
			return fmt.Errorf("override %s: %w", st, err)
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullableStatus(s model.OperationalStatus) any {
	if s == model.OpNone {
		return nil
	}
	return string(s)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
