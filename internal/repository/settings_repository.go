package repository

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// SettingsRepo reads and writes the availability_settings table.  The
// table holds exactly one row per stay type; Bootstrap inserts the rows
// that are missing and everything afterwards is an update.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

const settingsColumns = `stay_type, available_days, check_in_time, check_out_time, weekday_rate, friday_rate, weekend_rate, updated_at`

// Bootstrap inserts a default row for every stay type that has none.
// Existing rows are left alone so it is safe to call on every start.
func (r *SettingsRepo) Bootstrap(ctx context.Context) error {
	const q = `INSERT IGNORE INTO availability_settings
               (stay_type, available_days, check_in_time, check_out_time, weekday_rate, friday_rate, weekend_rate)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, st := range model.AllStayTypes {
		s := model.DefaultSetting(st)
		if _, err := r.db.ExecContext(ctx, q, s.StayType, s.AvailableDays, s.CheckInTime, s.CheckOutTime,
			s.Weekday, s.Friday, s.Weekend); err != nil {
			return fmt.Errorf("bootstrap %s: %w", st, err)
		}
	}
	return nil
}

// List returns a snapshot of every setting row.
func (r *SettingsRepo) List(ctx context.Context) (model.Settings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+settingsColumns+` FROM availability_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSettings(rows)
}

// Update locks every setting row, hands the current snapshot to apply and
// writes back the rows apply changed, all in one transaction.  The
// returned snapshot is what was committed.
func (r *SettingsRepo) Update(ctx context.Context, apply func(model.Settings) (model.Settings, error)) (model.Settings, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT `+settingsColumns+` FROM availability_settings FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	cur, err := scanSettings(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	next, err := apply(maps.Clone(cur))
	if err != nil {
		return nil, err
	}
	for _, s := range next.List() {
		if old, ok := cur[s.StayType]; ok && sameSetting(old, s) {
			continue
		}
		if err := r.updateTx(ctx, tx, s); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return next, nil
}

func (r *SettingsRepo) updateTx(ctx context.Context, tx *sql.Tx, s model.AvailabilitySetting) error {
	const q = `UPDATE availability_settings
               SET available_days = ?, check_in_time = ?, check_out_time = ?,
                   weekday_rate = ?, friday_rate = ?, weekend_rate = ?
               WHERE stay_type = ?`
	res, err := tx.ExecContext(ctx, q, s.AvailableDays, s.CheckInTime, s.CheckOutTime,
		s.Weekday, s.Friday, s.Weekend, s.StayType)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("setting %s: %w", s.StayType, ErrNotFound)
	}
	return nil
}

func sameSetting(a, b model.AvailabilitySetting) bool {
	a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	return a == b
}

func scanSettings(rows *sql.Rows) (model.Settings, error) {
	out := model.Settings{}
	for rows.Next() {
		var s model.AvailabilitySetting
		if err := rows.Scan(&s.StayType, &s.AvailableDays, &s.CheckInTime, &s.CheckOutTime,
			&s.Weekday, &s.Friday, &s.Weekend, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out[s.StayType] = s
	}
	return out, rows.Err()
}
