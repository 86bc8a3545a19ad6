package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeekMask is a 7-bit availability set.  Bit 0 is Sunday and bit 6 is
// Saturday, matching time.Weekday.  The text form is a 7-character string
// of '0' and '1' where index 0 is Sunday.
type WeekMask uint8

// AllDays has every weekday bookable.
const AllDays WeekMask = 0x7f

// Has reports whether day is bookable.
func (m WeekMask) Has(day time.Weekday) bool {
	return m&(1<<uint(day)) != 0
}

// With returns a copy of m with day set to value.
func (m WeekMask) With(day time.Weekday, value bool) WeekMask {
	if value {
		return m | 1<<uint(day)
	}
	return m &^ (1 << uint(day)) & AllDays
}

func (m WeekMask) String() string {
	var b strings.Builder
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Has(d) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseWeekMask parses the 7-character "0/1" form.
func ParseWeekMask(s string) (WeekMask, error) {
	if len(s) != 7 {
		return 0, fmt.Errorf("week mask must have 7 characters, got %d", len(s))
	}
	var m WeekMask
	for i := 0; i < 7; i++ {
		switch s[i] {
		case '1':
			m |= 1 << uint(i)
		case '0':
		default:
			return 0, fmt.Errorf("week mask has invalid character %q at %d", s[i], i)
		}
	}
	return m, nil
}

func (m WeekMask) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *WeekMask) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseWeekMask(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value stores the mask as CHAR(7).
func (m WeekMask) Value() (driver.Value, error) { return m.String(), nil }

func (m *WeekMask) Scan(src any) error {
	s, err := asString(src)
	if err != nil {
		return err
	}
	v, err := ParseWeekMask(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// TimeOfDay is a wall-clock time without a date, stored as minutes
// since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM".  "HH:MM:SS" is also accepted because
// MySQL TIME columns come back in that shape.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	layout := "15:04"
	if len(s) == 8 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }

// On returns the instant at which this time of day falls on date in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) { return t.String() + ":00", nil }

func (t *TimeOfDay) Scan(src any) error {
	s, err := asString(src)
	if err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Date is a calendar date with no time or zone.  The zero value is the
// zero Date and reports IsZero.
type Date struct {
	t time.Time // always midnight UTC
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return Date{t: t}, nil
}

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) AddDays(n int) Date    { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool    { return d.t.Before(o.t) }
func (d Date) After(o Date) bool     { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool     { return d.t.Equal(o.t) }
func (d Date) String() string        { return d.t.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) Value() (driver.Value, error) { return d.String(), nil }

func (d *Date) Scan(src any) error {
	if t, ok := src.(time.Time); ok {
		*d = DateOf(t)
		return nil
	}
	s, err := asString(src)
	if err != nil {
		return err
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func asString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("unsupported column type %T", src)
}
