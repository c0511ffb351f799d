// Package date provides a day-granularity date type and the due-date arithmetic
// used by payoff schedules and habit streaks.
package date

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// Format is the ISO-8601 layout used to write dates.
const Format = "2006-01-02"

// Statement due days are kept within 1..28 so every month has one.
const (
	MinDueDay = 1
	MaxDueDay = 28
)

// Date represents a date with day-level granularity. The zero value is not a valid day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current local date.
func Today() Date { return New(time.Now().Date()) }

// FromTime returns the date part of t in its own location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// DaysUntil returns the number of days from d to x (negative if x is before d).
func (d Date) DaysUntil(x Date) int { return int(x.time().Sub(d.time()) / (24 * time.Hour)) }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ClampDueDay forces a statement due day into MinDueDay..MaxDueDay.
func ClampDueDay(day int) int {
	if day < MinDueDay {
		return MinDueDay
	}
	if day > MaxDueDay {
		return MaxDueDay
	}
	return day
}

// NextDueDate returns the first date on or after from that falls on dueDay.
func NextDueDate(from Date, dueDay int) Date {
	dueDay = ClampDueDay(dueDay)
	if from.d <= dueDay {
		return New(from.y, from.m, dueDay)
	}
	return New(from.y, from.m+1, dueDay)
}

// AdvanceDueDate steps d to dueDay of the following month, wrapping the year.
func AdvanceDueDate(d Date, dueDay int) Date {
	return New(d.y, d.m+1, ClampDueDay(dueDay))
}

// UnmarshalJSON reads a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the date as a json string, empty for the zero value.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

// Scan implements sql.Scanner for TEXT columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = FromTime(v)
	case nil:
		*d = Date{}
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) { return d.String(), nil }

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
