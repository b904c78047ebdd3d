package core

import (
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day pinned to UTC midnight. Normalizing to a fixed
// reference frame keeps the stored day independent of the submitter's
// local zone.
type Date struct {
	time.Time
}

// isoMillis matches toISOString-style output: 2024-06-01T00:00:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z"

// NewDate creates a Date at UTC midnight for the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDateMDY parses "month/day/year" text, the format the form
// submits, into a UTC-midnight Date.
func ParseDateMDY(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, ErrInvalidDate
		}
		nums[i] = n
	}
	month, day, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return Date{}, ErrInvalidDate
	}
	d := NewDate(year, month, day)
	// time.Date normalizes overflow (e.g. 2/30 becomes 3/1); reject that.
	if d.Day() != day || int(d.Month()) != month {
		return Date{}, ErrInvalidDate
	}
	return d, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON encodes the date in millisecond ISO form so stored and
// returned values compare byte for byte.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(isoMillis) + `"`), nil
}

// UnmarshalJSON accepts RFC3339 timestamps with or without milliseconds.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if t, err = time.Parse(isoMillis, s); err != nil {
			return ErrInvalidDate
		}
	}
	d.Time = t.UTC()
	return nil
}
