// Package date provides a calendar day type with no time-of-day component.
//
// Interest accrues per calendar day, so the packages in this module compare,
// iterate and key maps by Date instead of time.Time. Date values are
// comparable with == and safe to use as map keys.
package date

import (
	"encoding"
	"encoding/json"
	"fmt"
	"iter"
	"time"
)

// Format is the ISO-8601 layout used to print and parse dates.
const Format = "2006-01-02"

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2024, 1, 32) is 2024-02-01.
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return Date{y, m, d}
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Today returns the current local date.
func Today() Date { return FromTime(time.Now()) }

// Valid reports whether year, month and day name an existing calendar day
// without normalization (e.g. 2023-02-29 is invalid).
func Valid(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	return New(year, month, day) == Date{year, month, day}
}

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Time() time.Time    { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }
func (d Date) String() string     { return d.Time().Format(Format) }
func (d Date) Add(days int) Date  { return New(d.y, d.m, d.d+days) }
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmpInt(d.y, x.y)
	case d.m != x.m:
		return cmpInt(int(d.m), int(x.m))
	default:
		return cmpInt(d.d, x.d)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// DaysUntil returns the number of days from d to x (negative if x is before d).
func (d Date) DaysUntil(x Date) int {
	return int(x.Time().Sub(d.Time()).Hours() / 24)
}

// Parse parses an ISO-8601 date such as "2024-01-15".
func Parse(s string) (Date, error) {
	return ParseLayout(Format, s)
}

// ParseLayout parses s with a time package layout and keeps the day only.
func ParseLayout(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, layout, err)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error. Meant for tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Days iterates over every day of the closed range [from, to].
// It yields nothing when to is before from.
func Days(from, to Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := from; !d.After(to); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses "2006-01-02". It lets flag parsers and config
// resolvers fill a Date directly.
func (d *Date) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var (
	_ json.Marshaler           = Date{}
	_ json.Unmarshaler         = (*Date)(nil)
	_ encoding.TextUnmarshaler = (*Date)(nil)
)
