package rates

import (
	"fmt"
	"time"

	"github.com/robinvdvleuten/amortize/date"
)

// ParseError is returned when a matched interest summary holds a day, month
// or rate that cannot be interpreted.
type ParseError struct {
	Field string // "start", "end" or "rate"
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot parse %s %q", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoRatesFoundError is returned when a statement's text holds no interest
// summary at all.
type NoRatesFoundError struct {
	Year  int
	Month time.Month
}

func (e *NoRatesFoundError) Error() string {
	return fmt.Sprintf("failed to find any interest rates for %04d-%02d", e.Year, int(e.Month))
}

// TimelineGapError is returned when sorted intervals do not follow each other
// day after day. At is the interval that does not start where the previous
// one ended.
type TimelineGapError struct {
	At       Interval
	Previous Interval
}

func (e *TimelineGapError) Error() string {
	return fmt.Sprintf("gap detected before: %s to %s (previous interval ends %s)",
		e.At.Start, e.At.End, e.Previous.End)
}

// DateOutOfRangeError is returned by Timeline.RateAt for a date no interval
// covers.
type DateOutOfRangeError struct {
	Date       date.Date
	Start, End date.Date // covered span, zero when the timeline is empty
}

func (e *DateOutOfRangeError) Error() string {
	if e.Start.IsZero() {
		return fmt.Sprintf("no interest rate known for %s: timeline is empty", e.Date)
	}
	return fmt.Sprintf("no interest rate known for %s: timeline covers %s to %s", e.Date, e.Start, e.End)
}

func (e *DateOutOfRangeError) GetDate() date.Date { return e.Date }
