// Package rates turns bank statement text into a timeline of variable
// interest rates.
//
// Statements print one line per rate period in their interest summary, e.g.
// "15 APR TO 14 MAY : 5.250%". Extract pulls those periods out of a single
// statement and BuildTimeline merges the periods of all statements into one
// sorted, gap-free sequence that Timeline.RateAt can query by day.
package rates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/amortize/date"
)

// Interval is a closed range of days [Start, End] during which Rate applies.
// Rate is an annual rate as a fraction, 0.0525 for 5.25%.
type Interval struct {
	Start date.Date
	End   date.Date
	Rate  float64
}

// Contains reports whether d falls within the interval, both ends included.
func (i Interval) Contains(d date.Date) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

// Days returns the number of days covered by the interval.
func (i Interval) Days() int { return i.Start.DaysUntil(i.End) + 1 }

var summaryPattern = regexp.MustCompile(`(\d{1,2})([A-Z]{3})TO(\d{1,2})([A-Z]{3}):([\d.]+)%`)

var hundred = decimal.NewFromInt(100)

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// Extract returns every rate interval found in the text of the statement
// nominally dated year/month, in the order they appear.
//
// Interest summaries carry no year. A period starting in December and ending
// before March wraps into the statement's year. When a statement lists more
// than one period and the first one lies entirely in December, that first
// period belongs to the previous year. Everything else is in the statement's
// year.
func Extract(text string, year int, month time.Month) ([]Interval, error) {
	matches := summaryPattern.FindAllStringSubmatch(normalize(text), -1)
	if len(matches) == 0 {
		return nil, &NoRatesFoundError{Year: year, Month: month}
	}

	res := &yearResolver{year: year, matches: len(matches)}
	intervals := make([]Interval, 0, len(matches))

	for _, m := range matches {
		startMonth, err := parseMonth("start", m[1]+m[2], m[2])
		if err != nil {
			return nil, err
		}
		endMonth, err := parseMonth("end", m[3]+m[4], m[4])
		if err != nil {
			return nil, err
		}

		startYear, endYear := res.resolve(startMonth, endMonth)

		start, err := parseDay("start", m[1]+m[2], startYear, startMonth, m[1])
		if err != nil {
			return nil, err
		}
		end, err := parseDay("end", m[3]+m[4], endYear, endMonth, m[3])
		if err != nil {
			return nil, err
		}

		rate, err := parseRate(m[5])
		if err != nil {
			return nil, err
		}

		intervals = append(intervals, Interval{Start: start, End: end, Rate: rate})
	}

	return intervals, nil
}

// yearResolver assigns years to one statement's periods. Each statement gets
// a fresh resolver since the December rule depends on how many periods of
// that statement were resolved before.
type yearResolver struct {
	year     int
	matches  int
	resolved int
}

func (r *yearResolver) resolve(start, end time.Month) (startYear, endYear int) {
	defer func() { r.resolved++ }()

	switch {
	case start == time.December && end < time.March:
		return r.year - 1, r.year
	case start == time.December && end == time.December && r.matches > 1 && r.resolved == 0:
		return r.year - 1, r.year - 1
	default:
		return r.year, r.year
	}
}

// Summaries returns the interest summaries found in text as Extract sees
// them, e.g. "15APRTO14MAY:5.250%".
func Summaries(text string) []string {
	return summaryPattern.FindAllString(normalize(text), -1)
}

// normalize upper-cases text and drops every whitespace rune, since PDF text
// extraction breaks the summary line at arbitrary places.
func normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, text)
}

func parseMonth(field, raw, abbrev string) (time.Month, error) {
	m, ok := months[abbrev]
	if !ok {
		return 0, &ParseError{Field: field, Value: raw}
	}
	return m, nil
}

func parseDay(field, raw string, year int, month time.Month, day string) (date.Date, error) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return date.Date{}, &ParseError{Field: field, Value: raw, Err: err}
	}
	if !date.Valid(year, month, d) {
		return date.Date{}, &ParseError{Field: field, Value: raw}
	}
	return date.New(year, month, d), nil
}

func parseRate(raw string) (float64, error) {
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &ParseError{Field: "rate", Value: raw, Err: err}
	}
	return pct.Div(hundred).InexactFloat64(), nil
}
