package rates

import (
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/amortize/date"
)

// Timeline is a chronologically sorted, contiguous sequence of rate
// intervals in which no two neighbours share a rate.
type Timeline []Interval

// BuildTimeline sorts the intervals extracted from all statements, checks
// that each one starts the day after its predecessor ends and collapses
// neighbours with equal rates. An empty input yields an empty timeline.
func BuildTimeline(intervals []Interval) (Timeline, error) {
	if len(intervals) == 0 {
		return Timeline{}, nil
	}

	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].End.Add(1) != sorted[i].Start {
			return nil, &TimelineGapError{At: sorted[i], Previous: sorted[i-1]}
		}
	}

	return Collapse(sorted), nil
}

// Collapse merges each interval into its predecessor when both carry the
// same rate and follow each other without a gap. Input must be sorted by
// start date. Collapsing an already collapsed timeline returns it unchanged.
func Collapse(sorted []Interval) Timeline {
	if len(sorted) == 0 {
		return Timeline{}
	}

	collapsed := make(Timeline, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if next.Rate == current.Rate && next.Start == current.End.Add(1) {
			current = Interval{Start: current.Start, End: next.End, Rate: current.Rate}
			continue
		}
		collapsed = append(collapsed, current)
		current = next
	}

	return append(collapsed, current)
}

// Start returns the first day covered by the timeline.
func (t Timeline) Start() date.Date {
	if len(t) == 0 {
		return date.Date{}
	}
	return t[0].Start
}

// End returns the last day covered by the timeline.
func (t Timeline) End() date.Date {
	if len(t) == 0 {
		return date.Date{}
	}
	return t[len(t)-1].End
}

// Covers reports whether RateAt would succeed for d.
func (t Timeline) Covers(d date.Date) bool {
	_, ok := t.find(d)
	return ok
}

// RateAt returns the annual rate in effect on d.
func (t Timeline) RateAt(d date.Date) (float64, error) {
	i, ok := t.find(d)
	if !ok {
		return 0, &DateOutOfRangeError{Date: d, Start: t.Start(), End: t.End()}
	}
	return t[i].Rate, nil
}

// find binary searches for the interval containing d.
func (t Timeline) find(d date.Date) (int, bool) {
	return slices.BinarySearchFunc(t, d, func(iv Interval, d date.Date) int {
		switch {
		case iv.End.Before(d):
			return -1
		case iv.Start.After(d):
			return 1
		}
		return 0
	})
}
