// Package telemetry records how long each stage of a run takes, as a tree of
// nested timers carried through context.Context.
//
// Instrumented code asks the context for a timer and never checks whether
// telemetry is enabled; without a collector in the context every timer is a
// no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx = telemetry.WithCollector(ctx, collector)
//
//	timer := telemetry.StartTimer(ctx, "rates.extract")
//	defer timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type contextKey int

const (
	collectorKey contextKey = iota
	rootTimerKey
)

// Collector gathers timers and reports them.
type Collector interface {
	// Start begins a timer nested under the collector's current timer.
	Start(name string) Timer

	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer measures one operation.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector attaches a collector to ctx.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the collector attached to ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noOpCollector{}
}

// WithRootTimer makes timer the parent of every timer started through
// StartTimer with the returned context.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, rootTimerKey, timer)
}

// StartTimer starts a timer under the context's root timer if there is one,
// otherwise directly on the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	if root, ok := ctx.Value(rootTimerKey).(Timer); ok {
		return root.Child(name)
	}
	return FromContext(ctx).Start(name)
}
