// Package export writes rate timelines and ledgers as CSV files.
//
// Rate timeline:
//
//	start_date,end_date,interest_rate
//	2023-01-15,2023-02-20,0.05
//
// Ledger:
//
//	date,type,description,amount,balance
//	2023-02-15,interest,Interest charge @ 5.00%,14.36,3518.47
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/rates"
	"github.com/robinvdvleuten/amortize/telemetry"
)

var (
	timelineHeader = []string{"start_date", "end_date", "interest_rate"}
	ledgerHeader   = []string{"date", "type", "description", "amount", "balance"}
)

// WriteTimeline writes one CSV row per interval.
func WriteTimeline(w io.Writer, timeline rates.Timeline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(timelineHeader); err != nil {
		return err
	}
	for _, iv := range timeline {
		if err := cw.Write([]string{
			iv.Start.String(),
			iv.End.String(),
			FormatRate(iv.Rate),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLedger writes one CSV row per ledger row.
func WriteLedger(w io.Writer, l *ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}
	for _, r := range l.Rows {
		if err := cw.Write([]string{
			r.Date.String(),
			r.Kind.String(),
			r.Description,
			FormatAmount(r.Amount),
			FormatAmount(r.Balance),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRate prints a rate fraction in its shortest exact form, 0.0525.
func FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).String()
}

// FormatAmount prints an amount with two decimals, -200.00.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Exporter writes the files of a run into a directory.
type Exporter struct {
	Dir string
}

// New creates an Exporter writing into dir.
func New(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// TimelineFile is the name the rate timeline is exported under.
const TimelineFile = "rates.csv"

// LedgerFile returns the file name a ledger is exported under.
func LedgerFile(label string) string {
	return safeName(label) + ".csv"
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeName(label string) string {
	name := strings.Trim(unsafeChars.ReplaceAllString(label, "_"), "_.")
	if name == "" {
		return "ledger"
	}
	return name
}

// Timeline writes the timeline to TimelineFile and returns its path.
func (e *Exporter) Timeline(ctx context.Context, timeline rates.Timeline) (string, error) {
	timer := telemetry.StartTimer(ctx, "export.timeline")
	defer timer.End()

	return e.write(TimelineFile, func(w io.Writer) error {
		return WriteTimeline(w, timeline)
	})
}

// Ledger writes l to LedgerFile(l.Label) and returns its path.
func (e *Exporter) Ledger(ctx context.Context, l *ledger.Ledger) (string, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("export.ledger %s", l.Label))
	defer timer.End()

	return e.write(LedgerFile(l.Label), func(w io.Writer) error {
		return WriteLedger(w, l)
	})
}

// Existing returns the paths among names that already exist in the
// exporter's directory.
func (e *Exporter) Existing(names ...string) []string {
	var existing []string
	for _, name := range names {
		path := filepath.Join(e.Dir, name)
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	return existing
}

func (e *Exporter) write(name string, fn func(io.Writer) error) (path string, err error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", e.Dir, err)
	}

	path = filepath.Join(e.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := fn(f); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
