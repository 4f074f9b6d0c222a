package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/loader"
	"github.com/robinvdvleuten/amortize/rates"
)

// DoctorCmd provides doctor utilities for debugging statements.
type DoctorCmd struct {
	Rates DoctorRatesCmd `cmd:"" help:"Show the interest summaries and raw rate intervals of one statement."`
}

// DoctorRatesCmd shows what the extractor sees in a single statement.
type DoctorRatesCmd struct {
	File   FileOrStdin `help:"Statement PDF or text file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Period date.Date   `help:"Statement date (YYYY-MM-DD), inferred from the file name when omitted."`
}

// interval is the dump form of rates.Interval.
type interval struct {
	Start string
	End   string
	Days  int
	Rate  float64
}

// Run executes the doctor rates command.
func (cmd *DoctorRatesCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s := newSession(ctx, globals, "doctor rates")
	defer s.report()

	period, err := cmd.period()
	if err != nil {
		return err
	}

	text, err := cmd.text(s.ctx, period)
	if err != nil {
		return err
	}

	summaries := rates.Summaries(text)
	_, _ = fmt.Fprintf(ctx.Stdout, "%d summaries in statement of %s\n", len(summaries), period)
	for _, summary := range summaries {
		_, _ = fmt.Fprintf(ctx.Stdout, "  %s\n", summary)
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	intervals, err := rates.Extract(text, period.Year(), period.Month())
	if err != nil {
		return err
	}

	dump := make([]interval, 0, len(intervals))
	for _, iv := range intervals {
		dump = append(dump, interval{Start: iv.Start.String(), End: iv.End.String(), Days: iv.Days(), Rate: iv.Rate})
	}
	repr.New(ctx.Stdout, repr.Indent("  ")).Println(dump)
	return nil
}

func (cmd *DoctorRatesCmd) period() (date.Date, error) {
	if !cmd.Period.IsZero() {
		return cmd.Period, nil
	}
	if cmd.File.IsStdin() {
		return date.Date{}, fmt.Errorf("--period is required when reading from stdin")
	}
	return loader.StatementPeriod(cmd.File.Filename)
}

func (cmd *DoctorRatesCmd) text(ctx context.Context, period date.Date) (string, error) {
	if cmd.File.IsStdin() {
		return string(cmd.File.Contents), nil
	}
	return loader.New().StatementText(ctx, loader.Statement{Path: cmd.File.Filename, Period: period})
}
