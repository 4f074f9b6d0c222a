// Package report prints ledgers and rate timelines as aligned console
// tables. Column widths are measured in terminal cells, so descriptions with
// wide or combining characters still line up.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/rates"
)

// ColumnSpacing is the number of blank cells between two columns.
const ColumnSpacing = 2

// Reporter writes tables to an output.
type Reporter struct {
	Currency string

	// MaxDescriptionWidth truncates descriptions wider than this many
	// cells. Zero disables truncation.
	MaxDescriptionWidth int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithCurrency sets the currency amounts are displayed in.
func WithCurrency(code string) Option {
	return func(r *Reporter) {
		r.Currency = code
	}
}

// WithMaxDescriptionWidth truncates long descriptions.
func WithMaxDescriptionWidth(width int) Option {
	return func(r *Reporter) {
		r.MaxDescriptionWidth = width
	}
}

// New creates a Reporter with the given options.
func New(opts ...Option) *Reporter {
	r := &Reporter{Currency: ledger.DefaultCurrency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

type column struct {
	title string
	align alignment
}

type table struct {
	columns []column
	rows    [][]string
}

// widths returns the widest cell of every column, headers included.
func (t *table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func (t *table) render(w io.Writer) error {
	widths := t.widths()
	heading := lipgloss.NewRenderer(w).NewStyle().Bold(true)

	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.title
	}
	if _, err := fmt.Fprintln(w, heading.Render(t.line(titles, widths))); err != nil {
		return err
	}

	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, t.line(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

func (t *table) line(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", ColumnSpacing))
		}
		if t.columns[i].align == alignRight {
			b.WriteString(runewidth.FillLeft(cell, widths[i]))
		} else {
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Ledger writes one row per ledger row followed by the ledger's totals.
func (r *Reporter) Ledger(w io.Writer, l *ledger.Ledger) error {
	t := &table{columns: []column{
		{title: "DATE"},
		{title: "TYPE"},
		{title: "DESCRIPTION"},
		{title: "AMOUNT", align: alignRight},
		{title: "BALANCE", align: alignRight},
	}}

	for _, row := range l.Rows {
		description := row.Description
		if r.MaxDescriptionWidth > 0 {
			description = runewidth.Truncate(description, r.MaxDescriptionWidth, "…")
		}
		t.rows = append(t.rows, []string{
			row.Date.String(),
			row.Kind.String(),
			description,
			r.money(row.Amount),
			r.money(row.Balance),
		})
	}

	if _, err := fmt.Fprintf(w, "%s\n\n", lipgloss.NewRenderer(w).NewStyle().Bold(true).Render(l.Label)); err != nil {
		return err
	}
	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nInterest: %s  Principal: %s  Balance: %s\n",
		r.money(l.TotalInterest), r.money(l.TotalPrincipal), r.money(l.CurrentBalance))
	return err
}

// Timeline writes one row per rate interval.
func (r *Reporter) Timeline(w io.Writer, timeline rates.Timeline) error {
	t := &table{columns: []column{
		{title: "FROM"},
		{title: "TO"},
		{title: "DAYS", align: alignRight},
		{title: "RATE", align: alignRight},
	}}

	for _, iv := range timeline {
		t.rows = append(t.rows, []string{
			iv.Start.String(),
			iv.End.String(),
			fmt.Sprint(iv.Days()),
			FormatPercent(iv.Rate),
		})
	}
	return t.render(w)
}

// Summary writes one line per ledger with its totals.
func (r *Reporter) Summary(w io.Writer, ledgers []*ledger.Ledger) error {
	t := &table{columns: []column{
		{title: "LOAN"},
		{title: "ROWS", align: alignRight},
		{title: "INTEREST", align: alignRight},
		{title: "BALANCE", align: alignRight},
	}}

	for _, l := range ledgers {
		t.rows = append(t.rows, []string{
			l.Label,
			fmt.Sprint(len(l.Rows)),
			r.money(l.TotalInterest),
			r.money(l.CurrentBalance),
		})
	}
	return t.render(w)
}

func (r *Reporter) money(amount float64) string {
	return ledger.FormatCurrency(amount, r.Currency)
}

// FormatPercent renders an annual rate as a percentage with up to three
// decimals, e.g. 0.0525 as "5.25%".
func FormatPercent(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).Round(3).String() + "%"
}
