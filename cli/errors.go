package cli

import (
	stdErrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/amortize/errors"
	"github.com/robinvdvleuten/amortize/interest"
	"github.com/robinvdvleuten/amortize/ledger"
	"github.com/robinvdvleuten/amortize/loader"
	"github.com/robinvdvleuten/amortize/rates"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and input context.
type ErrorRenderer struct {
	formatter *errors.TextFormatter
}

// NewErrorRenderer creates a renderer. The options register the inputs
// errors are explained with.
func NewErrorRenderer(opts ...errors.TextFormatterOption) *ErrorRenderer {
	return &ErrorRenderer{formatter: errors.NewTextFormatter(opts...)}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	lines := r.formatter.Context(err)
	if len(lines) == 0 {
		return errorStyle.Render(err.Error())
	}

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(err.Error()))
	buf.WriteString("\n\n")
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line, " > "); ok {
			buf.WriteString(errCaretStyle.Render(" > "))
			buf.WriteString(errContextStyle.Render(rest))
		} else {
			buf.WriteString(errContextStyle.Render(line))
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	rendered := make([]string, 0, len(errs))
	for _, err := range errs {
		rendered = append(rendered, r.Render(err))
	}
	return strings.Join(rendered, "\n\n")
}

// renderContext names the inputs of a failed command.
type renderContext struct {
	bank  string
	loans []*ledger.Ledger
	json  bool
}

// splitErrors returns the errors joined in err, or err alone.
func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// isMismatch reports whether err is a loan that does not match the bank.
func isMismatch(err error) bool {
	var (
		missing  *ledger.MissingTransactionError
		mismatch *ledger.AmountMismatchError
	)
	return stdErrors.As(err, &missing) || stdErrors.As(err, &mismatch)
}

// renderError prints err with its context followed by a one-line summary,
// or as a JSON array with --json.
func renderError(w io.Writer, err error, rc renderContext) {
	errs := splitErrors(err)
	if rc.json {
		_, _ = fmt.Fprintln(w, errors.NewJSONFormatter().FormatAll(errs))
		return
	}

	var opts []errors.TextFormatterOption
	if rc.bank != "" {
		if src, readErr := os.ReadFile(rc.bank); readErr == nil {
			opts = append(opts, errors.WithSource(rc.bank, src))
		}
	}
	opts = append(opts, errors.WithLedgers(rc.loans...))

	_, _ = fmt.Fprintln(w, NewErrorRenderer(opts...).RenderAll(errs))
	_, _ = fmt.Fprintln(w)
	printError(w, summarize(err))
}

// summarize names the stage an error comes from.
func summarize(err error) string {
	var (
		parseErr    *loader.ParseError
		rateErr     *rates.ParseError
		noRates     *rates.NoRatesFoundError
		gap         *rates.TimelineGapError
		outOfRange  *rates.DateOutOfRangeError
		empty       *interest.EmptyResultError
		postingDay  *interest.InvalidPostingDayError
		unsimulated *interest.UnsimulatedTransactionError
	)

	switch {
	case stdErrors.As(err, &parseErr):
		return "invalid input file"
	case stdErrors.As(err, &rateErr), stdErrors.As(err, &noRates):
		return "could not extract interest rates"
	case stdErrors.As(err, &gap):
		return "interest rate timeline has a gap"
	case isMismatch(err):
		return "loan does not match the bank export"
	case stdErrors.As(err, &outOfRange):
		return "no interest rate known for a simulated day"
	case stdErrors.As(err, &empty), stdErrors.As(err, &postingDay), stdErrors.As(err, &unsimulated):
		return "could not accrue interest"
	default:
		return "failed"
	}
}
