// Package output provides terminal styling for the amortize CLI.
// Styling degrades to plain text when the writer is not a terminal.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles renders styled strings for one writer.
type Styles struct {
	output *termenv.Output
}

// NewStyles detects the color profile of w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

func (s *Styles) color(text, c string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(c))
}

// Success is green and bold.
func (s *Styles) Success(text string) string { return s.color(text, "2").Bold().String() }

// Error is red and bold.
func (s *Styles) Error(text string) string { return s.color(text, "1").Bold().String() }

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string { return s.color(text, "3").Bold().String() }

// Path is cyan.
func (s *Styles) Path(text string) string { return s.color(text, "6").String() }

// Label styles a loan or account label (yellow).
func (s *Styles) Label(text string) string { return s.color(text, "3").String() }

// Rate styles an interest rate (blue).
func (s *Styles) Rate(text string) string { return s.color(text, "4").String() }

// Amount styles a money amount: magenta when it increases what is owed,
// green when it reduces it.
func (s *Styles) Amount(text string, value float64) string {
	if value < 0 {
		return s.color(text, "2").String()
	}
	return s.color(text, "5").String()
}

// Keyword is bold.
func (s *Styles) Keyword(text string) string { return s.output.String(text).Bold().String() }

// Dim is faint, for secondary information.
func (s *Styles) Dim(text string) string { return s.output.String(text).Faint().String() }

// Timing dims fast operations and colors slow ones red.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.color(text, "1").String()
	}
	return s.Dim(text)
}
