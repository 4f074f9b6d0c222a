// Package cli implements the amortize commands on top of kong.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/robinvdvleuten/amortize/logger"
	"github.com/robinvdvleuten/amortize/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		fmt.Sprintf(format, args...),
	)
}

// promptYesNo asks a yes/no question. It answers no without asking when
// stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newLogger(w io.Writer, globals *Globals) zerolog.Logger {
	if globals.LogJSON {
		return logger.NewJSON(w, globals.LogLevel)
	}
	return logger.New(w, globals.LogLevel)
}

// session is the per-command runtime: a context carrying the logger and,
// with --telemetry, a timing collector rooted at the command's timer.
type session struct {
	ctx    context.Context
	report func()
}

func newSession(kctx *kong.Context, globals *Globals, name string) *session {
	ctx := logger.WithContext(context.Background(), newLogger(kctx.Stderr, globals))

	s := &session{ctx: ctx, report: func() {}}
	if !globals.Telemetry {
		return s
	}

	collector := telemetry.NewTimingCollector()
	s.ctx = telemetry.WithCollector(s.ctx, collector)

	root := collector.Start(name)
	s.ctx = telemetry.WithRootTimer(s.ctx, root)

	var once sync.Once
	s.report = func() {
		once.Do(func() {
			root.End()
			_, _ = fmt.Fprintln(kctx.Stderr)
			collector.Report(kctx.Stderr)
		})
	}
	return s
}

// displayPath shortens path relative to the working directory when it is
// inside it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read by the loader).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		return f.readStdin(os.Stdin)
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil
	return nil
}

// IsStdin reports whether the contents came from stdin.
func (f *FileOrStdin) IsStdin() bool { return f.Filename == "<stdin>" }

// EnsureContents reads stdin if no file was given.
func (f *FileOrStdin) EnsureContents() error {
	if f.Filename == "" {
		return f.readStdin(os.Stdin)
	}
	return nil
}

func (f *FileOrStdin) readStdin(r io.Reader) error {
	contents, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = "<stdin>"
	f.Contents = contents
	return nil
}
