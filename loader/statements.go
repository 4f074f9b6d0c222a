package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/amortize/date"
	"github.com/robinvdvleuten/amortize/logger"
	"github.com/robinvdvleuten/amortize/telemetry"
)

// Statement identifies one monthly statement file and the day it was issued.
type Statement struct {
	Path   string
	Period date.Date
}

// statementName matches names like "statement-1234-23Jan15.pdf", where the
// date part is YYMonDD. Pre-extracted ".txt" copies are accepted too.
var statementName = regexp.MustCompile(`^statement-\d+-(\d{2}[A-Za-z]{3}\d{2})\.(pdf|txt)$`)

// Statements lists the statements in dir sorted by period. Files whose name
// matches but whose date does not parse are skipped with a warning.
func (l *Loader) Statements(ctx context.Context, dir string) ([]Statement, error) {
	timer := telemetry.StartTimer(ctx, "loader.statements")
	defer timer.End()

	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var statements []Statement
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := statementName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		period, err := parsePeriod(m[1])
		if err != nil {
			log.Warn().Str("file", e.Name()).Str("date", m[1]).Err(err).Msg("skipping statement")
			continue
		}

		statements = append(statements, Statement{
			Path:   filepath.Join(dir, e.Name()),
			Period: period,
		})
	}

	slices.SortStableFunc(statements, func(a, b Statement) int {
		if c := a.Period.Compare(b.Period); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	log.Debug().Int("count", len(statements)).Str("dir", dir).Msg("discovered statements")
	return statements, nil
}

// StatementPeriod returns the date encoded in the name of a statement file.
func StatementPeriod(path string) (date.Date, error) {
	name := filepath.Base(path)
	m := statementName.FindStringSubmatch(name)
	if m == nil {
		return date.Date{}, fmt.Errorf("%s is not named like statement-<n>-<YYMonDD>.pdf", name)
	}
	return parsePeriod(m[1])
}

// parsePeriod parses "23Jan15" as 2023-01-15.
func parsePeriod(s string) (date.Date, error) {
	return date.ParseLayout("06Jan02", s)
}
