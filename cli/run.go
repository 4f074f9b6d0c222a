package cli

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/amortize/export"
	"github.com/robinvdvleuten/amortize/pipeline"
	"github.com/robinvdvleuten/amortize/report"
)

type RunCmd struct {
	Inputs

	Force    bool `help:"Overwrite existing exports without asking." short:"f"`
	NoExport bool `help:"Print the report only, do not write CSV files."`
	Quiet    bool `help:"Do not print the ledgers, only the summary." short:"q"`
}

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, "run")
	defer s.report()

	cfg := cmd.Config()
	p := pipeline.New(cfg, nil)
	res, err := p.Run(s.ctx)
	if err != nil {
		rc := renderContext{bank: cfg.BankFile, json: globals.JSON}
		var le interface{ GetLoan() string }
		if stdErrors.As(err, &le) {
			if _, loans, lerr := p.Ledgers(s.ctx); lerr == nil {
				rc.loans = loans
			}
		}
		renderError(ctx.Stderr, err, rc)
		s.report()
		if isMismatch(err) {
			return NewCommandError(ExitValidation)
		}
		return NewCommandError(ExitFailure)
	}

	rep := report.New(report.WithCurrency(cfg.Currency))
	if !cmd.Quiet {
		for _, l := range res.Accrued {
			if err := rep.Ledger(ctx.Stdout, l); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(ctx.Stdout)
		}
	}
	if err := rep.Summary(ctx.Stdout, res.Accrued); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	if !cmd.NoExport {
		written, err := cmd.export(s.ctx, export.New(cfg.OutputDir), res)
		if err != nil {
			return err
		}
		for _, path := range written {
			printInfof(ctx.Stdout, "Wrote %s", pathStyle.Render(displayPath(path)))
		}
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Accrued interest on %d loan(s) through %s", len(res.Accrued), res.Through))
	return nil
}

// export writes the timeline and every accrued ledger. Existing files are
// only replaced with --force or after confirmation.
func (cmd *RunCmd) export(ctx context.Context, e *export.Exporter, res *pipeline.Result) ([]string, error) {
	names := []string{export.TimelineFile}
	for _, l := range res.Accrued {
		names = append(names, export.LedgerFile(l.Label))
	}

	if existing := e.Existing(names...); len(existing) > 0 && !cmd.Force {
		ok, err := promptYesNo(fmt.Sprintf("Overwrite %d existing file(s) in %s?", len(existing), e.Dir))
		if err != nil {
			return nil, fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("refusing to overwrite %s, use --force", displayPath(existing[0]))
		}
	}

	var written []string
	path, err := e.Timeline(ctx, res.Timeline)
	if err != nil {
		return nil, err
	}
	written = append(written, path)

	for _, l := range res.Accrued {
		path, err := e.Ledger(ctx, l)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}
