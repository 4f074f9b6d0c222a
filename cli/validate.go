package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/amortize/pipeline"
)

type ValidateCmd struct {
	Inputs
}

func (cmd *ValidateCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, "validate")
	defer s.report()

	cfg := cmd.Config()
	if cfg.BankFile == "" {
		return fmt.Errorf("--bank is required to validate loans")
	}

	p := pipeline.New(cfg, nil)
	bank, loans, err := p.Ledgers(s.ctx)
	if err != nil {
		renderError(ctx.Stderr, err, renderContext{bank: cfg.BankFile, json: globals.JSON})
		s.report()
		return NewCommandError(ExitFailure)
	}

	if err := p.Validate(s.ctx, bank, loans); err != nil {
		renderError(ctx.Stderr, err, renderContext{bank: cfg.BankFile, loans: loans, json: globals.JSON})
		s.report()
		return NewCommandError(ExitValidation)
	}

	rows := 0
	for _, l := range loans {
		rows += len(l.Rows)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("%d transaction(s) of %d loan(s) found in %s", rows, len(loans), pathStyle.Render(displayPath(cfg.BankFile))))
	return nil
}
