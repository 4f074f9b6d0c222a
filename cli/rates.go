package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/amortize/export"
	"github.com/robinvdvleuten/amortize/pipeline"
	"github.com/robinvdvleuten/amortize/report"
)

type RatesCmd struct {
	Inputs

	Export bool `help:"Also write the timeline to rates.csv in the output folder." short:"e"`
	Force  bool `help:"Overwrite an existing rates.csv without asking." short:"f"`
}

func (cmd *RatesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, "rates")
	defer s.report()

	cfg := cmd.Config()
	statements, timeline, err := pipeline.New(cfg, nil).Rates(s.ctx)
	if err != nil {
		renderError(ctx.Stderr, err, renderContext{json: globals.JSON})
		s.report()
		return NewCommandError(ExitFailure)
	}

	if err := report.New().Timeline(ctx.Stdout, timeline); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	if cmd.Export {
		e := export.New(cfg.OutputDir)
		if existing := e.Existing(export.TimelineFile); len(existing) > 0 && !cmd.Force {
			ok, err := promptYesNo(fmt.Sprintf("Overwrite %s?", displayPath(existing[0])))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !ok {
				return fmt.Errorf("refusing to overwrite %s, use --force", displayPath(existing[0]))
			}
		}
		path, err := e.Timeline(s.ctx, timeline)
		if err != nil {
			return err
		}
		printInfof(ctx.Stdout, "Wrote %s", pathStyle.Render(displayPath(path)))
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%d rate period(s) from %d statement(s), %s to %s",
		len(timeline), len(statements), timeline.Start(), timeline.End()))
	return nil
}
