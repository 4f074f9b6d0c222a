package cli

import (
	"context"
	stdErrors "errors"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
)

type WatchCmd struct {
	RunCmd

	Debounce time.Duration `help:"Wait this long after the last change before re-running." default:"500ms"`
}

// watchSet is what a watch reacts to: every change inside the statement
// folder, and changes to the named input files. Files are watched through
// their folder since editors replace them instead of writing in place.
type watchSet struct {
	dirs  []string
	dir   string          // statement folder
	files map[string]bool // bank export and loan files
}

func newWatchSet(in Inputs) watchSet {
	ws := watchSet{dir: filepath.Clean(in.Statements), files: make(map[string]bool)}

	seen := map[string]bool{ws.dir: true}
	ws.dirs = append(ws.dirs, ws.dir)

	inputs := append([]string{}, in.Loans...)
	if in.Bank != "" {
		inputs = append(inputs, in.Bank)
	}
	for _, f := range inputs {
		f = filepath.Clean(f)
		ws.files[f] = true
		if d := filepath.Dir(f); !seen[d] {
			seen[d] = true
			ws.dirs = append(ws.dirs, d)
		}
	}
	return ws
}

// relevant reports whether ev should trigger a run.
func (ws watchSet) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	return filepath.Dir(name) == ws.dir || ws.files[name]
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := newLogger(ctx.Stderr, globals)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	ws := newWatchSet(cmd.Inputs)
	for _, dir := range ws.dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	// Nobody is there to answer an overwrite prompt between runs.
	cmd.Force = true

	run := func() {
		err := cmd.RunCmd.Run(ctx, globals)
		var cmdErr *CommandError
		if err != nil && !stdErrors.As(err, &cmdErr) {
			printError(ctx.Stderr, err.Error())
		}
		printInfof(ctx.Stdout, "Watching %s for changes, press Ctrl+C to stop", pathStyle.Render(displayPath(ws.dir)))
	}
	run()

	debounce := time.NewTimer(cmd.Debounce)
	debounce.Stop()

	for {
		select {
		case <-runCtx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ws.relevant(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("input changed")
			debounce.Reset(cmd.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case <-debounce.C:
			run()
		}
	}
}
