package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/booksite/internal/emit"
	"git.home.luguber.info/inful/booksite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Snapshot string `short:"s" help:"Snapshot to emit (default: configured, else latest)"`
	Format   string `short:"f" help:"Output format (default: configured)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	formatName := w.Format
	if formatName == "" {
		formatName = cfg.Site.Format
	}
	format, err := emit.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pr, rec := newRecorder(cfg)
	defer flushMetrics(pr, cfg)

	name := snapshotName(w.Snapshot, cfg)
	build := watch.SiteBuild(name, cfg.Site.DocsRoot, format, rec)
	return watch.New(cfg.Site.DocsRoot, cfg.Watch.DebounceInterval(), build).WithRecorder(rec).Run(ctx)
}
