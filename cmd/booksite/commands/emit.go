package commands

import (
	"fmt"

	"git.home.luguber.info/inful/booksite/internal/emit"
	"git.home.luguber.info/inful/booksite/internal/lint"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// EmitCmd implements the 'emit' command.
type EmitCmd struct {
	Snapshot string `short:"s" help:"Snapshot to emit (default: configured, else latest)"`
	Format   string `short:"f" help:"Output format (mts, json or yaml; default: configured)"`
	Out      string `short:"o" help:"Docs root to write .vitepress/ under (default: configured docs_root)" type:"path"`
	Stdout   bool   `help:"Print the rendered file instead of writing it"`
}

func (e *EmitCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	name := snapshotName(e.Snapshot, cfg)
	sc, err := site.Snapshot(name)
	if err != nil {
		return err
	}
	formatName := e.Format
	if formatName == "" {
		formatName = cfg.Site.Format
	}
	format, err := emit.ParseFormat(formatName)
	if err != nil {
		return err
	}

	// configuration-only checks; content is checked by validate --content
	if err := lint.NewLinter(&lint.Config{Quiet: true}).LintConfig(name, sc).Err(); err != nil {
		return err
	}

	if e.Stdout {
		data, err := emit.Render(sc, format)
		if err != nil {
			return err
		}
		_, err = g.out().Write(data)
		return err
	}

	docsRoot := e.Out
	if docsRoot == "" {
		docsRoot = cfg.Site.DocsRoot
	}
	path, changed, err := emit.Write(sc, docsRoot, format)
	if err != nil {
		return err
	}
	if changed {
		_, _ = fmt.Fprintf(g.out(), "Wrote %s (%s)\n", path, name)
	} else {
		_, _ = fmt.Fprintf(g.out(), "%s is up to date (%s)\n", path, name)
	}
	return nil
}
