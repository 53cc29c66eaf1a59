package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/fileutil"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/git"
	"git.home.luguber.info/inful/booksite/internal/manifest"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// ManifestCmd implements the 'manifest' command.
type ManifestCmd struct {
	Snapshot string `short:"s" help:"Snapshot to describe (default: configured, else latest)"`
	Out      string `short:"o" help:"Manifest file (default: <docs_root>/<manifest>)" type:"path"`
	Stdout   bool   `help:"Print the manifest instead of writing it"`
	NoGit    bool   `name:"no-git" help:"Skip last-updated times from git history"`
}

func (m *ManifestCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	name := snapshotName(m.Snapshot, cfg)
	sc, err := site.Snapshot(name)
	if err != nil {
		return err
	}
	inv, err := content.Scan(cfg.Site.DocsRoot)
	if err != nil {
		return err
	}
	if cfg.Site.GitInfo && !m.NoGit {
		history, err := git.Open(cfg.Site.DocsRoot)
		if err != nil {
			return err
		}
		inv.AttachHistory(history)
	}

	man, err := manifest.Build(name, sc, inv)
	if err != nil {
		return err
	}
	data, err := man.ToJSON()
	if err != nil {
		return err
	}
	if m.Stdout {
		_, err = g.out().Write(append(data, '\n'))
		return err
	}

	out := m.Out
	if out == "" {
		out = filepath.Join(cfg.Site.DocsRoot, cfg.Site.Manifest)
	}
	if err := fileutil.WriteFileAtomic(out, append(data, '\n'), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write manifest").WithContext("path", out).Build()
	}
	_, _ = fmt.Fprintf(g.out(), "Wrote %s (%d pages, %d missing)\n", out, len(man.Pages), len(man.MissingPages()))
	return nil
}
