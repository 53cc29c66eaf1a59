package commands

import (
	"fmt"

	"git.home.luguber.info/inful/booksite/internal/distcheck"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// CheckDistCmd implements the 'check-dist' command.
type CheckDistCmd struct {
	Dir      string `arg:"" optional:"" help:"Built site directory (default: configured dist_dir)" type:"path"`
	Snapshot string `short:"s" help:"Snapshot whose base path applies (default: configured, else latest)"`
}

func (c *CheckDistCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	sc, err := site.Snapshot(snapshotName(c.Snapshot, cfg))
	if err != nil {
		return err
	}
	dir := c.Dir
	if dir == "" {
		dir = cfg.Site.DistDir
	}
	report, err := distcheck.Check(dir, sc.Base)
	if err != nil {
		return err
	}
	w := g.out()
	for _, f := range report.Findings {
		_, _ = fmt.Fprintf(w, "%s: <%s %s=%q> %s\n", f.File, f.Ref.Tag, f.Ref.Attr, f.Ref.URL, f.Kind)
	}
	_, _ = fmt.Fprintf(w, "Checked %d pages, %d references under base %s: %d problem(s)\n", report.Pages, report.Refs, report.Base, len(report.Findings))
	return report.Err()
}
