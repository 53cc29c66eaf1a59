package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/booksite/internal/site"
)

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(g *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SNAPSHOT\tPAGES\tPLUGINS\t")
	for _, name := range site.SnapshotNames() {
		cfg, err := site.Snapshot(name)
		if err != nil {
			return err
		}
		plugins := "-"
		if cfg.Vite != nil && len(cfg.Vite.Plugins) > 0 {
			plugins = ""
			for i, p := range cfg.Vite.Plugins {
				if i > 0 {
					plugins += ","
				}
				plugins += p.From
			}
		}
		label := name
		if name == site.Latest() {
			label += " (latest)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t\n", label, len(cfg.SidebarTargets()), plugins)
	}
	return tw.Flush()
}
