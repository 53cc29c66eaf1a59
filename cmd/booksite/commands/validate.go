package commands

import (
	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/lint"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Snapshot string `short:"s" help:"Snapshot to check (default: configured, else latest)"`
	All      bool   `help:"Check every snapshot"`
	Content  bool   `help:"Also check sidebar targets against the pages under docs_root"`
	Format   string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet    bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

// Run prints the findings and fails with a validation error (exit 2) when
// any snapshot has error-level issues.
func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	names := []string{snapshotName(v.Snapshot, cfg)}
	if v.All {
		names = site.SnapshotNames()
	}

	pr, rec := newRecorder(cfg)
	defer flushMetrics(pr, cfg)

	var inv *content.Inventory
	if v.Content {
		if inv, err = content.Scan(cfg.Site.DocsRoot); err != nil {
			return err
		}
	}

	linter := lint.NewLinter(&lint.Config{Quiet: v.Quiet, Format: v.Format})
	results := make([]*lint.Result, 0, len(names))
	for _, name := range names {
		sc, err := site.Snapshot(name)
		if err != nil {
			return err
		}
		var result *lint.Result
		if inv != nil {
			result = linter.LintInventory(name, sc, inv)
		} else {
			result = linter.LintConfig(name, sc)
		}
		rec.SetLintIssues(name, "error", result.ErrorCount())
		rec.SetLintIssues(name, "warning", result.WarningCount())
		results = append(results, result)
	}

	if err := lint.NewFormatter(v.Format).Format(g.out(), results); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "format results").Build()
	}
	for _, r := range results {
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}
