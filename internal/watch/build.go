package watch

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/booksite/internal/emit"
	"git.home.luguber.info/inful/booksite/internal/lint"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/metrics"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// SiteBuild returns a BuildFunc that lints the named snapshot against the
// content under docsRoot and, when no error-level issue is found, writes the
// generator entry point. Lint issue counts go to rec when it is non-nil.
func SiteBuild(snapshot, docsRoot string, format emit.Format, rec metrics.Recorder) BuildFunc {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		cfg, err := site.Snapshot(snapshot)
		if err != nil {
			return err
		}
		result, err := lint.NewLinter(&lint.Config{}).LintWithContent(snapshot, cfg, docsRoot)
		if err != nil {
			return err
		}
		if rec != nil {
			rec.SetLintIssues(result.Snapshot, "error", result.ErrorCount())
			rec.SetLintIssues(result.Snapshot, "warning", result.WarningCount())
		}
		for _, issue := range result.Issues {
			if issue.Severity == lint.SeverityError {
				slog.Warn(issue.Message, logfields.Rule(issue.Rule), logfields.Path(issue.Path))
			}
		}
		if err := result.Err(); err != nil {
			return err
		}
		_, _, err = emit.Write(cfg, docsRoot, format)
		return err
	}
}
