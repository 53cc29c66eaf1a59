package lint

import (
	"log/slog"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// Linter runs the configuration rules, and the content rules when a
// content root is given.
type Linter struct {
	cfg          *Config
	rules        []Rule
	contentRules []ContentRule
}

// NewLinter creates a linter with the default rule sets.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	return &Linter{
		cfg:          cfg,
		rules:        DefaultRules(),
		contentRules: DefaultContentRules(),
	}
}

// LintConfig checks a configuration value on its own.
func (l *Linter) LintConfig(name string, cfg site.SiteConfig) *Result {
	result := &Result{Snapshot: name, Issues: []Issue{}, TargetsTotal: len(cfg.SidebarTargets())}
	for _, rule := range l.rules {
		l.collect(result, rule.Name(), rule.Check(cfg))
	}
	return result
}

// LintWithContent scans root and additionally checks the configuration against its pages.
func (l *Linter) LintWithContent(name string, cfg site.SiteConfig, root string) (*Result, error) {
	inv, err := content.Scan(root)
	if err != nil {
		return nil, err
	}
	return l.LintInventory(name, cfg, inv), nil
}

// LintInventory is LintWithContent for an already scanned content root.
func (l *Linter) LintInventory(name string, cfg site.SiteConfig, inv *content.Inventory) *Result {
	result := l.LintConfig(name, cfg)
	result.ContentRoot = inv.Root
	for _, rule := range l.contentRules {
		l.collect(result, rule.Name(), rule.CheckContent(cfg, inv))
	}
	return result
}

func (l *Linter) collect(result *Result, rule string, issues []Issue) {
	for _, issue := range issues {
		if l.cfg.Quiet && issue.Severity != SeverityError {
			continue
		}
		result.Issues = append(result.Issues, issue)
	}
	if len(issues) > 0 {
		slog.Debug("Lint rule reported issues", logfields.Snapshot(result.Snapshot), logfields.Rule(rule), logfields.Count(len(issues)))
	}
}
