package lint

import (
	"fmt"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// Severity indicates the importance level of an issue.
type Severity int

const (
	SeverityInfo Severity = iota
	// SeverityWarning marks something the generator tolerates but readers notice.
	SeverityWarning
	// SeverityError marks a configuration the generator renders incorrectly or rejects.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single finding. Path locates the offending value inside the
// configuration (themeConfig.sidebar[2].items[0].link) or names a content file.
type Issue struct {
	Path        string
	Severity    Severity
	Rule        string
	Message     string
	Explanation string
	Fix         string
}

// Result collects the issues found for one snapshot.
type Result struct {
	Snapshot     string
	Issues       []Issue
	TargetsTotal int
	ContentRoot  string
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

func (r *Result) HasErrors() bool   { return r.count(SeverityError) > 0 }
func (r *Result) HasWarnings() bool { return r.count(SeverityWarning) > 0 }
func (r *Result) ErrorCount() int   { return r.count(SeverityError) }
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

// Err converts error-level issues into a validation error, nil when there are none.
func (r *Result) Err() error {
	n := r.ErrorCount()
	if n == 0 {
		return nil
	}
	var first Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			first = issue
			break
		}
	}
	return errors.ValidationError(fmt.Sprintf("configuration %s has %d error(s)", r.Snapshot, n)).
		WithContext("snapshot", r.Snapshot).
		WithContext("rule", first.Rule).
		WithContext("path", first.Path).
		Build()
}

// Rule checks the configuration value alone.
type Rule interface {
	Name() string
	Check(cfg site.SiteConfig) []Issue
}

// ContentRule additionally needs the pages under the content root.
type ContentRule interface {
	Name() string
	CheckContent(cfg site.SiteConfig, inv *content.Inventory) []Issue
}

// Config controls linter output.
type Config struct {
	// Quiet drops warnings and info from the result.
	Quiet bool
	// Format selects the formatter: text or json.
	Format string
}
