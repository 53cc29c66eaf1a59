package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, results []*Result) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, results []*Result) error {
	for _, result := range results {
		if err := f.formatResult(w, result); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) formatResult(w io.Writer, result *Result) error {
	if _, err := fmt.Fprintf(w, "Checking configuration %s\n", result.Snapshot); err != nil {
		return err
	}
	if result.ContentRoot != "" {
		if _, err := fmt.Fprintf(w, "Content root: %s\n", result.ContentRoot); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		if err := f.formatIssue(w, issue); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Results:\n  %d sidebar target%s\n", result.TargetsTotal, pluralize(result.TargetsTotal)); err != nil {
		return err
	}
	if n := result.ErrorCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d error%s (blocks emit)\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if n := result.WarningCount(); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d warning%s (should fix)\n", n, pluralize(n)); err != nil {
			return err
		}
	}
	if n := result.count(SeverityInfo); n > 0 {
		if _, err := fmt.Fprintf(w, "  %d info\n", n); err != nil {
			return err
		}
	}

	var final string
	switch {
	case result.HasErrors():
		final = "❌ Configuration has errors and will not be emitted."
	case result.HasWarnings():
		final = "⚠️  Configuration has warnings."
	case len(result.Issues) > 0:
		final = "ℹ️  All issues are informational."
	default:
		final = "✨ Configuration passes all checks!"
	}
	_, err := fmt.Fprintf(w, "\n%s\n\n", final)
	return err
}

func (f *TextFormatter) formatIssue(w io.Writer, issue Issue) error {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	case SeverityInfo:
		icon = "ℹ"
	}

	if _, err := fmt.Fprintf(w, "%s %s [%s]\n", icon, issue.Path, issue.Rule); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s: %s\n", issue.Severity, issue.Message); err != nil {
		return err
	}
	if issue.Explanation != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(issue.Explanation), "\n") {
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
	}
	if issue.Fix != "" {
		if _, err := fmt.Fprintf(w, "  Fix: %s\n", issue.Fix); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// JSONOutput represents the JSON output for one snapshot.
type JSONOutput struct {
	Snapshot     string      `json:"snapshot"`
	ContentRoot  string      `json:"content_root,omitempty"`
	TargetsTotal int         `json:"targets_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	Path        string `json:"path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// Format outputs results as a JSON array, one object per snapshot.
func (f *JSONFormatter) Format(w io.Writer, results []*Result) error {
	out := make([]JSONOutput, 0, len(results))
	for _, result := range results {
		o := JSONOutput{
			Snapshot:     result.Snapshot,
			ContentRoot:  result.ContentRoot,
			TargetsTotal: result.TargetsTotal,
			ErrorCount:   result.ErrorCount(),
			WarningCount: result.WarningCount(),
			InfoCount:    result.count(SeverityInfo),
			Issues:       []JSONIssue{},
		}
		for _, issue := range result.Issues {
			o.Issues = append(o.Issues, JSONIssue{
				Path:        issue.Path,
				Severity:    issue.Severity.String(),
				Rule:        issue.Rule,
				Message:     issue.Message,
				Explanation: issue.Explanation,
				Fix:         issue.Fix,
			})
		}
		out = append(out, o)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	default:
		return &TextFormatter{}
	}
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
