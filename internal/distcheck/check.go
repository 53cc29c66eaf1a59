// Package distcheck inspects the generator's built output for references
// that break when the site is served under its base path.
package distcheck

import (
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/logfields"
)

// Kind classifies a finding.
type Kind string

const (
	// KindOutsideBase is a site-absolute reference that skips the base path.
	KindOutsideBase Kind = "outside-base"
	// KindMissing is a reference under the base path with no file behind it.
	KindMissing Kind = "missing"
)

// Finding is one bad reference. File is relative to the dist directory.
type Finding struct {
	File string
	Kind Kind
	Ref  Ref
}

// Report is the result of checking a dist directory.
type Report struct {
	Base     string
	Pages    int
	Refs     int
	Findings []Finding
}

// Err returns a validation error when the report has findings.
func (r *Report) Err() error {
	if len(r.Findings) == 0 {
		return nil
	}
	first := r.Findings[0]
	return errors.ValidationError("built output has references outside the base path").
		WithContext("base", r.Base).
		WithContext("findings", len(r.Findings)).
		WithContext("file", first.File).
		WithContext("url", first.Ref.URL).
		Build()
}

// Check parses every .html file under distDir. References that start with a
// single slash must start with base; those that do must resolve to a file.
// External, protocol-relative and page-relative references are not checked.
func Check(distDir, base string) (*Report, error) {
	info, err := os.Stat(distDir)
	if err != nil || !info.IsDir() {
		return nil, errors.NotFoundError("dist directory does not exist").WithContext("path", distDir).Build()
	}
	if !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		return nil, errors.ValidationError("base path must start and end with /").WithContext("base", base).Build()
	}

	report := &Report{Base: base, Findings: []Finding{}}
	walkErr := filepath.WalkDir(distDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, _ := filepath.Rel(distDir, p)
		rel = filepath.ToSlash(rel)
		refs, err := readRefs(p)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "check page").WithContext("file", rel).Build()
		}
		report.Pages++
		report.Refs += len(refs)
		for _, ref := range refs {
			if kind, bad := classify(distDir, base, ref.URL); bad {
				report.Findings = append(report.Findings, Finding{File: rel, Kind: kind, Ref: ref})
			}
		}
		return nil
	})
	if walkErr != nil {
		if _, ok := errors.AsClassified(walkErr); ok {
			return nil, walkErr
		}
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "walk dist directory").WithContext("path", distDir).Build()
	}
	slog.Debug("Checked built output", logfields.Path(distDir), logfields.Count(report.Pages), slog.Int("findings", len(report.Findings)))
	return report, nil
}

func readRefs(p string) ([]Ref, error) {
	f, err := os.Open(filepath.Clean(p))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ExtractRefs(f)
}

func classify(distDir, base, u string) (Kind, bool) {
	if !siteAbsolute(u) {
		return "", false
	}
	if !strings.HasPrefix(u, base) && u+"/" != base {
		return KindOutsideBase, true
	}
	if !exists(distDir, strings.TrimPrefix(u, strings.TrimSuffix(base, "/"))) {
		return KindMissing, true
	}
	return "", false
}

// exists resolves a site path the way a static server with clean URLs does.
func exists(distDir, sitePath string) bool {
	if i := strings.IndexAny(sitePath, "?#"); i >= 0 {
		sitePath = sitePath[:i]
	}
	if unescaped, err := url.PathUnescape(sitePath); err == nil {
		sitePath = unescaped
	}
	clean := path.Clean("/" + sitePath)
	candidates := []string{clean, clean + ".html", path.Join(clean, "index.html")}
	for _, c := range candidates {
		info, err := os.Stat(filepath.Join(distDir, filepath.FromSlash(c)))
		if err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
