package content

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/frontmatter"
	"git.home.luguber.info/inful/booksite/internal/git"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/markdown"
)

// Document is one Markdown page under the content root.
type Document struct {
	RelPath     string // slash-separated, relative to the content root
	Target      string
	Title       string // frontmatter title, else first H1
	Headings    []markdown.Heading
	Fields      map[string]any
	Fingerprint string
	LastUpdated time.Time
}

// Inventory is the set of pages found under a content root.
type Inventory struct {
	Root      string
	Documents []Document
	byTarget  map[string]int
}

// skipDirs are never part of the rendered content.
var skipDirs = []string{"node_modules", "public", "dist"}

// Scan walks root and reads every Markdown page. Hidden directories
// (.vitepress, .git) and skipDirs are ignored.
func Scan(root string) (*Inventory, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "content root not readable").WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, errors.ContentError("content root is not a directory").WithContext("path", root).Build()
	}

	inv := &Inventory{Root: root, byTarget: map[string]int{}}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if d.IsDir() {
			if p != root && (strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name)) {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		doc, err := readDocument(p, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		inv.add(doc)
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "scan content root").WithContext("path", root).Build()
	}
	slog.Debug("Scanned content root", logfields.Path(root), logfields.Count(len(inv.Documents)))
	return inv, nil
}

func (inv *Inventory) add(doc Document) {
	inv.byTarget[doc.Target] = len(inv.Documents)
	inv.Documents = append(inv.Documents, doc)
}

// Lookup finds the page a target resolves to.
func (inv *Inventory) Lookup(target string) (*Document, bool) {
	i, ok := inv.byTarget[TargetFor(DocumentPath(target))]
	if !ok {
		return nil, false
	}
	return &inv.Documents[i], true
}

// Has reports whether target resolves to a page.
func (inv *Inventory) Has(target string) bool {
	_, ok := inv.Lookup(target)
	return ok
}

// AttachHistory fills LastUpdated from commit history. Lookup failures are
// logged and leave the zero time.
func (inv *Inventory) AttachHistory(h *git.History) {
	for i := range inv.Documents {
		doc := &inv.Documents[i]
		when, err := h.LastUpdated(filepath.Join(inv.Root, filepath.FromSlash(doc.RelPath)))
		if err != nil {
			slog.Warn("Last-updated lookup failed", logfields.Path(doc.RelPath), logfields.Error(err))
			continue
		}
		doc.LastUpdated = when
	}
}

func readDocument(fullPath, rel string) (Document, error) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryFileSystem, "read document").WithContext("path", rel).Build()
	}
	parsed, err := frontmatter.Parse(raw)
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryContent, "invalid frontmatter").WithContext("path", rel).Build()
	}
	fields, err := parsed.Fields()
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryContent, "invalid frontmatter").WithContext("path", rel).Build()
	}

	headings := markdown.Headings(parsed.Body)
	title, _ := fields["title"].(string)
	if title == "" {
		for _, h := range headings {
			if h.Level == 1 {
				title = h.Text
				break
			}
		}
	}

	fp, err := Fingerprint(fields, parsed.Body)
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryContent, "fingerprint document").WithContext("path", rel).Build()
	}

	return Document{
		RelPath:     rel,
		Target:      TargetFor(rel),
		Title:       title,
		Headings:    headings,
		Fields:      fields,
		Fingerprint: fp,
	}, nil
}

// volatileFields do not count as a content change.
var volatileFields = []string{mdfp.FingerprintField, "lastUpdated", "lastmod"}

// Fingerprint hashes a page's frontmatter (minus volatile fields, keys
// sorted) together with its body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	stable := make(map[string]any, len(fields))
	for k, v := range fields {
		if !slices.Contains(volatileFields, k) {
			stable[k] = v
		}
	}
	canonical, err := frontmatter.Canonical(stable)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(canonical), "\n"), string(body)), nil
}

// FingerprintFile reads a page from disk and fingerprints it.
func FingerprintFile(fullPath string) (string, error) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	parsed, err := frontmatter.Parse(raw)
	if err != nil {
		return "", err
	}
	fields, err := parsed.Fields()
	if err != nil {
		return "", err
	}
	return Fingerprint(fields, parsed.Body)
}

// IsNotExist reports whether err means a page file is missing.
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
