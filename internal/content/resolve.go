package content

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// NormalizeTarget reduces a link target to the page it names: query and
// fragment dropped, a trailing .md or .html removed, and a trailing /index
// folded into the directory form. "/basics/index.html#x" becomes "/basics/".
func NormalizeTarget(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	target = strings.TrimSuffix(target, ".html")
	target = strings.TrimSuffix(target, ".md")
	if target == "/index" || strings.HasSuffix(target, "/index") {
		target = strings.TrimSuffix(target, "index")
	}
	return target
}

// DocumentPath maps a site target to the Markdown file that renders it,
// relative to the content root and slash-separated.
// Dot-dot segments cannot climb above the content root.
func DocumentPath(target string) string {
	t := NormalizeTarget(target)
	dir := t == "" || strings.HasSuffix(t, "/")
	t = strings.TrimPrefix(path.Clean("/"+t), "/")
	switch {
	case t == "":
		return "index.md"
	case dir:
		return t + "/index.md"
	}
	return t + ".md"
}

// HasDotDot reports whether target contains a ".." path segment.
func HasDotDot(target string) bool {
	return slices.Contains(strings.Split(NormalizeTarget(target), "/"), "..")
}

// TargetFor is the inverse of DocumentPath: "basics/index.md" becomes "/basics/".
func TargetFor(rel string) string {
	rel = strings.TrimSuffix(path.Clean("/"+rel), ".md")
	if rel == "/index" {
		return "/"
	}
	if strings.HasSuffix(rel, "/index") {
		return strings.TrimSuffix(rel, "index")
	}
	return rel
}

// Resolve maps target to the Markdown file under root and reports whether it exists.
func Resolve(root, target string) (string, bool) {
	p := filepath.Join(root, filepath.FromSlash(DocumentPath(target)))
	info, err := os.Stat(p)
	return p, err == nil && !info.IsDir()
}
