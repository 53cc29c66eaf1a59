// Package testutil builds content trees and git repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// WriteFile creates rel under root, with parent directories.
func WriteFile(t *testing.T, root, rel, data string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(data), 0o644))
	return full
}

// DocsTree writes one page per sidebar target of cfg, titled after the
// sidebar label, plus a home page at the root.
func DocsTree(t *testing.T, root string, cfg site.SiteConfig) {
	t.Helper()
	for _, e := range cfg.SidebarEntries() {
		if site.IsExternal(e.Link) {
			continue
		}
		WriteFile(t, root, content.DocumentPath(e.Link), "---\ntitle: "+e.Text+"\n---\n# "+e.Text+"\n")
	}
	WriteFile(t, root, "index.md", "---\nlayout: home\n---\n")
}

// GitRepo initializes a repository in a temp dir and returns it with its root.
func GitRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	return repo, root
}

// CommitFile writes rel and commits it with author and committer time when.
func CommitFile(t *testing.T, repo *git.Repository, root, rel, data string, when time.Time) {
	t.Helper()
	WriteFile(t, root, rel, data)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)
	sig := &object.Signature{Name: "editor", Email: "editor@example.com", When: when}
	_, err = wt.Commit("update "+rel, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}
