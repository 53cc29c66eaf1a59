package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, root, rel, content string, when time.Time) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)
	sig := &object.Signature{Name: "editor", Email: "editor@example.com", When: when}
	_, err = wt.Commit("update "+rel, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestLastUpdated(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2025, 4, 2, 12, 30, 0, 0, time.UTC)
	commitFile(t, repo, root, "docs/basics/variables.md", "# 变量\n", first)
	commitFile(t, repo, root, "docs/basics/strings.md", "# 字符串\n", second)

	h, err := Open(filepath.Join(root, "docs"))
	require.NoError(t, err)
	require.NotNil(t, h)

	got, err := h.LastUpdated(filepath.Join(root, "docs", "basics", "variables.md"))
	require.NoError(t, err)
	require.True(t, got.Equal(first), "got %v", got)

	got, err = h.LastUpdated(filepath.Join(root, "docs", "basics", "strings.md"))
	require.NoError(t, err)
	require.True(t, got.Equal(second), "got %v", got)

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "new.md"), []byte("# new\n"), 0o600))
	got, err = h.LastUpdated(filepath.Join(root, "docs", "new.md"))
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestOpenOutsideRepository(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)
	require.Nil(t, h)

	got, err := h.LastUpdated("anything.md")
	require.NoError(t, err)
	require.True(t, got.IsZero())
	require.Empty(t, h.Root())
}
