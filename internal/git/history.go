// Package git reads commit history for chapter files so the page manifest can
// carry a last-updated time per page.
package git

import (
	stderrors "errors"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

// History answers last-modified questions for files inside one work tree.
type History struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing dir, searching parent directories.
// A directory outside any repository yields (nil, nil); a nil *History
// reports zero times for every path.
func Open(dir string) (*History, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve directory").WithContext("path", dir).Build()
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open repository").WithContext("path", abs).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "bare repositories have no work tree").WithContext("path", abs).Build()
	}
	return &History{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root is the work tree root.
func (h *History) Root() string {
	if h == nil {
		return ""
	}
	return h.root
}

// LastUpdated returns the committer time of the newest commit touching path.
// Untracked files and repositories without commits return the zero time.
func (h *History) LastUpdated(path string) (time.Time, error) {
	if h == nil {
		return time.Time{}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(h.root, abs)
	if err != nil {
		return time.Time{}, errors.WrapError(err, errors.CategoryGit, "path outside work tree").WithContext("path", path).Build()
	}
	rel = filepath.ToSlash(rel)

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.WrapError(err, errors.CategoryGit, "read history").WithContext("path", rel).Build()
	}
	defer iter.Close()

	commit, err := iter.Next()
	if stderrors.Is(err, io.EOF) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.WrapError(err, errors.CategoryGit, "read history").WithContext("path", rel).Build()
	}
	return commit.Committer.When, nil
}
