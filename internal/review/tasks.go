// Package review drives the chapter-by-chapter editorial pass: a JSON task
// list in sidebar order, a model that rewrites each chapter body, and
// fingerprints that notice chapters edited after review.
package review

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/fileutil"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// Status is a task's review state.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Task is one chapter to review. Path is relative to the docs root.
// Fingerprint is the chapter's content fingerprint when it was last
// reviewed; it lets Recheck notice later edits.
type Task struct {
	Path        string `json:"path"`
	Status      Status `json:"status"`
	Title       string `json:"title"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// LoadTasks reads a task list file.
func LoadTasks(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("task list does not exist").WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read task list").WithContext("path", path).Build()
	}
	var tasks []Task
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tasks); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid task list").WithContext("path", path).Build()
	}
	for i, t := range tasks {
		if t.Status != StatusPending && t.Status != StatusDone {
			return nil, errors.ValidationError("task status must be pending or done").
				WithContext("path", path).
				WithContext("index", i).
				WithContext("status", string(t.Status)).
				Build()
		}
		if t.Path == "" {
			return nil, errors.ValidationError("task has no path").WithContext("path", path).WithContext("index", i).Build()
		}
		if !isLocal(t.Path) {
			return nil, errors.ValidationError("task path must stay under the content root").
				WithContext("path", path).
				WithContext("index", i).
				WithContext("task_path", t.Path).
				Build()
		}
	}
	return tasks, nil
}

func isLocal(p string) bool {
	return filepath.IsLocal(filepath.FromSlash(p))
}

// SaveTasks writes the list as indented JSON with non-ASCII text unescaped and
// no trailing newline, byte-compatible with the chapter tool's own writer.
func SaveTasks(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode task list").Build()
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return fileutil.WriteFileAtomic(path, data, fileutil.FileMode(path, 0o644))
}

// CheckFiles verifies every task's chapter exists under docsRoot.
func CheckFiles(tasks []Task, docsRoot string) error {
	for _, t := range tasks {
		if !isLocal(t.Path) {
			return errors.ValidationError("task path must stay under the content root").
				WithContext("path", t.Path).
				WithContext("task", t.Title).
				Build()
		}
		full := filepath.Join(docsRoot, filepath.FromSlash(t.Path))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			return errors.NotFoundError("chapter file does not exist").
				WithContext("path", full).
				WithContext("task", t.Title).
				Build()
		}
	}
	return nil
}

// FromSidebar derives a pending task per sidebar page, in sidebar order.
func FromSidebar(cfg site.SiteConfig) []Task {
	var tasks []Task
	for _, e := range cfg.SidebarEntries() {
		if site.IsExternal(e.Link) {
			continue
		}
		tasks = append(tasks, Task{
			Path:   content.DocumentPath(e.Link),
			Status: StatusPending,
			Title:  e.Text,
		})
	}
	return tasks
}

// Merge takes the order and titles from fresh and keeps the review state of
// tasks already present in existing. Tasks only in existing are dropped.
func Merge(existing, fresh []Task) []Task {
	byPath := make(map[string]Task, len(existing))
	for _, t := range existing {
		byPath[t.Path] = t
	}
	out := make([]Task, 0, len(fresh))
	for _, t := range fresh {
		if old, ok := byPath[t.Path]; ok {
			t.Status = old.Status
			t.Fingerprint = old.Fingerprint
		}
		out = append(out, t)
	}
	return out
}

// Counts tallies tasks by status.
func Counts(tasks []Task) (pending, done int) {
	for _, t := range tasks {
		if t.Status == StatusDone {
			done++
		} else {
			pending++
		}
	}
	return pending, done
}
