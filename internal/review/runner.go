package review

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/fileutil"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/frontmatter"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/metrics"
)

// Summary reports what one Run did.
type Summary struct {
	RunID    string
	Reviewed int
	Skipped  int
	Pending  int
	Duration time.Duration
}

// Runner works through a task list, one chapter at a time.
type Runner struct {
	docsRoot string
	listPath string
	reviewer Reviewer
	recorder metrics.Recorder
	limit    int
	now      func() time.Time
}

func NewRunner(docsRoot, listPath string, reviewer Reviewer) *Runner {
	return &Runner{
		docsRoot: docsRoot,
		listPath: listPath,
		reviewer: reviewer,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
}

// WithRecorder sets the metrics sink.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithLimit stops the run after n reviewed chapters. Zero means no limit.
func (r *Runner) WithLimit(n int) *Runner {
	r.limit = n
	return r
}

// Run reviews every pending task in list order. Each completed task is
// persisted before the next one starts, so an interrupted run resumes where
// it stopped. The first failure ends the run.
func (r *Runner) Run(ctx context.Context) (sum Summary, err error) {
	sum.RunID = uuid.NewString()
	start := r.now()
	logger := slog.With(logfields.RunID(sum.RunID))

	tasks, err := LoadTasks(r.listPath)
	if err != nil {
		return sum, err
	}
	if err := CheckFiles(tasks, r.docsRoot); err != nil {
		return sum, err
	}

	dirty := false
	defer func() {
		if dirty {
			if saveErr := SaveTasks(r.listPath, tasks); saveErr != nil && err == nil {
				err = saveErr
			}
		}
		sum.Pending, _ = Counts(tasks)
		sum.Duration = r.now().Sub(start)
		r.recorder.ObserveRunDuration(sum.Duration)
		logger.Info("Review run finished",
			slog.Int("reviewed", sum.Reviewed),
			slog.Int("skipped", sum.Skipped),
			slog.Int("pending", sum.Pending),
			logfields.DurationMS(float64(sum.Duration.Milliseconds())))
	}()

	for i := range tasks {
		task := &tasks[i]
		if task.Status == StatusDone {
			sum.Skipped++
			r.recorder.IncTaskResult(metrics.ResultSkipped)
			continue
		}
		if r.limit > 0 && sum.Reviewed >= r.limit {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.recorder.IncTaskResult(metrics.ResultCanceled)
			return sum, errors.WrapError(ctxErr, errors.CategoryRuntime, "review run canceled").Build()
		}

		logger.Info("Reviewing chapter", logfields.Task(task.Title), logfields.Path(task.Path))
		taskStart := r.now()
		fp, reviewErr := r.reviewOne(ctx, *task)
		r.recorder.ObserveTaskDuration(r.now().Sub(taskStart))
		if reviewErr != nil {
			label := metrics.ResultFailed
			if ctx.Err() != nil {
				label = metrics.ResultCanceled
			}
			r.recorder.IncTaskResult(label)
			logger.Error("Chapter review failed", logfields.Task(task.Title), logfields.Error(reviewErr))
			return sum, reviewErr
		}
		task.Status = StatusDone
		task.Fingerprint = fp
		dirty = true
		sum.Reviewed++
		r.recorder.IncTaskResult(metrics.ResultSuccess)

		if err := SaveTasks(r.listPath, tasks); err != nil {
			return sum, err
		}
		dirty = false
		logger.Info("Chapter reviewed", logfields.Task(task.Title), logfields.Status(string(task.Status)))
	}
	return sum, nil
}

// reviewOne rewrites one chapter body in place, keeping its frontmatter, and
// returns the new fingerprint.
func (r *Runner) reviewOne(ctx context.Context, task Task) (string, error) {
	full := filepath.Join(r.docsRoot, filepath.FromSlash(task.Path))
	raw, err := os.ReadFile(full)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "read chapter").WithContext("path", full).Build()
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryContent, "parse chapter frontmatter").WithContext("path", full).Build()
	}

	revised, err := r.reviewer.Review(ctx, task, string(doc.Body))
	if err != nil {
		return "", err
	}
	if len(revised) == 0 || revised == "\n" {
		return "", errors.ModelError("model returned an empty chapter").WithContext("task", task.Title).Build()
	}

	out := doc.WithBody([]byte(revised)).Bytes()
	if err := fileutil.WriteFileAtomic(full, out, fileutil.FileMode(full, 0o644)); err != nil {
		return "", err
	}
	fp, err := content.FingerprintFile(full)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryContent, "fingerprint chapter").WithContext("path", full).Build()
	}
	return fp, nil
}

// RecheckResult lists the tasks Recheck changed.
type RecheckResult struct {
	Reset   []string
	Adopted []string
}

// Recheck returns done tasks whose chapter changed since review to pending.
// Done tasks without a stored fingerprint adopt the current one.
func Recheck(listPath, docsRoot string) (RecheckResult, error) {
	var res RecheckResult
	tasks, err := LoadTasks(listPath)
	if err != nil {
		return res, err
	}
	changed := false
	for i := range tasks {
		t := &tasks[i]
		if t.Status != StatusDone {
			continue
		}
		full := filepath.Join(docsRoot, filepath.FromSlash(t.Path))
		fp, err := content.FingerprintFile(full)
		if err != nil {
			if content.IsNotExist(err) {
				return res, errors.NotFoundError("chapter file does not exist").WithContext("path", full).Build()
			}
			return res, errors.WrapError(err, errors.CategoryContent, "fingerprint chapter").WithContext("path", full).Build()
		}
		switch {
		case t.Fingerprint == "":
			t.Fingerprint = fp
			res.Adopted = append(res.Adopted, t.Path)
			changed = true
		case t.Fingerprint != fp:
			t.Status = StatusPending
			res.Reset = append(res.Reset, t.Path)
			changed = true
		}
	}
	if changed {
		if err := SaveTasks(listPath, tasks); err != nil {
			return res, err
		}
	}
	return res, nil
}
