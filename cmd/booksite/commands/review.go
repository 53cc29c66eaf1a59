package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/booksite/internal/config"
	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/llm"
	"git.home.luguber.info/inful/booksite/internal/metrics"
	"git.home.luguber.info/inful/booksite/internal/review"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// ReviewCmd groups the review subcommands.
type ReviewCmd struct {
	Init    ReviewInitCmd    `cmd:"" help:"Create or refresh the task list from the sidebar"`
	Run     ReviewRunCmd     `cmd:"" help:"Review pending chapters in sidebar order"`
	Status  ReviewStatusCmd  `cmd:"" help:"Show the task list"`
	Recheck ReviewRecheckCmd `cmd:"" help:"Return chapters edited since review to pending"`
}

// taskListPath is relative to the working directory, like docs_root.
func taskListPath(cfg *config.Config) string {
	return filepath.Clean(cfg.Review.TaskList)
}

// ReviewInitCmd implements 'review init'.
type ReviewInitCmd struct {
	Snapshot string `short:"s" help:"Snapshot whose sidebar defines the tasks (default: configured, else latest)"`
	Reset    bool   `help:"Discard review state instead of merging with an existing list"`
}

func (r *ReviewInitCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	sc, err := site.Snapshot(snapshotName(r.Snapshot, cfg))
	if err != nil {
		return err
	}
	path := taskListPath(cfg)
	tasks := review.FromSidebar(sc)
	if !r.Reset {
		existing, err := review.LoadTasks(path)
		switch {
		case err == nil:
			tasks = review.Merge(existing, tasks)
		case !errors.HasCategory(err, errors.CategoryNotFound):
			return err
		}
	}
	if err := review.SaveTasks(path, tasks); err != nil {
		return err
	}
	pending, done := review.Counts(tasks)
	_, _ = fmt.Fprintf(g.out(), "Wrote %s: %d tasks (%d pending, %d done)\n", path, len(tasks), pending, done)
	return nil
}

// ReviewRunCmd implements 'review run'.
type ReviewRunCmd struct {
	Limit int `short:"n" help:"Stop after reviewing this many chapters (0: no limit)"`
}

func (r *ReviewRunCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	pr, rec := newRecorder(cfg)
	defer flushMetrics(pr, cfg)

	client, err := newChatClient(cfg, rec)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := review.NewRunner(cfg.Site.DocsRoot, taskListPath(cfg), review.NewChatReviewer(client, "")).
		WithRecorder(rec).
		WithLimit(r.Limit)
	sum, err := runner.Run(ctx)
	_, _ = fmt.Fprintf(g.out(), "Run %s: %d reviewed, %d already done, %d pending\n", sum.RunID, sum.Reviewed, sum.Skipped, sum.Pending)
	return err
}

func newChatClient(cfg *config.Config, rec metrics.Recorder) (*llm.Client, error) {
	return llm.New(llm.Options{
		BaseURL:     cfg.Review.BaseURL,
		APIKey:      cfg.Review.APIKey,
		Model:       cfg.Review.Model,
		Temperature: cfg.Review.Temperature,
		Stream:      cfg.Review.Stream,
		Timeout:     cfg.Review.RequestTimeout(),
		Retry:       cfg.Review.RetryPolicy(),
		OnRetry:     rec.IncModelRetry,
	})
}

// ReviewStatusCmd implements 'review status'.
type ReviewStatusCmd struct {
	Pending bool `help:"Only list pending tasks"`
}

func (r *ReviewStatusCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	tasks, err := review.LoadTasks(taskListPath(cfg))
	if err != nil {
		return err
	}
	w := g.out()
	for _, t := range tasks {
		if r.Pending && t.Status == review.StatusDone {
			continue
		}
		mark := " "
		if t.Status == review.StatusDone {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "[%s] %s  %s\n", mark, t.Path, t.Title)
	}
	pending, done := review.Counts(tasks)
	_, _ = fmt.Fprintf(w, "%d/%d done, %d pending\n", done, len(tasks), pending)
	return nil
}

// ReviewRecheckCmd implements 'review recheck'.
type ReviewRecheckCmd struct{}

func (r *ReviewRecheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	res, err := review.Recheck(taskListPath(cfg), cfg.Site.DocsRoot)
	if err != nil {
		return err
	}
	w := g.out()
	for _, p := range res.Reset {
		_, _ = fmt.Fprintf(w, "changed since review: %s\n", p)
	}
	_, _ = fmt.Fprintf(w, "%d reset to pending, %d fingerprints recorded\n", len(res.Reset), len(res.Adopted))
	return nil
}
