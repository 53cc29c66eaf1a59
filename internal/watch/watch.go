// Package watch re-runs the site build whenever a file under the content
// root changes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/metrics"
)

// BuildFunc performs one rebuild.
type BuildFunc func(ctx context.Context) error

// Watcher debounces filesystem events under a root into rebuilds.
type Watcher struct {
	root     string
	debounce time.Duration
	build    BuildFunc
	recorder metrics.Recorder
}

func New(root string, debounce time.Duration, build BuildFunc) *Watcher {
	return &Watcher{
		root:     root,
		debounce: debounce,
		build:    build,
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder sets the metrics sink.
func (w *Watcher) WithRecorder(rec metrics.Recorder) *Watcher {
	if rec != nil {
		w.recorder = rec
	}
	return w
}

// Run builds once, then rebuilds after every debounced burst of changes
// until ctx is done. Build failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	slog.Info("Watching content root", logfields.Path(w.root))

	w.rebuild(ctx)

	requests := make(chan struct{}, 1)
	trigger, stop := debouncer(w.debounce, requests)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				w.rebuild(ctx)
			}
		}
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	err := w.build(ctx)
	ms := float64(time.Since(start).Milliseconds())
	switch {
	case err == nil:
		w.recorder.IncRebuild(metrics.ResultSuccess)
		slog.Info("Rebuilt site", logfields.DurationMS(ms))
	case ctx.Err() != nil:
		w.recorder.IncRebuild(metrics.ResultCanceled)
	default:
		w.recorder.IncRebuild(metrics.ResultFailed)
		slog.Warn("Rebuild failed", logfields.Error(err), logfields.DurationMS(ms))
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ignored(w.root, ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// debouncer returns a trigger that sends on out once no trigger has
// arrived for d, and a stop func that cancels a pending send.
func debouncer(d time.Duration, out chan<- struct{}) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer
	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case out <- struct{}{}:
			default:
			}
		})
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

// addDirsRecursive watches root and every directory below it, skipping
// hidden ones such as .vitepress where the build writes its output.
func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.WrapError(err, errors.CategoryFileSystem, "walk content root").WithContext("path", root).Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// ignored reports editor droppings and anything inside a hidden directory
// below root.
func ignored(root, path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
