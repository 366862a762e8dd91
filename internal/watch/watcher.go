// Package watch rebuilds a project when its sources or project file change
// and re-checks remote version switcher manifests on a schedule.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// DefaultDebounce collapses bursts of file events into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// BuildFunc performs one rebuild.
type BuildFunc func(ctx context.Context) error

// Watcher monitors the project file and source tree.
type Watcher struct {
	configPath string
	ignore     []string
	trees      []string
	build      BuildFunc
	debounce   time.Duration
	logger     *slog.Logger

	watcher *fsnotify.Watcher
	trigger chan struct{}

	mu       sync.Mutex
	rebuilds int
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(w *Watcher) { w.logger = l } }

// WithIgnore skips events below the given directories (the build output).
func WithIgnore(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// New creates a watcher that calls build after changes to configPath or
// any directory added with AddTree.
func New(configPath string, build BuildFunc, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "create file watcher").Build()
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve project file path").Build()
	}
	w := &Watcher{
		configPath: abs,
		build:      build,
		debounce:   DefaultDebounce,
		logger:     slog.Default(),
		watcher:    fw,
		trigger:    make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(w)
	}
	// The directory is watched rather than the file so that editors that
	// replace the file on save are still seen.
	if err := w.add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// AddTree watches dir and its subdirectories, skipping hidden ones, those
// starting with "_" and ignored ones.
func (w *Watcher) AddTree(dir string) error {
	if abs, err := filepath.Abs(dir); err == nil && !w.inTree(abs) {
		w.trees = append(w.trees, abs)
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.skipDir(p) {
			return filepath.SkipDir
		}
		return w.add(p)
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "watch directory").
			WithContext(logfields.KeyPath, dir).Build()
	}
	return nil
}

func (w *Watcher) skipDir(p string) bool {
	name := filepath.Base(p)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	return w.ignored(p)
}

func (w *Watcher) ignored(p string) bool {
	abs, err := filepath.Abs(p)
	return err == nil && under(abs, w.ignore)
}

// inTree reports whether p lies inside a directory added with AddTree.
func (w *Watcher) inTree(p string) bool {
	abs, err := filepath.Abs(p)
	return err == nil && under(abs, w.trees)
}

func under(p string, dirs []string) bool {
	for _, d := range dirs {
		if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant reports whether an event should cause a rebuild.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Name == w.configPath {
		return true
	}
	if w.ignored(ev.Name) {
		return false
	}
	base := filepath.Base(ev.Name)
	inConfigDir := filepath.Dir(ev.Name) == filepath.Dir(w.configPath)
	if inConfigDir && strings.HasPrefix(base, ".env") {
		return true
	}
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	// Other files next to the project file only count when the project
	// directory is itself a watched tree.
	if inConfigDir && !w.inTree(ev.Name) && filepath.Ext(base) != ".md" && !w.isDir(ev.Name) {
		return false
	}
	return true
}

func (w *Watcher) isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Rebuilds returns how many rebuilds have run.
func (w *Watcher) Rebuilds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rebuilds
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()
	w.logger.Info("Watching for changes", logfields.Path(w.configPath))

	go w.reloadLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create && w.isDir(ev.Name) && !w.skipDir(ev.Name) {
				if err := w.AddTree(ev.Name); err != nil {
					w.logger.Warn("Cannot watch new directory", logfields.Path(ev.Name), logfields.Error(err))
				}
			}
			w.logger.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			w.triggerRebuild()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) triggerRebuild() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	err := w.build(ctx)
	w.mu.Lock()
	w.rebuilds++
	w.mu.Unlock()
	if err != nil {
		w.logger.Error("Rebuild failed", logfields.Error(err))
		return
	}
	w.logger.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
