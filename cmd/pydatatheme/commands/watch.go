package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pydatatheme/internal/config"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/site"
	"git.home.luguber.info/inful/pydatatheme/internal/theme"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/switcher"
	"git.home.luguber.info/inful/pydatatheme/internal/watch"
)

// WatchCmd builds once, then rebuilds incrementally on every change.
type WatchCmd struct {
	Output   string        `short:"o" help:"Output directory (overrides output_dir)"`
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"500ms"`
	Interval time.Duration `help:"How often to re-check a remote version switcher manifest (0 disables)" default:"15m"`
}

func (w *WatchCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := loadProject(root.Config, w.Output)
	if err != nil {
		return err
	}
	if err := w.rebuild(ctx, root); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	watcher, err := watch.New(root.Config, func(ctx context.Context) error { return w.rebuild(ctx, root) },
		watch.WithDebounce(w.Debounce),
		watch.WithIgnore(cfg.OutputPath()),
		watch.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	dirs := []string{cfg.SourcePath()}
	for _, p := range append(append([]string{}, cfg.TemplatesPath...), cfg.HTMLStaticPath...) {
		dirs = append(dirs, cfg.Resolve(p))
	}
	for _, d := range dirs {
		if err := watcher.AddTree(d); err != nil {
			slog.Warn("Cannot watch directory", logfields.Path(d), logfields.Error(err))
		}
	}

	if w.Interval > 0 && remoteSwitcher(cfg) {
		sched, err := watch.NewScheduler(ctx, slog.Default())
		if err != nil {
			return err
		}
		if err := sched.Every("switcher-check", w.Interval, func(ctx context.Context) error {
			return w.recheck(ctx, root)
		}); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}
	return watcher.Run(ctx)
}

func (w *WatchCmd) rebuild(ctx context.Context, root *CLI) error {
	cfg, err := loadProject(root.Config, w.Output)
	if err != nil {
		return err
	}
	app, err := newApp(root, cfg, nil)
	if err != nil {
		return err
	}
	_, err = site.NewBuilder(app, site.Options{Incremental: true}).Build(ctx)
	return err
}

// recheck reads the switcher manifest again so a broken remote file is
// reported while the author keeps working.
func (w *WatchCmd) recheck(ctx context.Context, root *CLI) error {
	cfg, err := loadProject(root.Config, w.Output)
	if err != nil {
		return err
	}
	app, err := newApp(root, cfg, nil)
	if err != nil {
		return err
	}
	_, err = theme.CheckSwitcher(ctx, app)
	return err
}

func remoteSwitcher(cfg *config.Config) bool {
	opts := options.Merge(cfg.HTMLThemeOptions)
	if !options.Truthy(opts["check_switcher"]) {
		return false
	}
	desc, err := switcher.FromOptions(opts)
	return err == nil && desc != nil && switcher.IsRemote(desc.JSONURL)
}
