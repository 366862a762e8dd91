// Package site is the documentation host: it turns a directory of Markdown
// pages into an HTML site, running the loaded theme's hooks for every page.
package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pydatatheme/internal/assets"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/metrics"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/logo"
)

// Options tune a build.
type Options struct {
	// Incremental reuses pages whose source and context are unchanged.
	Incremental bool
}

// Result summarizes a build.
type Result struct {
	BuildID  string
	Rendered int
	Skipped  int
	Warnings int
	Duration time.Duration
}

// Builder renders one app's project.
type Builder struct {
	app  *plugin.App
	opts Options
}

// NewBuilder creates a builder for app.
func NewBuilder(app *plugin.App, opts Options) *Builder {
	return &Builder{app: app, opts: opts}
}

// Build emits builder-inited, renders every page and emits build-finished
// with the outcome. A build-finished failure is returned when the build
// itself succeeded.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	app := b.app
	res := &Result{BuildID: app.BuildID}
	app.Logger.Info("Build started",
		logfields.Path(app.Config.SourcePath()),
		logfields.Extension(app.Config.HTMLTheme))

	buildErr := b.build(ctx, res)
	if finishErr := app.EmitBuildFinished(ctx, buildErr); buildErr == nil {
		buildErr = finishErr
	}

	res.Duration = time.Since(start)
	res.Warnings = app.Reporter.Len()
	app.Recorder.ObserveBuildDuration(res.Duration)

	switch {
	case buildErr != nil:
		app.Recorder.IncBuildOutcome(metrics.ResultFailed)
		return res, buildErr
	case res.Warnings > 0:
		app.Recorder.IncBuildOutcome(metrics.ResultWarning)
	default:
		app.Recorder.IncBuildOutcome(metrics.ResultSuccess)
	}
	app.Logger.Info("Build finished",
		slog.Int("rendered", res.Rendered),
		slog.Int("skipped", res.Skipped),
		logfields.Count(res.Warnings),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (b *Builder) build(ctx context.Context, res *Result) error {
	app := b.app
	cfg := app.Config
	srcDir := cfg.SourcePath()
	outDir := cfg.OutputPath()

	if err := app.EmitBuilderInited(ctx); err != nil {
		return err
	}

	srcs, err := Discover(srcDir, outDir)
	if err != nil {
		return err
	}
	md := NewMarkdown(cfg.HTMLPermalinksIcon)
	byName := make(map[string]*Source, len(srcs))
	for _, s := range srcs {
		r, err := md.Convert(s.Body)
		if err != nil {
			return errors.WrapError(err, errors.CategoryBuild, "render markdown").
				WithContext(logfields.KeyPath, s.Path).Build()
		}
		s.Rendered = r
		if s.Title == "" {
			s.Title = r.Title
		}
		if s.Title == "" {
			s.Title = filepath.Base(s.Name)
		}
		byName[s.Name] = s
	}
	SortSources(srcs, RootDoc)

	tmplDirs := make([]string, 0, len(cfg.TemplatesPath))
	for _, p := range cfg.TemplatesPath {
		tmplDirs = append(tmplDirs, cfg.Resolve(p))
	}
	tmplHash, err := templatesHash(tmplDirs)
	if err != nil {
		return err
	}
	info := &BuildInfo{
		BuildID:      app.BuildID,
		Config:       cfg.Snapshot(),
		ThemeVersion: themeVersion(app),
		Nav:          navHash(srcs),
		Templates:    tmplHash,
		Pages:        make(map[string]string, len(srcs)),
	}
	var prev *BuildInfo
	if b.opts.Incremental {
		if prev, err = LoadBuildInfo(outDir); err != nil {
			return err
		}
		if !info.Compatible(prev) {
			prev = nil
		}
	}

	for i, s := range srcs {
		if err := ctx.Err(); err != nil {
			return err
		}
		info.Pages[s.Name] = s.Fingerprint
		if prev != nil && prev.Pages[s.Name] == s.Fingerprint && exists(filepath.Join(outDir, filepath.FromSlash(s.URL()))) {
			res.Skipped++
			app.Recorder.IncPagesRendered(true)
			app.Logger.Debug("Page unchanged", logfields.Page(s.Name))
			continue
		}
		if err := b.writePage(ctx, srcs, i, byName, outDir); err != nil {
			return err
		}
		res.Rendered++
		app.Recorder.IncPagesRendered(false)
	}

	if err := copyStatic(app, outDir); err != nil {
		return wrapFS(err, "copy static files")
	}
	docOpts, err := documentationOptions(app)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, filepath.FromSlash(DocumentationOptionsPath)), docOpts); err != nil {
		return err
	}
	return info.Save(outDir)
}

func (b *Builder) writePage(ctx context.Context, srcs []*Source, idx int, byName map[string]*Source, outDir string) error {
	app := b.app
	src := srcs[idx]
	page := app.NewPage(src.Name, pageVars(app, srcs, idx, byName))
	if err := app.EmitPageContext(ctx, page); err != nil {
		return err
	}

	out, err := app.Templates.Render(page.Template, page.Vars)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return ce.WithContext(logfields.KeyPage, src.Name)
		}
		return err
	}
	html, err := assets.Inject([]byte(out), resolveAssets(page.Assets(), page.GetString("content_root")))
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, filepath.FromSlash(src.URL())), html); err != nil {
		return err
	}
	if page.GetBool("theme_show_sourcelink") {
		return copySource(src, outDir)
	}
	return nil
}

// resolveAssets makes local asset paths relative to the page.
func resolveAssets(items []assets.Asset, root string) []assets.Asset {
	for i, a := range items {
		if a.Inline() || logo.IsURL(a.Filename) || strings.HasPrefix(a.Filename, "/") || strings.HasPrefix(a.Filename, "//") {
			continue
		}
		items[i].Filename = root + a.Filename
	}
	return items
}

func themeVersion(app *plugin.App) string {
	for _, m := range app.Loaded() {
		if m.Name == app.Config.HTMLTheme {
			return m.Version
		}
	}
	return ""
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func wrapFS(err error, msg string) error {
	if _, ok := errors.AsClassified(err); ok {
		return err
	}
	return errors.WrapError(err, errors.CategoryFileSystem, msg).Build()
}
