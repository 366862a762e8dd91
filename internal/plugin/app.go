package plugin

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pydatatheme/internal/assets"
	"git.home.luguber.info/inful/pydatatheme/internal/config"
	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/metrics"
	"git.home.luguber.info/inful/pydatatheme/internal/templates"
)

// InitHandler runs once after the app is configured and before any page.
type InitHandler func(ctx context.Context, app *App) error

// PageHandler runs for every page before it is rendered.
type PageHandler func(ctx context.Context, app *App, page *PageContext) error

// FinishHandler runs after all pages; buildErr is the build's error, if any.
type FinishHandler func(ctx context.Context, app *App, buildErr error) error

type hook[H any] struct {
	owner   string
	handler H
}

// App is the state shared between the host and its extensions for one build.
type App struct {
	BuildID string
	Config  *config.Config
	Logger  *slog.Logger

	// Reporter collects soft warnings emitted by hooks.
	Reporter *diag.Reporter
	Recorder metrics.Recorder

	// HTTPClient is used for optional remote reads (switcher manifests).
	HTTPClient *http.Client

	// Templates resolves layouts and components.
	Templates *templates.Renderer

	// ThemeOptions is the theme's option map; builder-inited hooks normalize it in place.
	ThemeOptions map[string]any

	// Version of the host, exposed to templates as generator_version.
	Version string

	css, js    *assets.List
	themes     map[string]fs.FS
	staticDirs []fs.FS
	loaded     []PluginMetadata

	initHooks   []hook[InitHandler]
	pageHooks   []hook[PageHandler]
	finishHooks []hook[FinishHandler]
}

// Option customizes an App.
type Option func(*App)

// WithLogger sets the app logger.
func WithLogger(l *slog.Logger) Option { return func(a *App) { a.Logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(a *App) { a.Recorder = r } }

// WithHTTPClient sets the client used for remote reads.
func WithHTTPClient(c *http.Client) Option { return func(a *App) { a.HTTPClient = c } }

// WithVersion sets the host version string.
func WithVersion(v string) Option { return func(a *App) { a.Version = v } }

// NewApp creates an App for one build of cfg. The app works on a copy of
// cfg; hooks see and change App.Config, never the caller's value.
func NewApp(cfg *config.Config, opts ...Option) *App {
	cfg = cfg.Clone()
	a := &App{
		BuildID:      uuid.NewString(),
		Config:       cfg,
		Logger:       slog.Default(),
		Recorder:     metrics.NoopRecorder{},
		Templates:    templates.NewRenderer(),
		ThemeOptions: cfg.HTMLThemeOptions,
		css:          assets.NewList(),
		js:           assets.NewList(),
		themes:       make(map[string]fs.FS),
	}
	for _, o := range opts {
		o(a)
	}
	if a.ThemeOptions == nil {
		a.ThemeOptions = map[string]any{}
		cfg.HTMLThemeOptions = a.ThemeOptions
	}
	a.Logger = a.Logger.With(logfields.BuildID(a.BuildID))
	a.Reporter = diag.NewReporter(a.Logger, a.Recorder)
	return a
}

// Use sets up ext on the app.
func (a *App) Use(ext Extension) error {
	meta := ext.Metadata()
	if err := meta.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "invalid extension").Fatal().Build()
	}
	if err := ext.Setup(a); err != nil {
		return NewPluginError(meta.Name, EventSetup, err)
	}
	a.loaded = append(a.loaded, meta)
	a.Logger.Debug("Extension loaded", logfields.Extension(meta.String()))
	return nil
}

// Loaded lists the metadata of every extension set up so far.
func (a *App) Loaded() []PluginMetadata { return append([]PluginMetadata(nil), a.loaded...) }

// ConnectBuilderInited registers an initialization hook.
func (a *App) ConnectBuilderInited(owner string, h InitHandler) {
	a.initHooks = append(a.initHooks, hook[InitHandler]{owner, h})
}

// ConnectPageContext registers a per-page hook.
func (a *App) ConnectPageContext(owner string, h PageHandler) {
	a.pageHooks = append(a.pageHooks, hook[PageHandler]{owner, h})
}

// ConnectBuildFinished registers a completion hook.
func (a *App) ConnectBuildFinished(owner string, h FinishHandler) {
	a.finishHooks = append(a.finishHooks, hook[FinishHandler]{owner, h})
}

// EmitBuilderInited runs initialization hooks in connection order.
func (a *App) EmitBuilderInited(ctx context.Context) error {
	defer a.observe(EventBuilderInited, time.Now())
	for _, h := range a.initHooks {
		if err := h.handler(ctx, a); err != nil {
			return NewPluginError(h.owner, EventBuilderInited, err)
		}
	}
	return nil
}

// EmitPageContext runs page hooks in connection order.
func (a *App) EmitPageContext(ctx context.Context, page *PageContext) error {
	defer a.observe(EventHTMLPageContext, time.Now())
	for _, h := range a.pageHooks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.handler(ctx, a, page); err != nil {
			return NewPluginError(h.owner, EventHTMLPageContext, err)
		}
	}
	return nil
}

// EmitBuildFinished runs completion hooks; all of them run even if one fails
// and the first failure is returned.
func (a *App) EmitBuildFinished(ctx context.Context, buildErr error) error {
	defer a.observe(EventBuildFinished, time.Now())
	var first error
	for _, h := range a.finishHooks {
		if err := h.handler(ctx, a, buildErr); err != nil {
			a.Logger.Error("build-finished hook failed", logfields.Extension(h.owner), logfields.Error(err))
			if first == nil {
				first = NewPluginError(h.owner, EventBuildFinished, err)
			}
		}
	}
	return first
}

func (a *App) observe(ev Event, start time.Time) {
	a.Recorder.ObserveHookDuration(string(ev), time.Since(start))
}

// AddJSFile registers a script for every page.
func (a *App) AddJSFile(asset assets.Asset) {
	asset.Kind = assets.JS
	a.js.Add(asset)
}

// AddCSSFile registers a stylesheet for every page.
func (a *App) AddCSSFile(asset assets.Asset) {
	asset.Kind = assets.CSS
	a.css.Add(asset)
}

// ScriptFiles returns the global script list.
func (a *App) ScriptFiles() *assets.List { return a.js }

// CSSFiles returns the global stylesheet list.
func (a *App) CSSFiles() *assets.List { return a.css }

// AddHTMLTheme makes a theme's layout directory available under name.
func (a *App) AddHTMLTheme(name string, fsys fs.FS) {
	a.themes[name] = fsys
	if name == a.Config.HTMLTheme {
		a.Templates.AppendSource(fsys)
	}
}

// HasTheme reports whether name was registered with AddHTMLTheme.
func (a *App) HasTheme(name string) bool {
	_, ok := a.themes[name]
	return ok
}

// AddTemplatesPath adds a lowest-priority template source (theme components).
func (a *App) AddTemplatesPath(fsys fs.FS) {
	a.Templates.AppendSource(fsys)
}

// AddStaticDir adds a directory copied into the output's _static/.
func (a *App) AddStaticDir(fsys fs.FS) {
	a.staticDirs = append(a.staticDirs, fsys)
}

// StaticDirs returns the registered static directories in order.
func (a *App) StaticDirs() []fs.FS { return append([]fs.FS(nil), a.staticDirs...) }

// NewPage creates a page context seeded with the global assets.
func (a *App) NewPage(name string, vars map[string]any) *PageContext {
	if vars == nil {
		vars = map[string]any{}
	}
	return &PageContext{
		Name:     name,
		Template: "layout.html",
		Vars:     vars,
		CSS:      a.css.Clone(),
		JS:       a.js.Clone(),
	}
}
