// Package theme is the pydata_sphinx_theme extension: it registers the
// embedded layout and components, normalizes html_theme_options once per
// build and prepares every page's context for the layout.
package theme

import (
	"context"

	"git.home.luguber.info/inful/pydatatheme/internal/assets"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/templates"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/editlink"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/logo"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/pagecontext"
)

// Version is the theme version exposed to pages as theme_version.
const Version = "0.14.4"

func init() {
	if err := plugin.Register(New()); err != nil {
		panic(err)
	}
}

// Theme implements plugin.Extension.
type Theme struct{}

// New creates the theme extension.
func New() *Theme { return &Theme{} }

// Metadata implements plugin.Extension.
func (t *Theme) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:         templates.ThemeName,
		Version:      Version,
		Type:         plugin.PluginTypeTheme,
		Description:  "Bootstrap-based documentation theme",
		ParallelSafe: true,
	}
}

// Setup implements plugin.Extension.
func (t *Theme) Setup(app *plugin.App) error {
	app.AddHTMLTheme(templates.ThemeName, templates.ThemeFS())
	app.AddTemplatesPath(templates.ComponentsFS())
	app.AddStaticDir(templates.StaticFS())
	app.AddCSSFile(assets.Asset{Filename: pagecontext.ThemeCSS})

	app.ConnectBuilderInited(templates.ThemeName, t.UpdateConfig)
	app.ConnectPageContext(templates.ThemeName, func(_ context.Context, _ *plugin.App, page *plugin.PageContext) error {
		return editlink.Setup(page)
	})
	app.ConnectPageContext(templates.ThemeName, func(_ context.Context, app *plugin.App, page *plugin.PageContext) error {
		return pagecontext.Update(app, page, Version)
	})
	app.ConnectPageContext(templates.ThemeName, func(_ context.Context, app *plugin.App, page *plugin.PageContext) error {
		logo.SetupPath(app, page)
		return nil
	})
	app.ConnectBuildFinished(templates.ThemeName, func(_ context.Context, app *plugin.App, _ error) error {
		return logo.CopyImages(app.ThemeOptions, app.Config.SourcePath(), app.Config.OutputPath(), app.Reporter)
	})
	return nil
}
