package site

import (
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/pydatatheme/internal/config"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
)

// NewApp creates the build app for cfg: the project's template paths take
// precedence over every theme, html_theme is loaded from registry and so
// are the listed extensions the host knows. Unknown extensions are skipped.
func NewApp(cfg *config.Config, registry *plugin.Registry, opts ...plugin.Option) (*plugin.App, error) {
	if registry == nil {
		registry = plugin.DefaultRegistry()
	}
	app := plugin.NewApp(cfg, opts...)

	for i := len(cfg.TemplatesPath) - 1; i >= 0; i-- {
		dir := cfg.Resolve(cfg.TemplatesPath[i])
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("templates_path entry %q does not exist", cfg.TemplatesPath[i])).
				WithContext(logfields.KeyPath, dir).Build()
		}
		app.Templates.PrependSource(os.DirFS(dir))
	}

	theme, err := registry.GetLatest(cfg.HTMLTheme)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("unknown html_theme %q (available: %s)",
			cfg.HTMLTheme, strings.Join(registry.Names(plugin.PluginTypeTheme), ", "))).
			WithContext(logfields.KeyExtension, cfg.HTMLTheme).Build()
	}
	if err := app.Use(theme); err != nil {
		return nil, err
	}

	for _, name := range cfg.Extensions {
		ext, err := registry.GetLatest(name)
		if err != nil {
			app.Logger.Debug("Extension not provided by host, skipping", logfields.Extension(name))
			continue
		}
		if err := app.Use(ext); err != nil {
			return nil, err
		}
	}
	return app, nil
}
