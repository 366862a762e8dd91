package theme

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/editlink"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/switcher"
)

// UpdateConfig normalizes app.ThemeOptions in place and applies the
// build-wide settings that depend on them. Only the user's options are
// touched; theme defaults are merged per page.
func (t *Theme) UpdateConfig(ctx context.Context, app *plugin.App) error {
	opts := app.ThemeOptions
	cfg := app.Config

	options.ApplyDeprecations(opts, app.Reporter)

	if err := options.ValidateIconLinks(opts); err != nil {
		return err
	}
	if err := options.ValidateExternalLinks(opts); err != nil {
		return err
	}

	if !cfg.ProvidedByUser("html_permalinks_icon") {
		cfg.HTMLPermalinksIcon = "#"
	}

	if options.Bool(opts, "check_switcher", true) {
		if _, err := CheckSwitcher(ctx, app); err != nil {
			return err
		}
	} else if _, err := switcher.FromOptions(opts); err != nil {
		return err
	}

	analytics, err := options.AnalyticsAssets(opts)
	if err != nil {
		return err
	}
	for _, a := range analytics {
		app.AddJSFile(a)
	}

	if cfg.HasExtension("ablog") && !cfg.ProvidedByUser("fontawesome_included") {
		cfg.FontawesomeIncluded = true
	}

	options.ApplyShortcuts(opts)

	if err := options.NormalizeLogo(opts); err != nil {
		return err
	}

	if options.Bool(opts, "use_edit_page_button", false) {
		applyGitDefaults(app)
	}
	return nil
}

// CheckSwitcher validates the switcher option and checks its manifest.
// It returns no entries when no switcher is configured or the manifest
// could not be read.
func CheckSwitcher(ctx context.Context, app *plugin.App) ([]switcher.Entry, error) {
	desc, err := switcher.FromOptions(app.ThemeOptions)
	if err != nil || desc == nil {
		return nil, err
	}
	entries, err := switcher.Check(ctx, desc, app.Config.SourcePath(), app.HTTPClient, app.Reporter, app.Recorder)
	if err != nil {
		return nil, err
	}
	if pref, ok := switcher.Preferred(entries); ok {
		app.Logger.Debug("Version switcher manifest loaded",
			logfields.URL(desc.JSONURL),
			logfields.Count(len(entries)),
			slog.String("preferred", pref.Version),
			slog.String("version_match", desc.VersionMatch))
	}
	return entries, nil
}

func applyGitDefaults(app *plugin.App) {
	origin, err := editlink.DiscoverOrigin(app.Config.SourcePath())
	if err != nil {
		app.Logger.Debug("No git origin for edit links", logfields.Error(err))
		return
	}
	origin.ApplyDefaults(app.Config.HTMLContext)
}
