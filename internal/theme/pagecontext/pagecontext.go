// Package pagecontext prepares each page's render context for the theme
// layout: template sections become lists of component files, empty
// components are dropped and page metadata is exposed to the theme script.
package pagecontext

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/pydatatheme/internal/assets"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
)

// ThemeCSS is linked directly by the layout and so dropped from the page's
// stylesheet list.
const ThemeCSS = "_static/styles/pydata-sphinx-theme.css"

// Sections are the context variables that hold component template lists.
var Sections = []string{
	"theme_navbar_start",
	"theme_navbar_center",
	"theme_navbar_persistent",
	"theme_navbar_end",
	"theme_article_header_start",
	"theme_article_header_end",
	"theme_article_footer_items",
	"theme_content_footer_items",
	"theme_footer_start",
	"theme_footer_center",
	"theme_footer_end",
	"theme_secondary_sidebar_items",
	"theme_primary_sidebar_end",
	"sidebars",
}

// Components that are never empty and expensive to render twice.
var skipEmptyCheck = []string{"sidebar-nav-bs.html", "navbar-nav.html"}

// SplitSection turns a section value into template file names. Strings are
// split on commas; names without an extension get ".html".
func SplitSection(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = []string{fmt.Sprint(t)}
	}

	out := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if path.Ext(name) == "" {
			name += ".html"
		}
		out = append(out, name)
	}
	return out
}

// Update sets theme_version, rewrites the section variables of page and
// drops components that render to nothing. It then removes the duplicate
// theme stylesheet and adds favicon links and the DOCUMENTATION_OPTIONS script.
func Update(app *plugin.App, page *plugin.PageContext, themeVersion string) error {
	page.Vars["theme_version"] = themeVersion

	for _, section := range Sections {
		names := SplitSection(page.Vars[section])
		kept := names[:0]
		for _, name := range names {
			empty, err := rendersEmpty(app, page, name)
			if err != nil {
				return err
			}
			if empty {
				app.Logger.Debug("Dropping empty component",
					logfields.Section(section), logfields.Template(name), logfields.Page(page.Name))
				continue
			}
			kept = append(kept, name)
		}
		page.Vars[section] = kept
	}

	page.CSS.Remove(ThemeCSS)

	if err := addFavicons(page); err != nil {
		return err
	}

	page.AddJSFile(assets.Asset{Body: fmt.Sprintf("DOCUMENTATION_OPTIONS.pagename = '%s';", options.JSString(page.Name))})
	if sw, ok := page.Vars["theme_switcher"].(map[string]any); ok {
		page.AddJSFile(assets.Asset{Body: switcherScript(sw, themeVersion,
			options.Bool(page.Vars, "theme_show_version_warning_banner", false))})
	}
	return nil
}

func rendersEmpty(app *plugin.App, page *plugin.PageContext, name string) (bool, error) {
	for _, skip := range skipEmptyCheck {
		if strings.HasSuffix(name, skip) {
			return false, nil
		}
	}
	out, err := app.Templates.Render(name, page.Vars)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return false, ce.WithContext(logfields.KeyPage, page.Name)
		}
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

func addFavicons(page *plugin.PageContext) error {
	list, ok := page.Vars["theme_favicons"].([]any)
	if !ok {
		return nil
	}
	for i, item := range list {
		fav, ok := item.(map[string]any)
		if !ok || options.String(fav, "href") == "" {
			return errors.OptionError("favicons", "`favicons[%d]` must be a dictionary with an \"href\" key.", i).Build()
		}
		href := options.String(fav, "href")
		attrs := map[string]string{
			"rel":   stringOr(fav, "rel", "icon"),
			"sizes": stringOr(fav, "sizes", "16x16"),
			"type":  "image/" + strings.TrimPrefix(path.Ext(href), "."),
		}
		if _, ok := fav["color"]; ok {
			attrs["color"] = options.String(fav, "color")
		}
		page.AddCSSFile(assets.Asset{Filename: href, Attributes: attrs})
	}
	return nil
}

func switcherScript(sw map[string]any, themeVersion string, showBanner bool) string {
	return fmt.Sprintf(`
DOCUMENTATION_OPTIONS.theme_version = '%s';
DOCUMENTATION_OPTIONS.theme_switcher_json_url = '%s';
DOCUMENTATION_OPTIONS.theme_switcher_version_match = '%s';
DOCUMENTATION_OPTIONS.show_version_warning_banner = %t;
`,
		options.JSString(themeVersion),
		options.JSString(options.String(sw, "json_url")),
		options.JSString(options.String(sw, "version_match")),
		showBanner)
}

func stringOr(m map[string]any, key, def string) string {
	if s := options.String(m, key); s != "" {
		return s
	}
	return def
}
