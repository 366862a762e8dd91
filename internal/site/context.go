package site

import (
	"fmt"
	"html/template"
	"maps"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
)

// RootDoc is the page linked from the logo and breadcrumbs home icon.
const RootDoc = "index"

// DefaultSidebars is used for pages no html_sidebars pattern matches.
const DefaultSidebars = "sidebar-nav-bs"

func navLink(s *Source) map[string]any {
	return map[string]any{"title": s.Title, "url": s.URL()}
}

// Sidebars returns the html_sidebars entry matching page. Patterns use
// path.Match syntax and are tried in sorted order; an exact name beats a
// pattern. matched lists every wildcard pattern that matched page, so that
// callers can report ambiguity.
func Sidebars(htmlSidebars map[string]any, page string) (v any, matched []string) {
	if v, ok := htmlSidebars[page]; ok {
		return v, nil
	}
	v = DefaultSidebars
	for _, pattern := range slices.Sorted(maps.Keys(htmlSidebars)) {
		if ok, _ := path.Match(pattern, page); !ok {
			continue
		}
		if matched == nil {
			v = htmlSidebars[pattern]
		}
		matched = append(matched, pattern)
	}
	return v, matched
}

// topLevel reports whether s appears in the header navigation: root pages
// and the index page of each top-level directory.
func topLevel(s *Source) bool {
	switch s.Depth() {
	case 0:
		return true
	case 1:
		return path.Base(s.Name) == RootDoc
	}
	return false
}

// pageVars builds the template context of src. idx is its position in the
// navigation order.
func pageVars(app *plugin.App, srcs []*Source, idx int, byName map[string]*Source) map[string]any {
	cfg := app.Config
	src := srcs[idx]
	root := strings.Repeat("../", src.Depth())

	vars := map[string]any{}
	for k, v := range options.Merge(app.ThemeOptions) {
		vars["theme_"+k] = v
	}
	for k, v := range cfg.HTMLContext {
		vars[k] = v
	}

	nav := make([]map[string]any, 0, len(srcs))
	for _, s := range srcs {
		if !topLevel(s) {
			continue
		}
		link := navLink(s)
		link["current"] = s == src || (s.Depth() == 1 && strings.HasPrefix(src.Name, path.Dir(s.Name)+"/"))
		nav = append(nav, link)
	}

	var parents []map[string]any
	for _, p := range Parents(src, byName) {
		parents = append(parents, navLink(p))
	}

	vars["pagename"] = src.Name
	vars["title"] = src.Title
	vars["meta"] = src.Meta
	vars["body"] = template.HTML(src.Rendered.HTML)         // #nosec G203 -- rendered from project Markdown
	vars["toc"] = template.HTML(TOC(src.Rendered.Headings)) // #nosec G203 -- built from escaped heading text
	vars["nav_pages"] = nav
	vars["parents"] = parents
	vars["prev"] = nil
	vars["next"] = nil
	if idx > 0 {
		vars["prev"] = navLink(srcs[idx-1])
	}
	if idx < len(srcs)-1 {
		vars["next"] = navLink(srcs[idx+1])
	}
	sidebars, matched := Sidebars(cfg.HTMLSidebars, src.Name)
	if len(matched) > 1 {
		app.Reporter.Warn(diag.KindSidebarConflict,
			fmt.Sprintf("page %s matches %d patterns in html_sidebars: %s; using %q",
				src.Name, len(matched), strings.Join(matched, ", "), matched[0]),
			logfields.Page(src.Name))
	}
	vars["sidebars"] = sidebars
	vars["project"] = cfg.Project
	vars["author"] = cfg.Author
	vars["copyright"] = cfg.Copyright
	vars["release"] = cfg.Release
	vars["language"] = cfg.Language
	vars["content_root"] = root
	vars["root_doc"] = RootDoc
	vars["generator_version"] = app.Version
	vars["page_source_suffix"] = SourceSuffix
	vars["sourcename"] = src.Name + SourceSuffix + ".txt"
	vars["permalinks_icon"] = cfg.HTMLPermalinksIcon
	vars["fontawesome_included"] = cfg.FontawesomeIncluded
	return vars
}
