package options

// Defaults returns the theme's default option values. Template sections
// are comma-separated strings, as a theme.conf would carry them; the page
// hook splits them.
func Defaults() map[string]any {
	return map[string]any{
		"sidebarwidth":                 270,
		"sidebar_includehidden":        true,
		"use_edit_page_button":         false,
		"external_links":               []any{},
		"icon_links_label":             "Icon Links",
		"icon_links":                   []any{},
		"analytics":                    map[string]any{},
		"show_prev_next":               true,
		"search_bar_text":              "Search the docs ...",
		"navigation_with_keys":         false,
		"collapse_navigation":          false,
		"navigation_depth":             4,
		"show_nav_level":               1,
		"show_toc_level":               1,
		"navbar_align":                 "content",
		"header_links_before_dropdown": 5,
		"header_dropdown_text":         "More",
		"check_switcher":               true,
		"logo":                         map[string]any{},
		"favicons":                     []any{},
		"show_version_warning_banner":  false,
		"show_sourcelink":              true,
		"announcement":                 "",
		"default_mode":                 "auto",
		"toc_title":                    "On this page",

		"navbar_start":            "navbar-logo",
		"navbar_center":           "navbar-nav",
		"navbar_end":              "theme-switcher, navbar-icon-links",
		"navbar_persistent":       "search-button",
		"article_header_start":    "breadcrumbs",
		"article_header_end":      "",
		"article_footer_items":    "",
		"content_footer_items":    "",
		"primary_sidebar_end":     "sidebar-ethical-ads",
		"footer_start":            "copyright, generator-version",
		"footer_center":           "",
		"footer_end":              "theme-version",
		"secondary_sidebar_items": "page-toc, edit-this-page, sourcelink",
	}
}

// Merge overlays user on Defaults. Nil user values keep the default.
func Merge(user map[string]any) map[string]any {
	out := Defaults()
	for k, v := range user {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
