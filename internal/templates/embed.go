package templates

import (
	"embed"
	"io/fs"
)

//go:embed theme
var themeFS embed.FS

// ThemeName is the name the theme registers under.
const ThemeName = "pydata_sphinx_theme"

// ThemeFS returns the theme's layout directory.
func ThemeFS() fs.FS {
	sub, _ := fs.Sub(themeFS, "theme")
	return sub
}

// ComponentsFS returns the directory holding the theme's components.
func ComponentsFS() fs.FS {
	sub, _ := fs.Sub(themeFS, "theme/components")
	return sub
}

// StaticFS returns the theme's static assets, copied to _static/ in the output.
func StaticFS() fs.FS {
	sub, _ := fs.Sub(themeFS, "theme/static")
	return sub
}
