package site

import (
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/logo"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
)

// DocumentationOptionsPath is the script that defines DOCUMENTATION_OPTIONS.
const DocumentationOptionsPath = "_static/scripts/documentation_options.js"

// copyStatic copies the registered static directories, then the project's
// html_static_path entries, into outDir/_static. Later files overwrite
// earlier ones.
func copyStatic(app *plugin.App, outDir string) error {
	dst := filepath.Join(outDir, "_static")
	for _, fsys := range app.StaticDirs() {
		if err := copyFS(fsys, dst); err != nil {
			return err
		}
	}
	for _, p := range app.Config.HTMLStaticPath {
		dir := app.Config.Resolve(p)
		if _, err := os.Stat(dir); err != nil {
			app.Reporter.Warn(diag.KindMissingAsset, "html_static_path entry does not exist: "+p, logfields.Path(dir))
			continue
		}
		if err := copyFS(os.DirFS(dir), dst); err != nil {
			return err
		}
	}
	return copyHTMLLogo(app, dst)
}

func copyHTMLLogo(app *plugin.App, staticDir string) error {
	src := app.Config.HTMLLogo
	if src == "" || logo.IsURL(src) {
		return nil
	}
	full := filepath.Join(app.Config.SourcePath(), src)
	if filepath.IsAbs(src) {
		full = src
	}
	data, err := os.ReadFile(full) // #nosec G304 -- html_logo from project config
	if err != nil {
		app.Reporter.Warn(diag.KindMissingAsset, "html_logo file does not exist: "+src, logfields.Path(full))
		return nil
	}
	return writeFile(filepath.Join(staticDir, filepath.Base(src)), data)
}

func copyFS(fsys fs.FS, dst string) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dst, filepath.FromSlash(p)), data)
	})
}

func writeFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create directory").
			WithContext(logfields.KeyPath, filepath.Dir(p)).Build()
	}
	if err := os.WriteFile(p, data, 0o644); err != nil { // #nosec G306 -- published site content
		return errors.WrapError(err, errors.CategoryFileSystem, "write file").
			WithContext(logfields.KeyPath, p).Build()
	}
	return nil
}

// documentationOptions renders the script the theme reads its runtime
// settings from. Per-page values are added by inline scripts.
func documentationOptions(app *plugin.App) ([]byte, error) {
	opts := map[string]any{
		"VERSION":                 app.Config.Release,
		"LANGUAGE":                app.Config.Language,
		"BUILDER":                 "html",
		"FILE_SUFFIX":             ".html",
		"LINK_SUFFIX":             ".html",
		"HAS_SOURCE":              true,
		"SOURCELINK_SUFFIX":       ".txt",
		"NAVIGATION_WITH_KEYS":    options.Bool(app.ThemeOptions, "navigation_with_keys", false),
		"SHOW_SEARCH_SUMMARY":     true,
		"ENABLE_SEARCH_SHORTCUTS": true,
	}
	data, err := json.MarshalIndent(opts, "", "    ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "encode documentation options").Build()
	}
	out := append([]byte("var DOCUMENTATION_OPTIONS = "), data...)
	return append(out, ";\n"...), nil
}

// copySource publishes the page source for the "Show Source" link.
func copySource(src *Source, outDir string) error {
	data, err := os.ReadFile(src.Path) // #nosec G304 -- discovered source file
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read source").
			WithContext(logfields.KeyPath, src.Path).Build()
	}
	return writeFile(filepath.Join(outDir, "_sources", filepath.FromSlash(src.Name+SourceSuffix+".txt")), data)
}
