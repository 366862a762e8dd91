// Package logo resolves the navbar logo images for each page and copies
// local logo files into the build output.
package logo

import (
	"fmt"
	"io"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
)

var kinds = []string{"light", "dark"}

// IsURL reports whether p has a scheme and host.
func IsURL(p string) bool {
	u, err := url.Parse(p)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// SetupPath fills theme_logo.image_relative with the href of the light and
// dark logo for page. Local images resolve to _static/<basename> under the
// page's content root; html_logo is the fallback for an unset kind.
func SetupPath(app *plugin.App, page *plugin.PageContext) {
	var logo map[string]any
	if m, ok := page.Vars["theme_logo"].(map[string]any); ok {
		logo = maps.Clone(m)
	} else {
		logo = map[string]any{}
	}
	root := page.GetString("content_root")

	relative := map[string]any{}
	for _, kind := range kinds {
		img := options.String(logo, "image_"+kind)
		switch {
		case img != "":
			relative[kind] = resolve(root, img)
		case app.Config.HTMLLogo != "":
			relative[kind] = resolve(root, app.Config.HTMLLogo)
		}
	}
	logo["image_relative"] = relative
	page.Vars["theme_logo"] = logo
}

func resolve(root, img string) string {
	if IsURL(img) {
		return img
	}
	return root + "_static/" + filepath.Base(img)
}

// CopyImages copies the configured local logo images from srcDir into
// outDir/_static. Files already present there are left alone and missing
// sources are reported through rep.
func CopyImages(opts map[string]any, srcDir, outDir string, rep *diag.Reporter) error {
	logo, _ := opts["logo"].(map[string]any)
	staticDir := filepath.Join(outDir, "_static")

	for _, kind := range kinds {
		img := options.String(logo, "image_"+kind)
		if img == "" || IsURL(img) {
			continue
		}
		dst := filepath.Join(staticDir, filepath.Base(img))
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if strings.HasSuffix(strings.ToLower(img), "_t") {
			return errors.OptionError("logo",
				"The %s logo path '%s' looks like a template; please provide a static logo image.", kind, img).
				Build()
		}
		src := img
		if !filepath.IsAbs(src) {
			src = filepath.Join(srcDir, img)
		}
		if _, err := os.Stat(src); err != nil {
			rep.Warn(diag.KindMissingAsset, fmt.Sprintf("Path to %s image logo does not exist: %s", kind, img),
				logfields.Path(src))
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create static directory").
			WithContext(logfields.KeyPath, filepath.Dir(dst)).Build()
	}
	in, err := os.Open(src) // #nosec G304 -- logo path comes from project config
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "open logo image").
			WithContext(logfields.KeyPath, src).Build()
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- destination is inside the output dir
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create logo image").
			WithContext(logfields.KeyPath, dst).Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "copy logo image").
			WithContext(logfields.KeyPath, dst).Build()
	}
	if err := out.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "close logo image").
			WithContext(logfields.KeyPath, dst).Build()
	}
	return nil
}
