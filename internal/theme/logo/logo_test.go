package logo

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pydatatheme/internal/config"
	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
)

func newApp(t *testing.T, yaml string) *plugin.App {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	require.NoError(t, err)
	return plugin.NewApp(cfg, plugin.WithLogger(slog.New(slog.DiscardHandler)))
}

func TestSetupPath(t *testing.T) {
	app := newApp(t, "project: T\nhtml_logo: img/fallback.svg\n")
	shared := map[string]any{"image_light": "img/light.png", "text": "Docs"}
	page := app.NewPage("guide/intro", map[string]any{
		"content_root": "../",
		"theme_logo":   shared,
	})

	SetupPath(app, page)

	logo := page.Vars["theme_logo"].(map[string]any)
	assert.Equal(t, map[string]any{
		"light": "../_static/light.png",
		"dark":  "../_static/fallback.svg",
	}, logo["image_relative"])
	assert.NotContains(t, shared, "image_relative", "options map shared between pages must not change")
}

func TestSetupPath_URLKeptAndNoFallback(t *testing.T) {
	app := newApp(t, "project: T\n")
	page := app.NewPage("index", map[string]any{
		"theme_logo": map[string]any{"image_dark": "https://cdn.example.org/dark.png"},
	})

	SetupPath(app, page)

	logo := page.Vars["theme_logo"].(map[string]any)
	assert.Equal(t, map[string]any{"dark": "https://cdn.example.org/dark.png"}, logo["image_relative"])
}

func TestCopyImages(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "img"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "img", "light.png"), []byte("png"), 0o600))

	rep := diag.NewReporter(slog.New(slog.DiscardHandler), nil)
	opts := map[string]any{"logo": map[string]any{
		"image_light": "img/light.png",
		"image_dark":  "img/missing.png",
	}}

	require.NoError(t, CopyImages(opts, src, out, rep))

	data, err := os.ReadFile(filepath.Join(out, "_static", "light.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, 1, rep.Count(diag.KindMissingAsset))
	assert.Contains(t, rep.Warnings()[0].Message, "Path to dark image logo does not exist: img/missing.png")
}

func TestCopyImages_SkipsURLsAndExisting(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "_static"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(out, "_static", "light.png"), []byte("bundled"), 0o600))

	rep := diag.NewReporter(slog.New(slog.DiscardHandler), nil)
	opts := map[string]any{"logo": map[string]any{
		"image_light": "light.png",
		"image_dark":  "https://cdn.example.org/dark.png",
	}}
	require.NoError(t, CopyImages(opts, t.TempDir(), out, rep))
	assert.Equal(t, 0, rep.Len())

	data, err := os.ReadFile(filepath.Join(out, "_static", "light.png"))
	require.NoError(t, err)
	assert.Equal(t, "bundled", string(data))
}

func TestCopyImages_RejectsTemplates(t *testing.T) {
	rep := diag.NewReporter(slog.New(slog.DiscardHandler), nil)
	opts := map[string]any{"logo": map[string]any{"image_light": "logo.svg_t"}}
	err := CopyImages(opts, t.TempDir(), t.TempDir(), rep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "looks like a template")
}
