package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "docs.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("project: Demo\n"))
	require.NoError(t, err)

	assert.Equal(t, "Demo", cfg.Project)
	assert.Equal(t, DefaultTheme, cfg.HTMLTheme)
	assert.Equal(t, ".", cfg.SourceDir)
	assert.Equal(t, filepath.Join("_build", "html"), cfg.OutputDir)
	assert.Equal(t, "en", cfg.Language)
	assert.NotNil(t, cfg.HTMLThemeOptions)
	assert.True(t, cfg.ProvidedByUser("project"))
	assert.False(t, cfg.ProvidedByUser("html_permalinks_icon"))
}

func TestParse_ThemeOptionsKeepRawShapes(t *testing.T) {
	cfg, err := Parse([]byte(`
html_theme_options:
  icon_links: "not a list"
  footer_start: copyright, sphinx-version
  switcher:
    json_url: _static/switcher.json
    version_match: "1.0"
html_permalinks_icon: "¶"
`))
	require.NoError(t, err)

	assert.Equal(t, "not a list", cfg.HTMLThemeOptions["icon_links"])
	sw, ok := cfg.HTMLThemeOptions["switcher"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1.0", sw["version_match"])
	assert.True(t, cfg.ProvidedByUser("html_permalinks_icon"))
}

func TestParse_LanguageNormalized(t *testing.T) {
	cfg, err := Parse([]byte("language: en-gb\n"))
	require.NoError(t, err)
	assert.Equal(t, "en-GB", cfg.Language)

	_, err = Parse([]byte("language: \"not a language tag!!\"\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_EnvExpansionAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PYDATA_TEST_GA=G-123\n"), 0o600))
	t.Setenv("PYDATA_TEST_PROJECT", "FromEnv")
	p := writeConfig(t, dir, `
project: ${PYDATA_TEST_PROJECT}
html_theme_options:
  analytics:
    google_analytics_id: ${PYDATA_TEST_GA}
`)
	t.Cleanup(func() { _ = os.Unsetenv("PYDATA_TEST_GA") })

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Project)
	analytics := cfg.HTMLThemeOptions["analytics"].(map[string]any)
	assert.Equal(t, "G-123", analytics["google_analytics_id"])

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, abs, cfg.BaseDir())
	assert.Equal(t, filepath.Join(abs, "_build", "html"), cfg.OutputPath())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestSnapshot_ChangesWithThemeOptions(t *testing.T) {
	a, err := Parse([]byte("html_theme_options:\n  navbar_align: left\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("html_theme_options:\n  navbar_align: right\n"))
	require.NoError(t, err)
	c, err := Parse([]byte("html_theme_options:\n  navbar_align: left\n"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, a.Snapshot(), c.Snapshot())
}

func TestHasExtension(t *testing.T) {
	cfg, err := Parse([]byte("extensions: [ablog, myst]\n"))
	require.NoError(t, err)
	assert.True(t, cfg.HasExtension("ablog"))
	assert.False(t, cfg.HasExtension("numpydoc"))
}

func TestClone_IsDeep(t *testing.T) {
	cfg, err := Parse([]byte("project: P\nhtml_theme_options:\n  icon_links:\n    - name: A\n  logo:\n    text: T\n"))
	require.NoError(t, err)

	c := cfg.Clone()
	c.HTMLThemeOptions["icon_links"] = append(c.HTMLThemeOptions["icon_links"].([]any), "x")
	c.HTMLThemeOptions["logo"].(map[string]any)["text"] = "changed"
	c.HTMLPermalinksIcon = "#"

	assert.Len(t, cfg.HTMLThemeOptions["icon_links"], 1)
	assert.Equal(t, "T", cfg.HTMLThemeOptions["logo"].(map[string]any)["text"])
	assert.Empty(t, cfg.HTMLPermalinksIcon)
	assert.True(t, c.ProvidedByUser("html_theme_options"))
}

func TestParse_SwitcherScalarsKeepSourceText(t *testing.T) {
	cfg, err := Parse([]byte(`
html_theme_options:
  navigation_depth: 3
  switcher:
    json_url: https://example.org/switcher.json
    version_match: 1.10
    other: ~
`))
	require.NoError(t, err)
	sw := cfg.HTMLThemeOptions["switcher"].(map[string]any)
	assert.Equal(t, "1.10", sw["version_match"])
	assert.Equal(t, "https://example.org/switcher.json", sw["json_url"])
	assert.Nil(t, sw["other"])
	assert.Equal(t, 3, cfg.HTMLThemeOptions["navigation_depth"])
}

func TestLoadEnvFiles_LogsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o750))

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	loadEnvFiles(dir)
	out := buf.String()
	assert.Contains(t, out, "Failed to load env file")
	assert.Contains(t, out, logfields.KeyPath+"="+filepath.Join(dir, ".env"))
	assert.Contains(t, out, logfields.KeyError+"=")
}
