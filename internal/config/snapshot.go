package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Snapshot computes a stable hash of the output-affecting configuration.
// Incremental builds discard recorded page fingerprints when it changes.
// Map keys are ordered by encoding/json; slices keep their order since
// template and extension order is significant.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	w("project", c.Project)
	w("copyright", c.Copyright)
	w("release", c.Release)
	w("language", c.Language)
	w("html_theme", c.HTMLTheme)
	w("html_logo", c.HTMLLogo)
	w("html_permalinks_icon", c.HTMLPermalinksIcon)
	w("extensions", strings.Join(c.Extensions, ","))
	w("templates_path", strings.Join(c.TemplatesPath, ","))
	for _, m := range []struct {
		name string
		v    map[string]any
	}{{"html_theme_options", c.HTMLThemeOptions}, {"html_context", c.HTMLContext}, {"html_sidebars", c.HTMLSidebars}} {
		b, err := json.Marshal(m.v)
		if err != nil {
			keys := make([]string, 0, len(m.v))
			for k := range m.v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			b = []byte(strings.Join(keys, ","))
		}
		w(m.name, string(b))
	}
	return hex.EncodeToString(h.Sum(nil))
}
