package config

import "maps"

// Clone returns a deep copy of c. A build normalizes its copy in place, so
// the loaded project can be built again.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Extensions = append([]string(nil), c.Extensions...)
	out.TemplatesPath = append([]string(nil), c.TemplatesPath...)
	out.HTMLStaticPath = append([]string(nil), c.HTMLStaticPath...)
	out.HTMLThemeOptions = cloneMap(c.HTMLThemeOptions)
	out.HTMLContext = cloneMap(c.HTMLContext)
	out.HTMLSidebars = cloneMap(c.HTMLSidebars)
	out.provided = maps.Clone(c.provided)
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
