package config

import "gopkg.in/yaml.v3"

// literalOptions lists html_theme_options mappings whose scalar values are
// kept as written. version_match is compared as text against manifest
// versions, so 1.10 must not become the float 1.1.
var literalOptions = []string{"switcher"}

// keepLiterals replaces non-string scalars under the literalOptions of
// opts with their source text. Nulls are left alone.
func keepLiterals(doc *yaml.Node, opts map[string]any) {
	root := mappingValue(doc, "html_theme_options")
	for _, name := range literalOptions {
		node := mappingValue(root, name)
		m, ok := opts[name].(map[string]any)
		if node == nil || node.Kind != yaml.MappingNode || !ok {
			continue
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if v.Kind != yaml.ScalarNode || v.ShortTag() == "!!str" || v.ShortTag() == "!!null" {
				continue
			}
			m[k.Value] = v.Value
		}
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
