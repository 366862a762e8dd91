package site

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// ErrUnclosedFrontmatter reports a document that opens a YAML block
// without closing it.
var ErrUnclosedFrontmatter = errors.New("frontmatter opening delimiter without closing delimiter")

// splitFrontmatter separates a leading `---` delimited YAML block from the
// Markdown body. Documents without one return a nil block.
func splitFrontmatter(content []byte) ([]byte, []byte, error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}
	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], nil
	}
	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return nil, nil, ErrUnclosedFrontmatter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], nil
}

func parseFrontmatter(block []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(block) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// fingerprint hashes a page's metadata and body. Metadata is serialized with
// sorted keys so that reordering fields does not change the result.
func fingerprint(meta map[string]any, body []byte) (string, error) {
	fields := make(map[string]any, len(meta))
	for k, v := range meta {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}
	var canonical string
	if len(fields) > 0 {
		node, err := yamlNode(fields)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			_ = enc.Close()
			return "", err
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
		canonical = string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	}
	return mdfp.CalculateFingerprintFromParts(canonical, string(body)), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(vv)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(vv, 'g', -1, 64)}, nil
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			val, err := yamlNode(vv[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
		}
		return n, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			n, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, fmt.Errorf("encode %T: %w", v, err)
		}
		return &n, nil
	}
}
