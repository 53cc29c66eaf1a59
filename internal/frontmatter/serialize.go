package frontmatter

import (
	"bytes"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Canonical renders fields as YAML with keys sorted at every depth, so equal
// maps always produce equal bytes. Empty input renders as an empty slice.
func Canonical(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sortedNode(fields)); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedNode(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range slices.Sorted(maps.Keys(vv)) {
			var val yaml.Node
			if err := val.Encode(sortedNode(vv[k])); err != nil {
				val = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
		}
		return n
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = sortedNode(item)
		}
		return out
	default:
		return v
	}
}
