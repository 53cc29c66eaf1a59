package site

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

const outlineDeep = "deep"

// OutlineLevel is the heading range shown in the outline: a [Min, Max] pair
// or the keyword "deep" (levels 2 through 6).
type OutlineLevel struct {
	Min  int
	Max  int
	Deep bool
}

// Levels returns the outline range [minLevel, maxLevel].
func Levels(minLevel, maxLevel int) OutlineLevel {
	return OutlineLevel{Min: minLevel, Max: maxLevel}
}

// DeepOutline shows every heading from h2 down.
func DeepOutline() OutlineLevel { return OutlineLevel{Deep: true} }

// Range returns the effective bounds, expanding "deep" to 2..6.
func (l OutlineLevel) Range() (int, int) {
	if l.Deep {
		return 2, 6
	}
	return l.Min, l.Max
}

func (l OutlineLevel) String() string {
	if l.Deep {
		return outlineDeep
	}
	return fmt.Sprintf("[%d,%d]", l.Min, l.Max)
}

func (l OutlineLevel) MarshalJSON() ([]byte, error) {
	if l.Deep {
		return json.Marshal(outlineDeep)
	}
	return json.Marshal([2]int{l.Min, l.Max})
}

func (l *OutlineLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != outlineDeep {
			return fmt.Errorf("outline level: unknown keyword %q", s)
		}
		*l = DeepOutline()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Levels(n, n)
		return nil
	}
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("outline level: expected number, [min,max] or %q: %w", outlineDeep, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("outline level: expected two levels, got %d", len(pair))
	}
	*l = Levels(pair[0], pair[1])
	return nil
}

func (l OutlineLevel) MarshalYAML() (any, error) {
	if l.Deep {
		return outlineDeep, nil
	}
	return []int{l.Min, l.Max}, nil
}

func (l *OutlineLevel) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == outlineDeep {
			*l = DeepOutline()
			return nil
		}
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("outline level: line %d: %q is not a level", node.Line, node.Value)
		}
		*l = Levels(n, n)
		return nil
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("outline level: line %d: expected two levels, got %d", node.Line, len(pair))
		}
		*l = Levels(pair[0], pair[1])
		return nil
	default:
		return fmt.Errorf("outline level: line %d: unsupported node", node.Line)
	}
}

// Link builds a <link> head tag.
func Link(attrs map[string]string) HeadTag { return HeadTag{Tag: "link", Attrs: attrs} }

// Meta builds a <meta> head tag.
func Meta(attrs map[string]string) HeadTag { return HeadTag{Tag: "meta", Attrs: attrs} }

func (h HeadTag) tuple() []any {
	attrs := h.Attrs
	if attrs == nil {
		attrs = map[string]string{}
	}
	if h.Content != "" {
		return []any{h.Tag, attrs, h.Content}
	}
	return []any{h.Tag, attrs}
}

func (h HeadTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.tuple())
}

func (h *HeadTag) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("head tag: %w", err)
	}
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("head tag: expected [tag, attrs] or [tag, attrs, content], got %d elements", len(parts))
	}
	var out HeadTag
	if err := json.Unmarshal(parts[0], &out.Tag); err != nil {
		return fmt.Errorf("head tag name: %w", err)
	}
	if err := json.Unmarshal(parts[1], &out.Attrs); err != nil {
		return fmt.Errorf("head tag %s attrs: %w", out.Tag, err)
	}
	if len(parts) == 3 {
		if err := json.Unmarshal(parts[2], &out.Content); err != nil {
			return fmt.Errorf("head tag %s content: %w", out.Tag, err)
		}
	}
	*h = out
	return nil
}

func (h HeadTag) MarshalYAML() (any, error) {
	return h.tuple(), nil
}

func (h *HeadTag) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) < 2 || len(node.Content) > 3 {
		return fmt.Errorf("head tag: line %d: expected [tag, attrs] or [tag, attrs, content]", node.Line)
	}
	var out HeadTag
	if err := node.Content[0].Decode(&out.Tag); err != nil {
		return err
	}
	if err := node.Content[1].Decode(&out.Attrs); err != nil {
		return err
	}
	if len(node.Content) == 3 {
		if err := node.Content[2].Decode(&out.Content); err != nil {
			return err
		}
	}
	*h = out
	return nil
}
