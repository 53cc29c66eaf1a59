// Package markdown extracts the structural facts booksite needs from a
// chapter body: its title and its heading outline. It does not render.
package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one ATX or setext heading in document order.
type Heading struct {
	Level  int
	Text   string
	Anchor string // explicit {#id} suffix, empty when absent
}

// customAnchor matches the generator's explicit heading id syntax: `## Title {#id}`.
var customAnchor = regexp.MustCompile(`\s*\{#([^}\s]+)\}\s*$`)

// Headings parses body (frontmatter already removed) and lists its headings.
func Headings(body []byte) []Heading {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		raw := strings.TrimSpace(plainText(h, body))
		heading := Heading{Level: h.Level, Text: raw}
		if m := customAnchor.FindStringSubmatch(raw); m != nil {
			heading.Anchor = m[1]
			heading.Text = strings.TrimSpace(customAnchor.ReplaceAllString(raw, ""))
		}
		out = append(out, heading)
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// Title returns the text of the first level-1 heading, or "".
func Title(body []byte) string {
	for _, h := range Headings(body) {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

// Filter keeps headings whose level is within [minLevel, maxLevel].
func Filter(headings []Heading, minLevel, maxLevel int) []Heading {
	var out []Heading
	for _, h := range headings {
		if h.Level >= minLevel && h.Level <= maxLevel {
			out = append(out, h)
		}
	}
	return out
}

func plainText(n gmast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, src))
		}
	}
	return b.String()
}
