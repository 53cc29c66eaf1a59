// Package frontmatter splits and reassembles YAML frontmatter blocks
// (`---` delimited) at the top of Markdown chapters.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnclosed is returned when a document opens a frontmatter block but never closes it.
var ErrUnclosed = errors.New("frontmatter opened with --- but not closed")

// Document is a Markdown file split into its frontmatter and body.
// Newline records the file's line ending so Bytes can rebuild it exactly.
type Document struct {
	Frontmatter []byte
	Body        []byte
	Had         bool
	Newline     string
}

// Parse splits content. A document without a leading `---` line has Had=false
// and the whole input as Body.
func Parse(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return doc, nil
	}
	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		doc.Frontmatter = []byte{}
		doc.Body = rest[len(delim):]
		doc.Had = true
		return doc, nil
	}
	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return Document{}, ErrUnclosed
	}
	doc.Frontmatter = rest[:idx+len(nl)]
	doc.Body = rest[idx+len(closing):]
	doc.Had = true
	return doc, nil
}

// Bytes reassembles the document. Parse followed by Bytes is lossless.
func (d Document) Bytes() []byte {
	if !d.Had {
		return d.Body
	}
	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	var buf bytes.Buffer
	buf.Grow(len(d.Frontmatter) + len(d.Body) + 2*(3+len(nl)))
	buf.WriteString("---" + nl)
	buf.Write(d.Frontmatter)
	buf.WriteString("---" + nl)
	buf.Write(d.Body)
	return buf.Bytes()
}

// WithBody returns a copy of d carrying a new body and the same frontmatter.
func (d Document) WithBody(body []byte) Document {
	d.Body = body
	return d
}

// Fields decodes the frontmatter into a map. An empty block yields an empty map.
func (d Document) Fields() (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(d.Frontmatter)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(d.Frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
