package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# 变量\n\n正文\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.False(t, doc.Had)
	require.Empty(t, doc.Frontmatter)
	require.Equal(t, input, doc.Body)
}

func TestParse_SplitsBlock(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: 变量\n---\n# 变量\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, []byte("title: 变量\n"), doc.Frontmatter)
	require.Equal(t, []byte("# 变量\n"), doc.Body)

	fields, err := doc.Fields()
	require.NoError(t, err)
	require.Equal(t, "变量", fields["title"])
}

func TestParse_Unclosed(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: x\n# body\n"))
	require.True(t, errors.Is(err, ErrUnclosed))
}

func TestParse_CRLFAndEmptyBlock(t *testing.T) {
	doc, err := Parse([]byte("---\r\nk: v\r\n---\r\n# T\r\n"))
	require.NoError(t, err)
	require.Equal(t, "\r\n", doc.Newline)
	require.Equal(t, []byte("k: v\r\n"), doc.Frontmatter)

	doc, err = Parse([]byte("---\n---\n# T\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	fields, err := doc.Fields()
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestBytes_RoundTrip(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\nkey: value\n---\n# Title\n",
		"---\n---\n# Title\n",
		"---\r\nkey: value\r\n---\r\n# Title\r\n",
	}
	for _, input := range cases {
		doc, err := Parse([]byte(input))
		require.NoError(t, err)
		require.Equal(t, input, string(doc.Bytes()))
	}
}

func TestWithBody_KeepsFrontmatter(t *testing.T) {
	doc, err := Parse([]byte("---\noutline: deep\n---\n# Old\n"))
	require.NoError(t, err)
	out := doc.WithBody([]byte("# New\n")).Bytes()
	require.Equal(t, "---\noutline: deep\n---\n# New\n", string(out))
}

func TestFields_InvalidYAML(t *testing.T) {
	doc := Document{Frontmatter: []byte(": not yaml"), Had: true}
	_, err := doc.Fields()
	require.Error(t, err)
}

func TestCanonical_SortsKeys(t *testing.T) {
	a, err := Canonical(map[string]any{"b": 1, "a": map[string]any{"zeta": true, "eta": "s"}})
	require.NoError(t, err)
	require.Equal(t, "a:\n  eta: s\n  zeta: true\nb: 1\n", string(a))

	empty, err := Canonical(nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}
