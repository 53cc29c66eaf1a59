package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/site"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatMTS, f)

	f, err = ParseFormat("YML")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml")
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRoundTrip(t *testing.T) {
	for _, name := range site.SnapshotNames() {
		cfg, err := site.Snapshot(name)
		require.NoError(t, err)
		for _, format := range []Format{FormatJSON, FormatYAML} {
			t.Run(name+"/"+string(format), func(t *testing.T) {
				data, err := Render(cfg, format)
				require.NoError(t, err)
				back, err := Decode(data, format)
				require.NoError(t, err)
				require.Equal(t, cfg, back)

				again, err := Render(back, format)
				require.NoError(t, err)
				require.Equal(t, string(data), string(again))
			})
		}
	}
}

func TestRenderJSONKeys(t *testing.T) {
	data, err := Render(site.V2(), FormatJSON)
	require.NoError(t, err)
	out := string(data)
	for _, key := range []string{`"themeConfig"`, `"socialLinks"`, `"editLink"`, `"cleanUrls": true`, `"level": "deep"`, `"sidebarMenuLabel"`} {
		require.Contains(t, out, key)
	}
	require.Contains(t, out, `"link",`)
	require.NotContains(t, out, `<`)
}

func TestRenderEntryV1(t *testing.T) {
	data, err := Render(site.V1(), FormatMTS)
	require.NoError(t, err)
	out := string(data)
	require.True(t, strings.HasPrefix(out, "// Generated by booksite."))
	require.Contains(t, out, "import { defineConfig } from 'vitepress'\n\nexport default defineConfig({\n")
	require.True(t, strings.HasSuffix(out, "})\n"))
	require.NotContains(t, out, `"vite"`)
}

func TestRenderEntryV2Plugins(t *testing.T) {
	data, err := Render(site.V2(), FormatMTS)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, "import { defineConfig } from 'vitepress'\nimport llmstxt from 'vitepress-plugin-llms'\n\nexport default")
	require.Contains(t, out, "  \"vite\": {\n    \"plugins\": [\n      llmstxt({\n")
	require.Contains(t, out, "\"generateLLMsFullTxt\": true")
	require.Equal(t, 1, strings.Count(out, "\"vite\""))
	require.True(t, strings.HasSuffix(out, "    ]\n  }\n})\n"))
}

func TestRenderEntryRejectsBadPlugin(t *testing.T) {
	cfg := site.V2()
	cfg.Vite.Plugins[0].Import = "llms-txt"
	_, err := Render(cfg, FormatMTS)
	require.True(t, errors.HasCategory(err, errors.CategoryEmit))

	cfg = site.V2()
	cfg.Vite.Plugins[0].From = "x'; evil()"
	_, err = Render(cfg, FormatMTS)
	require.Error(t, err)
}

func TestPluginWithoutOptions(t *testing.T) {
	cfg := site.V1()
	cfg.Vite = &site.ViteConfig{Plugins: []site.PluginRef{{Import: "markdownItFoo", From: "markdown-it-foo"}}}
	data, err := Render(cfg, FormatMTS)
	require.NoError(t, err)
	require.Contains(t, string(data), "      markdownItFoo()\n")
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode([]byte(`{"title": "x", "bogus": 1}`), FormatJSON)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = Decode([]byte("title: x\nbogus: 1\n"), FormatYAML)
	require.Error(t, err)

	_, err = Decode([]byte("export default {}"), FormatMTS)
	require.Error(t, err)

	_, err = Decode([]byte(`{"themeConfig": {"outline": {"level": [1, 2, 3]}}}`), FormatJSON)
	require.Error(t, err)
	_, err = Decode([]byte("themeConfig:\n  outline:\n    level: [1, 2, 3]\n"), FormatYAML)
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	path, changed, err := Write(site.V2(), root, FormatMTS)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, filepath.Join(root, ".vitepress", "config.mts"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	mod := info.ModTime()

	_, changed, err = Write(site.V2(), root, FormatMTS)
	require.NoError(t, err)
	require.False(t, changed)
	info, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, mod, info.ModTime())

	_, changed, err = Write(site.V1(), root, FormatMTS)
	require.NoError(t, err)
	require.True(t, changed)

	entries, err := os.ReadDir(filepath.Join(root, ".vitepress"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
