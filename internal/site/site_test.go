package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

func TestSnapshotRegistry(t *testing.T) {
	require.Equal(t, []string{"v1", "v2"}, SnapshotNames())

	latest, err := Snapshot("")
	require.NoError(t, err)
	require.Equal(t, V2(), latest)

	v1, err := Snapshot("v1")
	require.NoError(t, err)
	require.Equal(t, V1(), v1)

	_, err = Snapshot("v3")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestSnapshotsShareSiteMetadata(t *testing.T) {
	for _, name := range SnapshotNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Snapshot(name)
			require.NoError(t, err)
			require.Equal(t, "/python-tutorial/", cfg.Base)
			require.Equal(t, "zh-CN", cfg.Lang)
			require.NotEmpty(t, cfg.ThemeConfig.Sidebar)
			require.Equal(t, "local", cfg.ThemeConfig.Search.Provider)
			require.Contains(t, cfg.ThemeConfig.EditLink.Pattern, ":path")
			require.Equal(t, "/python-tutorial/logo.svg", cfg.Head[0].Attrs["href"])
		})
	}
}

func TestV2AddsPluginHook(t *testing.T) {
	require.Nil(t, V1().Vite)
	v2 := V2()
	require.NotNil(t, v2.Vite)
	require.Len(t, v2.Vite.Plugins, 1)
	require.Equal(t, "vitepress-plugin-llms", v2.Vite.Plugins[0].From)
	require.True(t, v2.ThemeConfig.Outline.Level.Deep)
}

func TestSidebarTargetsKeepOrder(t *testing.T) {
	targets := V1().SidebarTargets()
	require.Equal(t, "/guide/introduction", targets[0])
	require.Equal(t, "/guide/installation", targets[1])
	require.Equal(t, "/oop/dataclasses", targets[len(targets)-1])

	cfg := SiteConfig{ThemeConfig: ThemeConfig{Sidebar: []SidebarGroup{
		group("a", SidebarItem{Text: "section", Items: []SidebarItem{page("x", "/x"), page("y", "/y")}}, page("z", "/z")),
	}}}
	entries := cfg.SidebarEntries()
	require.Len(t, entries, 3)
	require.Equal(t, SidebarEntry{Group: "a", Text: "x", Link: "/x"}, entries[0])
	require.Equal(t, []string{"/x", "/y", "/z"}, cfg.SidebarTargets())
}

func TestCloneIsDeep(t *testing.T) {
	orig := V2()
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.Head[0].Attrs["href"] = "/elsewhere.svg"
	cp.ThemeConfig.Sidebar[0].Items[0].Link = "/changed"
	*cp.ThemeConfig.Sidebar[3].Collapsed = false
	cp.ThemeConfig.Nav[3].Items[0].Text = "changed"
	cp.Vite.Plugins[0].Options["generateLLMsFullTxt"] = false
	cp.ThemeConfig.Search.Options.Translations.Button.ButtonText = "search"

	require.Equal(t, V2(), orig)
}

func TestAssetPath(t *testing.T) {
	cfg := SiteConfig{Base: "/python-tutorial/"}
	require.Equal(t, "/python-tutorial/logo.svg", cfg.AssetPath("/logo.svg"))
	require.Equal(t, "/python-tutorial/img/a.png", cfg.AssetPath("img/a.png"))

	cfg.Base = "/docs"
	require.Equal(t, "/docs/logo.svg", cfg.AssetPath("logo.svg"))
}

func TestIsExternal(t *testing.T) {
	require.True(t, IsExternal("https://docs.python.org/"))
	require.True(t, IsExternal("http://example.com"))
	require.True(t, IsExternal("//cdn.example.com/x.js"))
	require.False(t, IsExternal("/guide/introduction"))
	require.False(t, IsExternal("guide/introduction"))
}

func TestOutlineLevelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want OutlineLevel
		out  string
	}{
		{"pair", `[2,3]`, Levels(2, 3), `[2,3]`},
		{"single", `2`, Levels(2, 2), `[2,2]`},
		{"deep", `"deep"`, DeepOutline(), `"deep"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got OutlineLevel
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			require.Equal(t, tt.want, got)
			data, err := json.Marshal(got)
			require.NoError(t, err)
			require.JSONEq(t, tt.out, string(data))
		})
	}

	for _, in := range []string{`"shallow"`, `[1,2,3]`, `[4]`, `[]`} {
		var bad OutlineLevel
		require.Error(t, json.Unmarshal([]byte(in), &bad), in)
	}
}

func TestOutlineLevelYAML(t *testing.T) {
	var doc struct {
		Level OutlineLevel `yaml:"level"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("level: [2, 4]\n"), &doc))
	require.Equal(t, Levels(2, 4), doc.Level)

	require.NoError(t, yaml.Unmarshal([]byte("level: deep\n"), &doc))
	require.True(t, doc.Level.Deep)

	require.NoError(t, yaml.Unmarshal([]byte("level: 3\n"), &doc))
	require.Equal(t, Levels(3, 3), doc.Level)

	require.Error(t, yaml.Unmarshal([]byte("level: [1, 2, 3]\n"), &doc))
}

func TestHeadTagTupleForm(t *testing.T) {
	tag := Link(map[string]string{"rel": "icon", "href": "/python-tutorial/logo.svg"})
	data, err := json.Marshal(tag)
	require.NoError(t, err)
	require.JSONEq(t, `["link",{"rel":"icon","href":"/python-tutorial/logo.svg"}]`, string(data))

	var back HeadTag
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, tag, back)

	script := HeadTag{Tag: "script", Attrs: map[string]string{}, Content: "window.x = 1"}
	data, err = json.Marshal(script)
	require.NoError(t, err)
	require.JSONEq(t, `["script",{},"window.x = 1"]`, string(data))

	require.Error(t, json.Unmarshal([]byte(`["link"]`), &back))

	y, err := yaml.Marshal(tag)
	require.NoError(t, err)
	var fromYAML HeadTag
	require.NoError(t, yaml.Unmarshal(y, &fromYAML))
	require.Equal(t, tag, fromYAML)
}
