package site

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

// LatestSnapshot names the snapshot used when none is requested.
const LatestSnapshot = "v2"

var snapshots = map[string]func() SiteConfig{
	"v1": V1,
	"v2": V2,
}

// Latest returns the name of the newest authored snapshot.
func Latest() string { return LatestSnapshot }

// SnapshotNames lists the authored snapshots in sorted order.
func SnapshotNames() []string {
	return slices.Sorted(maps.Keys(snapshots))
}

// Snapshot builds the named snapshot. An empty name selects LatestSnapshot.
func Snapshot(name string) (SiteConfig, error) {
	if name == "" {
		name = LatestSnapshot
	}
	build, ok := snapshots[name]
	if !ok {
		return SiteConfig{}, errors.NotFoundError("unknown configuration snapshot").
			WithContext("snapshot", name).
			WithContext("available", SnapshotNames()).
			Build()
	}
	return build(), nil
}

// Clone returns a deep copy of c.
func (c SiteConfig) Clone() SiteConfig {
	out := c
	if c.Head != nil {
		out.Head = make([]HeadTag, len(c.Head))
		for i, h := range c.Head {
			h.Attrs = maps.Clone(h.Attrs)
			out.Head[i] = h
		}
	}
	if c.Markdown != nil {
		md := *c.Markdown
		out.Markdown = &md
	}
	if c.Vite != nil {
		v := ViteConfig{Plugins: slices.Clone(c.Vite.Plugins)}
		for i := range v.Plugins {
			v.Plugins[i].Options = cloneAnyMap(v.Plugins[i].Options)
		}
		out.Vite = &v
	}
	out.ThemeConfig = c.ThemeConfig.clone()
	return out
}

func (tc ThemeConfig) clone() ThemeConfig {
	out := tc
	out.Nav = cloneNav(tc.Nav)
	out.SocialLinks = slices.Clone(tc.SocialLinks)
	if tc.Sidebar != nil {
		out.Sidebar = make([]SidebarGroup, len(tc.Sidebar))
		for i, g := range tc.Sidebar {
			g.Collapsed = cloneBool(g.Collapsed)
			g.Items = cloneItems(g.Items)
			out.Sidebar[i] = g
		}
	}
	if tc.Search.Options != nil {
		opts := *tc.Search.Options
		if opts.Translations != nil {
			tr := *opts.Translations
			opts.Translations = &tr
		}
		out.Search.Options = &opts
	}
	if tc.LastUpdated.FormatOptions != nil {
		fo := *tc.LastUpdated.FormatOptions
		out.LastUpdated.FormatOptions = &fo
	}
	return out
}

func cloneNav(items []NavItem) []NavItem {
	if items == nil {
		return nil
	}
	out := make([]NavItem, len(items))
	for i, it := range items {
		it.Items = cloneNav(it.Items)
		out[i] = it
	}
	return out
}

func cloneItems(items []SidebarItem) []SidebarItem {
	if items == nil {
		return nil
	}
	out := make([]SidebarItem, len(items))
	for i, it := range items {
		it.Collapsed = cloneBool(it.Collapsed)
		it.Items = cloneItems(it.Items)
		out[i] = it
	}
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case map[string]any:
			out[k] = cloneAnyMap(tv)
		case []any:
			out[k] = slices.Clone(tv)
		default:
			out[k] = v
		}
	}
	return out
}
