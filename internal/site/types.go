package site

import "strings"

// SiteConfig is the root configuration value read by the site generator.
// JSON keys follow the generator's config schema so an emitted value can be
// handed to defineConfig unchanged.
type SiteConfig struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Base        string          `json:"base" yaml:"base"`
	Lang        string          `json:"lang" yaml:"lang"`
	Head        []HeadTag       `json:"head,omitempty" yaml:"head,omitempty"`
	LastUpdated bool            `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	CleanURLs   bool            `json:"cleanUrls,omitempty" yaml:"cleanUrls,omitempty"`
	Markdown    *MarkdownConfig `json:"markdown,omitempty" yaml:"markdown,omitempty"`
	ThemeConfig ThemeConfig     `json:"themeConfig" yaml:"themeConfig"`
	Vite        *ViteConfig     `json:"vite,omitempty" yaml:"vite,omitempty"`
}

// HeadTag is one extra element injected into every page's <head>.
// It encodes as the generator's tuple form: [tag, attrs] or [tag, attrs, content].
type HeadTag struct {
	Tag     string
	Attrs   map[string]string
	Content string
}

// MarkdownConfig holds the renderer switches the site turns on.
type MarkdownConfig struct {
	LineNumbers bool `json:"lineNumbers,omitempty" yaml:"lineNumbers,omitempty"`
}

// ViteConfig carries build-time plugin hooks.
type ViteConfig struct {
	Plugins []PluginRef `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// PluginRef names a plugin factory by its default import and module.
// In the generated entry point it becomes `import <Import> from '<From>'`
// and a call `<Import>(<Options>)` under vite.plugins.
type PluginRef struct {
	Import  string         `json:"import" yaml:"import"`
	From    string         `json:"from" yaml:"from"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// ThemeConfig is the default theme's configuration block.
type ThemeConfig struct {
	Nav                 []NavItem          `json:"nav" yaml:"nav"`
	Sidebar             []SidebarGroup     `json:"sidebar" yaml:"sidebar"`
	SocialLinks         []SocialLink       `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty"`
	Footer              Footer             `json:"footer" yaml:"footer"`
	Search              SearchConfig       `json:"search" yaml:"search"`
	Outline             OutlineConfig      `json:"outline" yaml:"outline"`
	EditLink            EditLink           `json:"editLink" yaml:"editLink"`
	LastUpdated         LastUpdatedOptions `json:"lastUpdated" yaml:"lastUpdated"`
	DocFooter           DocFooter          `json:"docFooter" yaml:"docFooter"`
	SidebarMenuLabel    string             `json:"sidebarMenuLabel,omitempty" yaml:"sidebarMenuLabel,omitempty"`
	ReturnToTopLabel    string             `json:"returnToTopLabel,omitempty" yaml:"returnToTopLabel,omitempty"`
	DarkModeSwitchLabel string             `json:"darkModeSwitchLabel,omitempty" yaml:"darkModeSwitchLabel,omitempty"`
}

// NavItem is an entry of the top navigation bar. Items turns it into a dropdown.
type NavItem struct {
	Text  string    `json:"text" yaml:"text"`
	Link  string    `json:"link,omitempty" yaml:"link,omitempty"`
	Items []NavItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// SidebarGroup is a titled section of the sidebar.
type SidebarGroup struct {
	Text      string        `json:"text" yaml:"text"`
	Collapsed *bool         `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Items     []SidebarItem `json:"items" yaml:"items"`
}

// SidebarItem links one content page. Items nests a sub-list under it.
type SidebarItem struct {
	Text      string        `json:"text" yaml:"text"`
	Link      string        `json:"link,omitempty" yaml:"link,omitempty"`
	Collapsed *bool         `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Items     []SidebarItem `json:"items,omitempty" yaml:"items,omitempty"`
}

type SocialLink struct {
	Icon string `json:"icon" yaml:"icon"`
	Link string `json:"link" yaml:"link"`
}

type Footer struct {
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Copyright string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// SearchConfig selects the search provider. Only the built-in "local"
// provider carries typed options.
type SearchConfig struct {
	Provider string              `json:"provider" yaml:"provider"`
	Options  *LocalSearchOptions `json:"options,omitempty" yaml:"options,omitempty"`
}

type LocalSearchOptions struct {
	Translations *SearchTranslations `json:"translations,omitempty" yaml:"translations,omitempty"`
}

type SearchTranslations struct {
	Button SearchButtonText `json:"button" yaml:"button"`
	Modal  SearchModalText  `json:"modal" yaml:"modal"`
}

type SearchButtonText struct {
	ButtonText      string `json:"buttonText" yaml:"buttonText"`
	ButtonAriaLabel string `json:"buttonAriaLabel" yaml:"buttonAriaLabel"`
}

type SearchModalText struct {
	NoResultsText    string           `json:"noResultsText" yaml:"noResultsText"`
	ResetButtonTitle string           `json:"resetButtonTitle" yaml:"resetButtonTitle"`
	Footer           SearchFooterText `json:"footer" yaml:"footer"`
}

type SearchFooterText struct {
	SelectText   string `json:"selectText" yaml:"selectText"`
	NavigateText string `json:"navigateText" yaml:"navigateText"`
	CloseText    string `json:"closeText" yaml:"closeText"`
}

// OutlineConfig controls the in-page table of contents.
type OutlineConfig struct {
	Level OutlineLevel `json:"level" yaml:"level"`
	Label string       `json:"label,omitempty" yaml:"label,omitempty"`
}

// EditLink builds the "edit this page" URL. Pattern must contain :path,
// which the generator replaces with the page's source path.
type EditLink struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
}

type LastUpdatedOptions struct {
	Text          string            `json:"text,omitempty" yaml:"text,omitempty"`
	FormatOptions *DateFormatOption `json:"formatOptions,omitempty" yaml:"formatOptions,omitempty"`
}

// DateFormatOption mirrors the Intl.DateTimeFormat style options.
type DateFormatOption struct {
	DateStyle string `json:"dateStyle,omitempty" yaml:"dateStyle,omitempty"`
	TimeStyle string `json:"timeStyle,omitempty" yaml:"timeStyle,omitempty"`
}

type DocFooter struct {
	Prev string `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next string `json:"next,omitempty" yaml:"next,omitempty"`
}

// SidebarEntry is a flattened sidebar item with the label of its group.
type SidebarEntry struct {
	Group string
	Text  string
	Link  string
}

// SidebarEntries flattens the sidebar in render order, descending into
// nested items. Items without a link (pure section headers) are skipped.
func (c SiteConfig) SidebarEntries() []SidebarEntry {
	var out []SidebarEntry
	var walk func(group string, items []SidebarItem)
	walk = func(group string, items []SidebarItem) {
		for _, it := range items {
			if it.Link != "" {
				out = append(out, SidebarEntry{Group: group, Text: it.Text, Link: it.Link})
			}
			walk(group, it.Items)
		}
	}
	for _, g := range c.ThemeConfig.Sidebar {
		walk(g.Text, g.Items)
	}
	return out
}

// SidebarTargets returns every sidebar link in render order.
func (c SiteConfig) SidebarTargets() []string {
	entries := c.SidebarEntries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Link)
	}
	return out
}

// AssetPath prefixes an absolute asset path with Base.
func (c SiteConfig) AssetPath(p string) string {
	base := c.Base
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(p, "/")
}

// IsExternal reports whether link points off-site.
func IsExternal(link string) bool {
	return strings.Contains(link, "://") || strings.HasPrefix(link, "//") || strings.HasPrefix(link, "mailto:")
}
