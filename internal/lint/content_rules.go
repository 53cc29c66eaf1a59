package lint

import (
	"fmt"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// DefaultContentRules are the checks run when a content root is available.
func DefaultContentRules() []ContentRule {
	return []ContentRule{
		TargetExistsRule{},
		OrphanDocumentRule{},
		SidebarTitleRule{},
	}
}

// TargetExistsRule requires every internal sidebar and nav target to resolve to a page.
type TargetExistsRule struct{}

func (TargetExistsRule) Name() string { return "target-exists" }

func (r TargetExistsRule) CheckContent(cfg site.SiteConfig, inv *content.Inventory) []Issue {
	var issues []Issue
	check := func(path, link string) {
		if link == "" || site.IsExternal(link) || inv.Has(link) {
			return
		}
		issues = append(issues, Issue{
			Path:     path + ".link",
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("target %q has no page", link),
			Fix:      fmt.Sprintf("create %s under the content root", content.DocumentPath(link)),
		})
	}
	walkNav(cfg.ThemeConfig.Nav, "themeConfig.nav", func(path string, it site.NavItem) { check(path, it.Link) })
	walkSidebar(cfg, func(path string, it site.SidebarItem) { check(path, it.Link) })
	return issues
}

// OrphanDocumentRule warns about pages no sidebar or nav entry reaches.
// The home page and pages that opt out of the sidebar are exempt.
type OrphanDocumentRule struct{}

func (OrphanDocumentRule) Name() string { return "orphan-document" }

func (r OrphanDocumentRule) CheckContent(cfg site.SiteConfig, inv *content.Inventory) []Issue {
	linked := map[string]bool{}
	for _, t := range cfg.SidebarTargets() {
		linked[TargetKey(t)] = true
	}
	walkNav(cfg.ThemeConfig.Nav, "", func(_ string, it site.NavItem) {
		if it.Link != "" && !site.IsExternal(it.Link) {
			linked[TargetKey(it.Link)] = true
		}
	})

	var issues []Issue
	for _, doc := range inv.Documents {
		if doc.Target == "/" || linked[TargetKey(doc.Target)] || exempt(doc) {
			continue
		}
		issues = append(issues, Issue{
			Path:     doc.RelPath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "page is not reachable from the sidebar or nav",
			Fix:      fmt.Sprintf("add a sidebar item linking %s, or set sidebar: false in its frontmatter", doc.Target),
		})
	}
	return issues
}

func exempt(doc content.Document) bool {
	if layout, _ := doc.Fields["layout"].(string); layout == "home" || layout == "page" {
		return true
	}
	if sb, ok := doc.Fields["sidebar"].(bool); ok && !sb {
		return true
	}
	return false
}

// SidebarTitleRule notes sidebar labels that differ from the page title.
type SidebarTitleRule struct{}

func (SidebarTitleRule) Name() string { return "sidebar-title-mismatch" }

func (r SidebarTitleRule) CheckContent(cfg site.SiteConfig, inv *content.Inventory) []Issue {
	var issues []Issue
	walkSidebar(cfg, func(path string, it site.SidebarItem) {
		if it.Link == "" {
			return
		}
		doc, ok := inv.Lookup(it.Link)
		if !ok || doc.Title == "" || doc.Title == it.Text {
			return
		}
		issues = append(issues, Issue{
			Path:     path + ".text",
			Severity: SeverityInfo,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("sidebar label %q differs from page title %q", it.Text, doc.Title),
		})
	})
	return issues
}
