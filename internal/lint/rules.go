package lint

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/booksite/internal/content"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// DefaultRules are the checks that need only the configuration value.
func DefaultRules() []Rule {
	return []Rule{
		MetadataRule{},
		BasePathRule{},
		HeadBasePrefixRule{},
		NavLinkRule{},
		SocialLinkRule{},
		SidebarLinkRule{},
		DuplicateTargetRule{},
		OutlineRule{},
		EditLinkRule{},
		SearchProviderRule{},
	}
}

// walkSidebar visits every sidebar item depth-first in render order.
func walkSidebar(cfg site.SiteConfig, fn func(path string, item site.SidebarItem)) {
	var walk func(prefix string, items []site.SidebarItem)
	walk = func(prefix string, items []site.SidebarItem) {
		for i, it := range items {
			p := fmt.Sprintf("%s.items[%d]", prefix, i)
			fn(p, it)
			walk(p, it.Items)
		}
	}
	for gi, g := range cfg.ThemeConfig.Sidebar {
		walk(fmt.Sprintf("themeConfig.sidebar[%d]", gi), g.Items)
	}
}

func walkNav(items []site.NavItem, prefix string, fn func(path string, item site.NavItem)) {
	for i, it := range items {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		fn(p, it)
		walkNav(it.Items, p+".items", fn)
	}
}

// MetadataRule requires the title and locale.
type MetadataRule struct{}

func (MetadataRule) Name() string { return "site-metadata" }

func (r MetadataRule) Check(cfg site.SiteConfig) []Issue {
	var issues []Issue
	if strings.TrimSpace(cfg.Title) == "" {
		issues = append(issues, Issue{Path: "title", Severity: SeverityError, Rule: r.Name(), Message: "site title is empty"})
	}
	if strings.TrimSpace(cfg.Lang) == "" {
		issues = append(issues, Issue{Path: "lang", Severity: SeverityWarning, Rule: r.Name(), Message: "site locale is empty", Fix: "set lang, e.g. zh-CN"})
	}
	if strings.TrimSpace(cfg.Description) == "" {
		issues = append(issues, Issue{Path: "description", Severity: SeverityInfo, Rule: r.Name(), Message: "site description is empty"})
	}
	return issues
}

// BasePathRule requires a base of the form /segment/ (or just /).
type BasePathRule struct{}

func (BasePathRule) Name() string { return "base-path" }

func (r BasePathRule) Check(cfg site.SiteConfig) []Issue {
	base := cfg.Base
	switch {
	case base == "":
		return []Issue{{Path: "base", Severity: SeverityError, Rule: r.Name(), Message: "base path is empty", Fix: "use \"/\" for a site served at the domain root"}}
	case !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/"):
		return []Issue{{
			Path:        "base",
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("base path %q must start and end with /", base),
			Explanation: "The generator joins base with page and asset paths verbatim.",
		}}
	case site.IsExternal(base):
		return []Issue{{Path: "base", Severity: SeverityError, Rule: r.Name(), Message: "base path must be a path, not a URL"}}
	}
	return nil
}

// HeadBasePrefixRule requires absolute head asset references to carry the base path.
type HeadBasePrefixRule struct{}

func (HeadBasePrefixRule) Name() string { return "head-base-prefix" }

func (r HeadBasePrefixRule) Check(cfg site.SiteConfig) []Issue {
	if cfg.Base == "" {
		return nil
	}
	var issues []Issue
	for i, tag := range cfg.Head {
		for _, attr := range []string{"href", "src"} {
			ref, ok := tag.Attrs[attr]
			if !ok || !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
				continue
			}
			if !strings.HasPrefix(ref, cfg.Base) {
				issues = append(issues, Issue{
					Path:        fmt.Sprintf("head[%d].%s", i, attr),
					Severity:    SeverityError,
					Rule:        r.Name(),
					Message:     fmt.Sprintf("%s %q is not under base %q", attr, ref, cfg.Base),
					Explanation: "Head tags are emitted as written; the generator does not prefix them.",
					Fix:         fmt.Sprintf("use %q", cfg.AssetPath(ref)),
				})
			}
		}
	}
	return issues
}

// NavLinkRule requires site-relative nav links to be absolute and external ones to use https.
type NavLinkRule struct{}

func (NavLinkRule) Name() string { return "nav-external-https" }

func (r NavLinkRule) Check(cfg site.SiteConfig) []Issue {
	var issues []Issue
	walkNav(cfg.ThemeConfig.Nav, "themeConfig.nav", func(path string, it site.NavItem) {
		switch {
		case it.Link == "" && len(it.Items) == 0:
			issues = append(issues, Issue{Path: path, Severity: SeverityError, Rule: r.Name(), Message: fmt.Sprintf("nav entry %q has neither link nor items", it.Text)})
		case it.Link == "":
		case site.IsExternal(it.Link):
			if msg := httpsProblem(it.Link); msg != "" {
				issues = append(issues, Issue{Path: path + ".link", Severity: SeverityError, Rule: r.Name(), Message: msg})
			}
		case !strings.HasPrefix(it.Link, "/"):
			issues = append(issues, Issue{Path: path + ".link", Severity: SeverityError, Rule: r.Name(), Message: fmt.Sprintf("nav link %q must start with /", it.Link)})
		}
	})
	return issues
}

func httpsProblem(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Sprintf("external link %q does not parse: %v", link, err)
	}
	if u.Scheme != "https" {
		return fmt.Sprintf("external link %q must use https://", link)
	}
	if u.Host == "" {
		return fmt.Sprintf("external link %q has no host", link)
	}
	return ""
}

// SocialLinkRule applies the https requirement to social links.
type SocialLinkRule struct{}

func (SocialLinkRule) Name() string { return "social-link-https" }

func (r SocialLinkRule) Check(cfg site.SiteConfig) []Issue {
	var issues []Issue
	for i, l := range cfg.ThemeConfig.SocialLinks {
		if msg := httpsProblem(l.Link); msg != "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("themeConfig.socialLinks[%d].link", i), Severity: SeverityError, Rule: r.Name(), Message: msg})
		}
		if l.Icon == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("themeConfig.socialLinks[%d].icon", i), Severity: SeverityWarning, Rule: r.Name(), Message: "social link has no icon"})
		}
	}
	return issues
}

// SidebarLinkRule requires every sidebar page link to be a non-empty site path.
type SidebarLinkRule struct{}

func (SidebarLinkRule) Name() string { return "sidebar-link-absolute" }

func (r SidebarLinkRule) Check(cfg site.SiteConfig) []Issue {
	var issues []Issue
	for gi, g := range cfg.ThemeConfig.Sidebar {
		if len(g.Items) == 0 {
			issues = append(issues, Issue{Path: fmt.Sprintf("themeConfig.sidebar[%d]", gi), Severity: SeverityWarning, Rule: r.Name(), Message: fmt.Sprintf("sidebar group %q is empty", g.Text)})
		}
	}
	walkSidebar(cfg, func(path string, it site.SidebarItem) {
		switch {
		case it.Link == "" && len(it.Items) == 0:
			issues = append(issues, Issue{Path: path, Severity: SeverityError, Rule: r.Name(), Message: fmt.Sprintf("sidebar item %q has an empty target", it.Text)})
		case it.Link == "":
		case site.IsExternal(it.Link) || !strings.HasPrefix(it.Link, "/"):
			issues = append(issues, Issue{
				Path:     path + ".link",
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("sidebar target %q must start with /", it.Link),
				Fix:      "use the page path under the content root, e.g. /basics/variables",
			})
		case content.HasDotDot(it.Link):
			issues = append(issues, Issue{
				Path:     path + ".link",
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("sidebar target %q leaves the content root", it.Link),
			})
		}
	})
	return issues
}

// TargetKey is the identity used for duplicate detection: the normalized
// target in Unicode NFC, so visually equal paths collide.
func TargetKey(target string) string {
	return norm.NFC.String(content.NormalizeTarget(target))
}

// DuplicateTargetRule rejects two sidebar items pointing at the same page.
type DuplicateTargetRule struct{}

func (DuplicateTargetRule) Name() string { return "sidebar-duplicate-target" }

func (r DuplicateTargetRule) Check(cfg site.SiteConfig) []Issue {
	seen := map[string]string{}
	var issues []Issue
	walkSidebar(cfg, func(path string, it site.SidebarItem) {
		if it.Link == "" {
			return
		}
		key := TargetKey(it.Link)
		if first, dup := seen[key]; dup {
			issues = append(issues, Issue{
				Path:     path + ".link",
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("target %q already appears at %s", it.Link, first),
			})
			return
		}
		seen[key] = path
	})
	return issues
}

// OutlineRule keeps outline levels within h1..h6.
type OutlineRule struct{}

func (OutlineRule) Name() string { return "outline-levels" }

func (r OutlineRule) Check(cfg site.SiteConfig) []Issue {
	minLevel, maxLevel := cfg.ThemeConfig.Outline.Level.Range()
	if minLevel < 1 || maxLevel > 6 || minLevel > maxLevel {
		return []Issue{{
			Path:     "themeConfig.outline.level",
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("outline level %s is not a range within 1..6", cfg.ThemeConfig.Outline.Level),
		}}
	}
	return nil
}

// EditLinkRule requires an https pattern with the :path placeholder.
type EditLinkRule struct{}

func (EditLinkRule) Name() string { return "edit-link-pattern" }

func (r EditLinkRule) Check(cfg site.SiteConfig) []Issue {
	el := cfg.ThemeConfig.EditLink
	if el.Pattern == "" {
		if el.Text != "" {
			return []Issue{{Path: "themeConfig.editLink.pattern", Severity: SeverityWarning, Rule: r.Name(), Message: "edit link text set without a pattern"}}
		}
		return nil
	}
	var issues []Issue
	if msg := httpsProblem(strings.ReplaceAll(el.Pattern, ":path", "x")); msg != "" {
		issues = append(issues, Issue{Path: "themeConfig.editLink.pattern", Severity: SeverityError, Rule: r.Name(), Message: msg})
	}
	if !strings.Contains(el.Pattern, ":path") {
		issues = append(issues, Issue{
			Path:     "themeConfig.editLink.pattern",
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "edit link pattern has no :path placeholder",
			Fix:      "append /docs/:path to the repository edit URL",
		})
	}
	return issues
}

// SearchProviderRule accepts the providers the default theme ships.
type SearchProviderRule struct{}

func (SearchProviderRule) Name() string { return "search-provider" }

func (r SearchProviderRule) Check(cfg site.SiteConfig) []Issue {
	switch p := cfg.ThemeConfig.Search.Provider; p {
	case "local", "algolia":
		return nil
	case "":
		return []Issue{{Path: "themeConfig.search.provider", Severity: SeverityWarning, Rule: r.Name(), Message: "no search provider configured"}}
	default:
		return []Issue{{Path: "themeConfig.search.provider", Severity: SeverityError, Rule: r.Name(), Message: fmt.Sprintf("unknown search provider %q", p)}}
	}
}
