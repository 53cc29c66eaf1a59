package site

// Values shared by every snapshot of the tutorial site.
const (
	siteTitle       = "Python 教程"
	siteDescription = "面向零基础读者的 Python 3.12 入门教程"
	siteBase        = "/python-tutorial/"
	siteLang        = "zh-CN"

	repoURL    = "https://github.com/pybook-cn/python-tutorial"
	pythonDocs = "https://docs.python.org/zh-cn/3.12/"
)

func headTags() []HeadTag {
	return []HeadTag{
		Link(map[string]string{"rel": "icon", "type": "image/svg+xml", "href": siteBase + "logo.svg"}),
		Meta(map[string]string{"name": "theme-color", "content": "#3776ab"}),
	}
}

func socialLinks() []SocialLink {
	return []SocialLink{{Icon: "github", Link: repoURL}}
}

func footer() Footer {
	return Footer{
		Message:   "基于 MIT 许可发布",
		Copyright: "Copyright © 2024-present Python 教程编写组",
	}
}

func localSearch() SearchConfig {
	return SearchConfig{
		Provider: "local",
		Options: &LocalSearchOptions{
			Translations: &SearchTranslations{
				Button: SearchButtonText{ButtonText: "搜索文档", ButtonAriaLabel: "搜索文档"},
				Modal: SearchModalText{
					NoResultsText:    "无法找到相关结果",
					ResetButtonTitle: "清除查询条件",
					Footer: SearchFooterText{
						SelectText:   "选择",
						NavigateText: "切换",
						CloseText:    "关闭",
					},
				},
			},
		},
	}
}

func editLink() EditLink {
	return EditLink{
		Pattern: repoURL + "/edit/main/docs/:path",
		Text:    "在 GitHub 上编辑此页",
	}
}

func lastUpdated() LastUpdatedOptions {
	return LastUpdatedOptions{
		Text:          "最后更新于",
		FormatOptions: &DateFormatOption{DateStyle: "short", TimeStyle: "medium"},
	}
}

// withLabels fills the UI labels every snapshot shares.
func withLabels(tc ThemeConfig) ThemeConfig {
	tc.SocialLinks = socialLinks()
	tc.Footer = footer()
	tc.Search = localSearch()
	tc.EditLink = editLink()
	tc.LastUpdated = lastUpdated()
	tc.DocFooter = DocFooter{Prev: "上一页", Next: "下一页"}
	tc.SidebarMenuLabel = "菜单"
	tc.ReturnToTopLabel = "回到顶部"
	tc.DarkModeSwitchLabel = "主题"
	return tc
}

func page(text, link string) SidebarItem { return SidebarItem{Text: text, Link: link} }

func group(text string, items ...SidebarItem) SidebarGroup {
	return SidebarGroup{Text: text, Items: items}
}

func collapsed(text string, items ...SidebarItem) SidebarGroup {
	c := true
	return SidebarGroup{Text: text, Collapsed: &c, Items: items}
}
