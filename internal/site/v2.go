package site

// V2 regroups the table of contents into four parts, adds the advanced and
// practice chapters, and registers the content-extraction plugin that writes
// llms.txt alongside the built site.
func V2() SiteConfig {
	return SiteConfig{
		Title:       siteTitle,
		Description: siteDescription,
		Base:        siteBase,
		Lang:        siteLang,
		Head:        headTags(),
		LastUpdated: true,
		CleanURLs:   true,
		Markdown:    &MarkdownConfig{LineNumbers: true},
		ThemeConfig: withLabels(ThemeConfig{
			Nav: []NavItem{
				{Text: "首页", Link: "/"},
				{Text: "入门", Link: "/guide/introduction"},
				{Text: "进阶", Link: "/advanced/iterators"},
				{Text: "参考", Items: []NavItem{
					{Text: "官方文档", Link: pythonDocs},
					{Text: "PEP 索引", Link: "https://peps.python.org/"},
				}},
			},
			Sidebar: []SidebarGroup{
				group("第一部分 入门",
					page("简介", "/guide/introduction"),
					page("安装 Python", "/guide/installation"),
					page("第一个程序", "/guide/hello-world"),
					page("交互式解释器", "/guide/repl"),
				),
				group("第二部分 核心语法",
					page("变量与赋值", "/basics/variables"),
					page("数字", "/basics/numbers"),
					page("字符串", "/basics/strings"),
					page("布尔值与 None", "/basics/booleans"),
					page("输入与输出", "/basics/input-output"),
					page("条件语句", "/control-flow/if"),
					page("循环", "/control-flow/loops"),
					page("match 语句", "/control-flow/match"),
				),
				group("第三部分 数据与函数",
					page("列表与元组", "/data-structures/sequences"),
					page("字典与集合", "/data-structures/mappings"),
					page("推导式", "/data-structures/comprehensions"),
					page("定义函数", "/functions/define"),
					page("参数", "/functions/arguments"),
					page("作用域与闭包", "/functions/scope"),
					page("类型注解", "/functions/type-hints"),
					page("模块与包", "/modules/import"),
				),
				collapsed("第四部分 进阶",
					page("异常处理", "/errors/exceptions"),
					page("文件与 pathlib", "/files/read-write"),
					page("类与对象", "/oop/classes"),
					page("继承与组合", "/oop/inheritance"),
					page("数据类", "/oop/dataclasses"),
					page("迭代器", "/advanced/iterators"),
					page("生成器", "/advanced/generators"),
					page("装饰器", "/advanced/decorators"),
					page("上下文管理器", "/advanced/context-managers"),
				),
				collapsed("实践",
					page("命令行待办清单", "/practice/todo-cli"),
					page("文本统计工具", "/practice/word-count"),
				),
			},
			Outline: OutlineConfig{Level: DeepOutline(), Label: "本页目录"},
		}),
		Vite: &ViteConfig{
			Plugins: []PluginRef{{
				Import: "llmstxt",
				From:   "vitepress-plugin-llms",
				Options: map[string]any{
					"generateLLMsFullTxt": true,
					"ignoreFiles":         []any{"index.md"},
				},
			}},
		},
	}
}
