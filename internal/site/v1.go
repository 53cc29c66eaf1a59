package site

// V1 is the first authored configuration: one sidebar group per chapter.
func V1() SiteConfig {
	return SiteConfig{
		Title:       siteTitle,
		Description: siteDescription,
		Base:        siteBase,
		Lang:        siteLang,
		Head:        headTags(),
		LastUpdated: true,
		Markdown:    &MarkdownConfig{LineNumbers: true},
		ThemeConfig: withLabels(ThemeConfig{
			Nav: []NavItem{
				{Text: "首页", Link: "/"},
				{Text: "教程", Link: "/guide/introduction"},
				{Text: "官方文档", Link: pythonDocs},
			},
			Sidebar: []SidebarGroup{
				group("开始",
					page("简介", "/guide/introduction"),
					page("安装 Python", "/guide/installation"),
					page("第一个程序", "/guide/hello-world"),
				),
				group("基础语法",
					page("变量与赋值", "/basics/variables"),
					page("数字", "/basics/numbers"),
					page("字符串", "/basics/strings"),
					page("布尔值与 None", "/basics/booleans"),
					page("输入与输出", "/basics/input-output"),
				),
				group("流程控制",
					page("条件语句", "/control-flow/if"),
					page("while 循环", "/control-flow/while"),
					page("for 循环", "/control-flow/for"),
					page("match 语句", "/control-flow/match"),
				),
				group("数据结构",
					page("列表", "/data-structures/list"),
					page("元组", "/data-structures/tuple"),
					page("字典", "/data-structures/dict"),
					page("集合", "/data-structures/set"),
					page("推导式", "/data-structures/comprehensions"),
				),
				group("函数",
					page("定义函数", "/functions/define"),
					page("参数", "/functions/arguments"),
					page("作用域", "/functions/scope"),
					page("lambda 表达式", "/functions/lambda"),
					page("类型注解", "/functions/type-hints"),
				),
				group("模块与包",
					page("导入模块", "/modules/import"),
					page("创建包", "/modules/packages"),
					page("标准库概览", "/modules/stdlib"),
				),
				group("文件与异常",
					page("读写文件", "/files/read-write"),
					page("pathlib", "/files/pathlib"),
					page("异常处理", "/errors/exceptions"),
					page("自定义异常", "/errors/custom"),
				),
				group("面向对象",
					page("类与对象", "/oop/classes"),
					page("继承", "/oop/inheritance"),
					page("数据类", "/oop/dataclasses"),
				),
			},
			Outline: OutlineConfig{Level: Levels(2, 3), Label: "页面导航"},
		}),
	}
}
