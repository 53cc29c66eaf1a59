package review

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
	"git.home.luguber.info/inful/booksite/internal/llm"
	"git.home.luguber.info/inful/booksite/internal/metrics"
	"git.home.luguber.info/inful/booksite/internal/site"
	"git.home.luguber.info/inful/booksite/internal/testutil"
)

type fakeReviewer struct {
	calls  []string
	failOn string
}

func (f *fakeReviewer) Review(_ context.Context, task Task, body string) (string, error) {
	f.calls = append(f.calls, task.Path)
	if task.Path == f.failOn {
		return "", errors.ModelError("upstream refused").Build()
	}
	return strings.ToUpper(body), nil
}

type countingRecorder struct {
	metrics.NoopRecorder
	results map[metrics.ResultLabel]int
}

func (c *countingRecorder) IncTaskResult(l metrics.ResultLabel) { c.results[l]++ }

func readChapter(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func setup(t *testing.T, tasks []Task) (docs, list string) {
	t.Helper()
	docs = t.TempDir()
	list = filepath.Join(t.TempDir(), "docs_list.json")
	for _, task := range tasks {
		testutil.WriteFile(t, docs, task.Path, "---\ntitle: "+task.Title+"\n---\nbody of "+task.Path+"\n")
	}
	require.NoError(t, SaveTasks(list, tasks))
	return docs, list
}

func TestLoadTasks(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTasks(filepath.Join(dir, "missing.json"))
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"path":"a.md","status":"started","title":"A"}]`), 0o644))
	_, err = LoadTasks(bad)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	unknown := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`[{"path":"a.md","status":"done","title":"A","extra":1}]`), 0o644))
	_, err = LoadTasks(unknown)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	good := filepath.Join(dir, "good.json")
	require.NoError(t, SaveTasks(good, []Task{{Path: "guide/introduction.md", Status: StatusPending, Title: "简介"}}))
	raw, err := os.ReadFile(good)
	require.NoError(t, err)
	require.Contains(t, string(raw), "简介")
	require.Contains(t, string(raw), "\n  {")

	tasks, err := LoadTasks(good)
	require.NoError(t, err)
	require.Equal(t, []Task{{Path: "guide/introduction.md", Status: StatusPending, Title: "简介"}}, tasks)
	require.False(t, strings.HasSuffix(string(raw), "\n"))
}

func TestFromSidebarAndMerge(t *testing.T) {
	fresh := FromSidebar(site.V1())
	require.NotEmpty(t, fresh)
	require.Equal(t, "guide/introduction.md", fresh[0].Path)
	for _, task := range fresh {
		require.Equal(t, StatusPending, task.Status)
		require.True(t, strings.HasSuffix(task.Path, ".md"))
	}

	existing := []Task{
		{Path: fresh[0].Path, Status: StatusDone, Title: "old title", Fingerprint: "fp"},
		{Path: "removed.md", Status: StatusDone, Title: "gone"},
	}
	merged := Merge(existing, fresh)
	require.Len(t, merged, len(fresh))
	require.Equal(t, StatusDone, merged[0].Status)
	require.Equal(t, "fp", merged[0].Fingerprint)
	require.Equal(t, fresh[0].Title, merged[0].Title)
	for _, task := range merged {
		require.NotEqual(t, "removed.md", task.Path)
	}
}

func TestCheckFiles(t *testing.T) {
	docs, _ := setup(t, []Task{{Path: "a.md", Status: StatusPending, Title: "A"}})
	require.NoError(t, CheckFiles([]Task{{Path: "a.md"}}, docs))

	err := CheckFiles([]Task{{Path: "a.md"}, {Path: "nested/b.md", Title: "B"}}, docs)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	err = CheckFiles([]Task{{Path: "../outside.md", Title: "X"}}, docs)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestTaskPathsStayUnderContentRoot(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"../../etc/passwd.md", "/etc/passwd.md", "a/../../b.md"} {
		list := filepath.Join(dir, "list.json")
		require.NoError(t, SaveTasks(list, []Task{{Path: p, Status: StatusPending, Title: "x"}}))
		_, err := LoadTasks(list)
		require.True(t, errors.HasCategory(err, errors.CategoryValidation), p)
	}

	cfg := site.SiteConfig{ThemeConfig: site.ThemeConfig{Sidebar: []site.SidebarGroup{{
		Text:  "g",
		Items: []site.SidebarItem{{Text: "escape", Link: "/../../etc/passwd"}},
	}}}}
	tasks := FromSidebar(cfg)
	require.Len(t, tasks, 1)
	require.Equal(t, "etc/passwd.md", tasks[0].Path)
}

func TestRunReviewsPendingInOrder(t *testing.T) {
	docs, list := setup(t, []Task{
		{Path: "a.md", Status: StatusDone, Title: "A"},
		{Path: "b.md", Status: StatusPending, Title: "B"},
		{Path: "sub/c.md", Status: StatusPending, Title: "C"},
	})
	fake := &fakeReviewer{}
	rec := &countingRecorder{results: map[metrics.ResultLabel]int{}}

	sum, err := NewRunner(docs, list, fake).WithRecorder(rec).Run(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, sum.RunID)
	require.Equal(t, 2, sum.Reviewed)
	require.Equal(t, 1, sum.Skipped)
	require.Equal(t, 0, sum.Pending)
	require.Equal(t, []string{"b.md", "sub/c.md"}, fake.calls)
	require.Equal(t, 2, rec.results[metrics.ResultSuccess])
	require.Equal(t, 1, rec.results[metrics.ResultSkipped])

	require.Equal(t, "---\ntitle: B\n---\nBODY OF B.MD\n", readChapter(t, docs, "b.md"))
	require.Equal(t, "---\ntitle: A\n---\nbody of a.md\n", readChapter(t, docs, "a.md"))

	tasks, err := LoadTasks(list)
	require.NoError(t, err)
	for _, task := range tasks[1:] {
		require.Equal(t, StatusDone, task.Status)
		require.NotEmpty(t, task.Fingerprint)
	}
}

func TestRunStopsOnFirstFailureAndKeepsProgress(t *testing.T) {
	docs, list := setup(t, []Task{
		{Path: "a.md", Status: StatusPending, Title: "A"},
		{Path: "b.md", Status: StatusPending, Title: "B"},
		{Path: "c.md", Status: StatusPending, Title: "C"},
	})
	fake := &fakeReviewer{failOn: "b.md"}

	sum, err := NewRunner(docs, list, fake).Run(t.Context())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryModel))
	require.Equal(t, 1, sum.Reviewed)
	require.Equal(t, 2, sum.Pending)
	require.Equal(t, []string{"a.md", "b.md"}, fake.calls)

	tasks, err := LoadTasks(list)
	require.NoError(t, err)
	require.Equal(t, StatusDone, tasks[0].Status)
	require.Equal(t, StatusPending, tasks[1].Status)
	require.Equal(t, "---\ntitle: B\n---\nbody of b.md\n", readChapter(t, docs, "b.md"))

	// resume picks up at the failed task
	fake.failOn = ""
	fake.calls = nil
	_, err = NewRunner(docs, list, fake).Run(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"b.md", "c.md"}, fake.calls)
}

func TestRunLimitAndMissingFile(t *testing.T) {
	docs, list := setup(t, []Task{
		{Path: "a.md", Status: StatusPending, Title: "A"},
		{Path: "b.md", Status: StatusPending, Title: "B"},
	})
	fake := &fakeReviewer{}
	sum, err := NewRunner(docs, list, fake).WithLimit(1).Run(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Reviewed)
	require.Equal(t, 1, sum.Pending)

	require.NoError(t, os.Remove(filepath.Join(docs, "b.md")))
	_, err = NewRunner(docs, list, fake).Run(t.Context())
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestRunCanceled(t *testing.T) {
	docs, list := setup(t, []Task{{Path: "a.md", Status: StatusPending, Title: "A"}})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewRunner(docs, list, &fakeReviewer{}).Run(ctx)
	require.True(t, errors.HasCategory(err, errors.CategoryRuntime))
}

func TestRecheck(t *testing.T) {
	docs, list := setup(t, []Task{
		{Path: "a.md", Status: StatusPending, Title: "A"},
		{Path: "b.md", Status: StatusPending, Title: "B"},
	})
	_, err := NewRunner(docs, list, &fakeReviewer{}).Run(t.Context())
	require.NoError(t, err)

	res, err := Recheck(list, docs)
	require.NoError(t, err)
	require.Empty(t, res.Reset)

	testutil.WriteFile(t, docs, "b.md", "---\ntitle: B\n---\nedited after review\n")
	res, err = Recheck(list, docs)
	require.NoError(t, err)
	require.Equal(t, []string{"b.md"}, res.Reset)

	tasks, err := LoadTasks(list)
	require.NoError(t, err)
	require.Equal(t, StatusDone, tasks[0].Status)
	require.Equal(t, StatusPending, tasks[1].Status)

	require.NoError(t, SaveTasks(list, []Task{{Path: "a.md", Status: StatusDone, Title: "A"}}))
	res, err = Recheck(list, docs)
	require.NoError(t, err)
	require.Equal(t, []string{"a.md"}, res.Adopted)
	tasks, err = LoadTasks(list)
	require.NoError(t, err)
	require.NotEmpty(t, tasks[0].Fingerprint)
}

type fakeCompleter struct {
	got   []llm.Message
	reply string
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	f.got = msgs
	return f.reply, nil
}

func TestChatReviewer(t *testing.T) {
	fc := &fakeCompleter{reply: "```markdown\n# 标题\n\n正文\n```"}
	r := NewChatReviewer(fc, "")
	out, err := r.Review(t.Context(), Task{Path: "a.md"}, "# 标题\n")
	require.NoError(t, err)
	require.Equal(t, "# 标题\n\n正文\n", out)
	require.Len(t, fc.got, 2)
	require.Equal(t, llm.RoleSystem, fc.got[0].Role)
	require.Equal(t, SystemPrompt, fc.got[0].Content)
	require.Equal(t, "# 标题\n", fc.got[1].Content)

	fc.reply = "plain text"
	out, err = NewChatReviewer(fc, "custom").Review(t.Context(), Task{}, "x")
	require.NoError(t, err)
	require.Equal(t, "plain text\n", out)
	require.Equal(t, "custom", fc.got[0].Content)
}

func TestUnwrapFenceKeepsInnerFences(t *testing.T) {
	in := "```python\nprint(1)\n```\n\ntext\n\n```python\nprint(2)\n```"
	require.Equal(t, in+"\n", unwrapFence(in))
}

func TestUnwrapFenceMarkdownWrapperWithCode(t *testing.T) {
	in := "```markdown\n# 列表\n\n```python\nxs = [1, 2]\n```\n```"
	require.Equal(t, "# 列表\n\n```python\nxs = [1, 2]\n```\n", unwrapFence(in))
}

func TestUnwrapFenceLeadingExampleBlock(t *testing.T) {
	in := "```markdown\n# 示例\n```\n\n正文\n\n```python\nprint(1)\n```"
	require.Equal(t, in+"\n", unwrapFence(in))
}

func TestUnwrapFenceBareWrapper(t *testing.T) {
	require.Equal(t, "# 标题\n\n正文\n", unwrapFence("```\n# 标题\n\n正文\n```\n"))

	withCode := "```\n# 标题\n```python\nx = 1\n```\n```"
	require.Equal(t, withCode+"\n", unwrapFence(withCode))

	unbalanced := "```md\n# 标题\n```python\nx = 1\n```"
	require.Equal(t, unbalanced+"\n", unwrapFence(unbalanced))
}
