package review

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/booksite/internal/llm"
)

// SystemPrompt instructs the model to act as the book's copy editor.
const SystemPrompt = `你是一家技术图书出版社的编辑。

这本书讲解 Python 3.12，面向完全没有编程经验的读者，同时照顾刚入门的人和从其他语言转来的开发者。

请从零基础读者的角度审读下面这一章，并直接修改：

- 读者缺少背景知识或推理有跳跃的地方，补上必要的解释；
- 本章第一次出现的语法、类型注解或写法，给出简短介绍；
- 用词不专业或语气不符合正式出版物的地方，加以修正；
- 保持原有的技术意图和章节结构，只在必要处补充和润色。

输出使用 VitePress 兼容的 Markdown，只输出修改后的完整章节正文，不要附加说明。`

// Reviewer returns the revised text of one chapter body.
type Reviewer interface {
	Review(ctx context.Context, task Task, body string) (string, error)
}

// Completer is the part of llm.Client a ChatReviewer needs.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// ChatReviewer reviews chapters with a chat model.
type ChatReviewer struct {
	client Completer
	prompt string
}

// NewChatReviewer uses SystemPrompt unless prompt is non-empty.
func NewChatReviewer(client Completer, prompt string) *ChatReviewer {
	if prompt == "" {
		prompt = SystemPrompt
	}
	return &ChatReviewer{client: client, prompt: prompt}
}

func (r *ChatReviewer) Review(ctx context.Context, _ Task, body string) (string, error) {
	reply, err := r.client.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: r.prompt},
		{Role: llm.RoleUser, Content: body},
	})
	if err != nil {
		return "", err
	}
	return unwrapFence(reply), nil
}

// unwrapFence strips a code fence the model sometimes wraps the whole chapter
// in. The reply is unwrapped only when its first line opens a fence and its
// last line is the fence that closes it; any fence the chapter itself contains
// must be balanced in between. A bare ``` wrapper is only removed when the
// chapter has no fences of its own.
func unwrapFence(reply string) string {
	if inner, ok := wrapped(strings.TrimSpace(reply)); ok {
		return inner + "\n"
	}
	if !strings.HasSuffix(reply, "\n") {
		reply += "\n"
	}
	return reply
}

func wrapped(reply string) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return "", false
	}
	open, ok := fenceInfo(lines[0])
	if !ok || (open != "" && open != "markdown" && open != "md") {
		return "", false
	}
	if info, ok := fenceInfo(lines[len(lines)-1]); !ok || info != "" {
		return "", false
	}
	inner := lines[1 : len(lines)-1]
	depth := 0
	for _, line := range inner {
		info, ok := fenceInfo(line)
		if !ok {
			continue
		}
		if open == "" {
			return "", false
		}
		switch {
		case depth > 0 && info == "":
			depth--
		case depth > 0:
		case info == "":
			// closes the opening fence before the last line
			return "", false
		default:
			depth++
		}
	}
	if depth != 0 {
		return "", false
	}
	return strings.Join(inner, "\n"), true
}

// fenceInfo reports whether line is a ``` fence and returns its info string.
func fenceInfo(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "```") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(t, "`")), true
}
