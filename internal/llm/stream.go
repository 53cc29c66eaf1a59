package llm

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

// ErrStreamTruncated is the cause when a stream ends without [DONE].
var ErrStreamTruncated = stderrors.New("stream ended before [DONE]")

// maxEventSize bounds one server-sent event line.
const maxEventSize = 1 << 20

// readStream concatenates the delta contents of an SSE completion stream.
// Comment lines and non-data fields are ignored; the stream must end with
// "data: [DONE]".
func readStream(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxEventSize)

	var b strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			return b.String(), nil
		}
		var chunk chatResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", errors.WrapError(err, errors.CategoryModel, "decode stream chunk").Retryable().Build()
		}
		for _, ch := range chunk.Choices {
			b.WriteString(ch.Delta.Content)
		}
	}
	if err := sc.Err(); err != nil {
		return "", errors.WrapError(err, errors.CategoryNetwork, "read completion stream").Retryable().Build()
	}
	return "", errors.WrapError(ErrStreamTruncated, errors.CategoryModel, "completion stream truncated").Retryable().Build()
}
