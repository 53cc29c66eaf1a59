package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		attr slog.Attr
	}{
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Snapshot", KeySnapshot, "v2", Snapshot("v2")},
		{"Path", KeyPath, "docs/index.md", Path("docs/index.md")},
		{"Target", KeyTarget, "/basics/", Target("/basics/")},
		{"Rule", KeyRule, "base-path", Rule("base-path")},
		{"Task", KeyTask, "变量", Task("变量")},
		{"Status", KeyStatus, "done", Status("done")},
		{"Model", KeyModel, "qwen3-max", Model("qwen3-max")},
		{"Format", KeyFormat, "mts", Format("mts")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.attr.Key != c.key {
				t.Fatalf("key = %q, want %q", c.attr.Key, c.key)
			}
			if c.attr.Value.String() != c.val {
				t.Fatalf("value = %q, want %q", c.attr.Value.String(), c.val)
			}
		})
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if a := Attempt(3); a.Key != KeyAttempt || a.Value.Int64() != 3 {
		t.Fatalf("unexpected attempt attr %v", a)
	}
	if a := Count(7); a.Value.Int64() != 7 {
		t.Fatalf("unexpected count attr %v", a)
	}
	if a := DurationMS(1.5); a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should be empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr %q", a.Value.String())
	}
}
