package logfields

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeyRunID      = "run_id"
	KeySnapshot   = "snapshot"
	KeyPath       = "path"
	KeyTarget     = "target"
	KeyRule       = "rule"
	KeyTask       = "task"
	KeyStatus     = "status"
	KeyModel      = "model"
	KeyAttempt    = "attempt"
	KeyFormat     = "format"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

func RunID(id string) slog.Attr { return slog.String(KeyRunID, id) }
func Snapshot(name string) slog.Attr { return slog.String(KeySnapshot, name) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Target(t string) slog.Attr { return slog.String(KeyTarget, t) }
func Rule(r string) slog.Attr { return slog.String(KeyRule, r) }
func Task(title string) slog.Attr { return slog.String(KeyTask, title) }
func Status(s string) slog.Attr { return slog.String(KeyStatus, s) }
func Model(m string) slog.Attr { return slog.String(KeyModel, m) }
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }
func Format(f string) slog.Attr { return slog.String(KeyFormat, f) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
