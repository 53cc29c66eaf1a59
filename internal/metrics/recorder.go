package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for review runs and rebuilds.
type Recorder interface {
	// ObserveTaskDuration records one chapter review round trip.
	ObserveTaskDuration(d time.Duration)
	IncTaskResult(result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncModelRetry()
	SetLintIssues(snapshot, severity string, n int)
	IncRebuild(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTaskDuration(time.Duration)     {}
func (NoopRecorder) IncTaskResult(ResultLabel)             {}
func (NoopRecorder) ObserveRunDuration(time.Duration)      {}
func (NoopRecorder) IncModelRetry()                        {}
func (NoopRecorder) SetLintIssues(string, string, int)     {}
func (NoopRecorder) IncRebuild(ResultLabel)                {}
