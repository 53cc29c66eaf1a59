package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

const namespace = "booksite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg          *prom.Registry
	taskDuration prom.Histogram
	taskResults  *prom.CounterVec
	runDuration  prom.Histogram
	modelRetries prom.Counter
	lintIssues   *prom.GaugeVec
	rebuilds     *prom.CounterVec
}

// reviewBuckets span a few seconds to several minutes; long chapters stream slowly.
var reviewBuckets = []float64{5, 15, 30, 60, 120, 240, 480, 900}

// NewPrometheusRecorder constructs and registers the metrics on reg, or on a
// fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		taskDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "review_task_duration_seconds",
			Help:      "Duration of one chapter review request",
			Buckets:   reviewBuckets,
		}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "review_tasks_total",
			Help:      "Review tasks by result",
		}, []string{"result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "review_run_duration_seconds",
			Help:      "Duration of a whole review run",
			Buckets:   prom.ExponentialBuckets(10, 2, 10),
		}),
		modelRetries: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "model_retries_total",
			Help:      "Chat completion retries after transient failures",
		}),
		lintIssues: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "lint_issues",
			Help:      "Issues found in the last check, by snapshot and severity",
		}, []string{"snapshot", "severity"}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_rebuilds_total",
			Help:      "Rebuilds triggered by the watcher, by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.taskDuration, pr.taskResults, pr.runDuration, pr.modelRetries, pr.lintIssues, pr.rebuilds)
	return pr
}

// Registry is the registry the metrics live on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveTaskDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.taskDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTaskResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.taskResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncModelRetry() {
	if p == nil {
		return
	}
	p.modelRetries.Inc()
}

func (p *PrometheusRecorder) SetLintIssues(snapshot, severity string, n int) {
	if p == nil {
		return
	}
	p.lintIssues.WithLabelValues(snapshot, severity).Set(float64(n))
}

func (p *PrometheusRecorder) IncRebuild(result ResultLabel) {
	if p == nil {
		return
	}
	p.rebuilds.WithLabelValues(string(result)).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// atomically, for node_exporter's textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write metrics textfile").WithContext("path", path).Build()
	}
	return nil
}
