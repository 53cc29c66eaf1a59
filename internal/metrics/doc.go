// Package metrics records what the chapter review and the watcher do.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// cost nothing unless a textfile is configured:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	runner := review.NewRunner(...).WithRecorder(rec)
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/booksite.prom")
//
// The tool runs per invocation rather than as a daemon, so there is no
// scrape endpoint; results go to a node_exporter textfile instead.
package metrics
