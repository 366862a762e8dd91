// Package metrics provides build observability for the theme and its host.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never need nil checks at call sites:
//
//	rep := diag.NewReporter(logger, metrics.NoopRecorder{})
//
// To enable metrics, swap in the Prometheus implementation:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	...
//	_ = metrics.WriteTextfile("metrics.prom", reg)
//
// The CLI does this when --metrics-file is set.
package metrics
