package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	warnings      *prom.CounterVec
	fetchDuration *prom.HistogramVec
	fetchResults  *prom.CounterVec
	pages         *prom.CounterVec
	hookDuration  *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.warnings = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pydatatheme",
			Name:      "warnings_total",
			Help:      "Soft warnings emitted, by kind",
		}, []string{"kind"})
		pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pydatatheme",
			Name:      "switcher_fetch_duration_seconds",
			Help:      "Duration of version switcher manifest reads",
			Buckets:   prom.DefBuckets,
		}, []string{"source"})
		pr.fetchResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pydatatheme",
			Name:      "switcher_fetch_results_total",
			Help:      "Version switcher manifest reads by source and result",
		}, []string{"source", "result"})
		pr.pages = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pydatatheme",
			Name:      "pages_total",
			Help:      "Pages processed, by whether rendering was skipped",
		}, []string{"skipped"})
		pr.hookDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pydatatheme",
			Name:      "hook_duration_seconds",
			Help:      "Time spent in extension hooks, by event",
			Buckets:   prom.DefBuckets,
		}, []string{"event"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pydatatheme",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pydatatheme",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.warnings, pr.fetchDuration, pr.fetchResults, pr.pages, pr.hookDuration, pr.buildDuration, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) IncWarning(kind string) {
	if p == nil || p.warnings == nil {
		return
	}
	p.warnings.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) ObserveManifestFetch(source string, d time.Duration, result ResultLabel) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	p.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
	p.fetchResults.WithLabelValues(source, string(result)).Inc()
}

func (p *PrometheusRecorder) IncPagesRendered(skipped bool) {
	if p == nil || p.pages == nil {
		return
	}
	label := "false"
	if skipped {
		label = "true"
	}
	p.pages.WithLabelValues(label).Inc()
}

func (p *PrometheusRecorder) ObserveHookDuration(event string, d time.Duration) {
	if p == nil || p.hookDuration == nil {
		return
	}
	p.hookDuration.WithLabelValues(event).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(result ResultLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(result)).Inc()
}

// WriteTextfile writes the gathered metrics in text exposition format.
func WriteTextfile(path string, g prom.Gatherer) error {
	return prom.WriteToTextfile(path, g)
}
