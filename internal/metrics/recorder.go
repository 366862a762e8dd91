package metrics

import "time"

// ResultLabel enumerates fetch/build result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for theme and build metrics.
type Recorder interface {
	IncWarning(kind string)
	ObserveManifestFetch(source string, d time.Duration, result ResultLabel)
	IncPagesRendered(skipped bool)
	ObserveHookDuration(event string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncWarning(string)                                       {}
func (NoopRecorder) ObserveManifestFetch(string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncPagesRendered(bool)                                   {}
func (NoopRecorder) ObserveHookDuration(string, time.Duration)               {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                      {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                             {}
