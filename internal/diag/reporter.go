// Package diag collects soft warnings: problems that are logged and counted
// while the build carries on with a fallback.
package diag

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/metrics"
)

// Kind classifies a warning for metrics and tests.
type Kind string

const (
	KindDeprecatedOption  Kind = "deprecated-option"
	KindSwitcherUnread    Kind = "switcher-unreachable"
	KindSwitcherMalformed Kind = "switcher-malformed"
	KindMissingAsset      Kind = "missing-asset"
	KindSidebarConflict   Kind = "sidebar-conflict"
)

// Warning is one recorded soft failure.
type Warning struct {
	Kind    Kind
	Message string
	Attrs   []slog.Attr
}

// Reporter logs warnings through slog and keeps them for inspection.
// It is safe for concurrent use.
type Reporter struct {
	logger   *slog.Logger
	recorder metrics.Recorder

	mu       sync.Mutex
	warnings []Warning
}

// NewReporter creates a Reporter. A nil logger uses slog.Default; a nil
// recorder disables metrics.
func NewReporter(logger *slog.Logger, recorder metrics.Recorder) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Reporter{logger: logger, recorder: recorder}
}

// Warn records and logs a warning.
func (r *Reporter) Warn(kind Kind, msg string, attrs ...slog.Attr) {
	r.mu.Lock()
	r.warnings = append(r.warnings, Warning{Kind: kind, Message: msg, Attrs: attrs})
	r.mu.Unlock()

	r.recorder.IncWarning(string(kind))
	r.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, append([]slog.Attr{logfields.Kind(string(kind))}, attrs...)...)
}

// Warnings returns a copy of everything recorded so far.
func (r *Reporter) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Count returns the number of warnings of the given kind.
func (r *Reporter) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, w := range r.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of warnings.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}
