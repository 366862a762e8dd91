package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncWarning("deprecated-option")
	pr.IncWarning("deprecated-option")
	pr.ObserveManifestFetch("http", 150*time.Millisecond, ResultSuccess)
	pr.IncPagesRendered(false)
	pr.ObserveHookDuration("html-page-context", time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(ResultSuccess)

	require.InDelta(t, 2, testutil.ToFloat64(pr.warnings.WithLabelValues("deprecated-option")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.fetchResults.WithLabelValues("http", "success")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncWarning("x")
	pr.ObserveBuildDuration(time.Second)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(ResultWarning)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `pydatatheme_build_outcomes_total{outcome="warning"} 1`))
}
