package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	s := String()
	if !strings.HasPrefix(s, "pydatatheme v1.2.3 ") {
		t.Errorf("unexpected version line %q", s)
	}
	if !strings.Contains(s, "commit "+GitCommit) {
		t.Errorf("version line %q lacks commit", s)
	}
}
